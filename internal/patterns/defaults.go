package patterns

import (
	"regexp"

	"github.com/spacesedan/reviewlens/internal/models"
)

var DefaultPositivePhrases = []string{
	"all day", "lasts all day", "long battery", "bright and clear",
	"under direct sunlight", "fast and responsive", "no lag",
	"haven't experienced any lag", "apps open quickly", "feels premium",
	"highly recommend", "worth every penny", "exceeded my expectations",
	"love this phone",
}

var DefaultNegativePhrases = []string{
	"battery drain", "drains quickly", "drains fast", "charge twice",
	"have to charge", "scratches easily", "not the best", "not up to par",
	"too long to", "not happy with", "not worth", "expected better",
	"could be better", "not impressed", "stopped working",
}

// subject and cue must sit within 30 characters of each other
const window = `.{0,30}?`

// DefaultRules returns the regex rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "battery_praise",
			Regexp:   regexp.MustCompile(`battery` + window + `(incredible|amazing|excellent|great|fantastic|impressive|outstanding|lasts)`),
			Polarity: Positive,
			Score:    0.9,
			Label:    models.LabelPositive,
		},
		{
			Name:     "camera_struggle",
			Regexp:   regexp.MustCompile(`camera` + window + `(struggl\w*|blurry|grainy|washed out)`),
			Polarity: Negative,
			Score:    -0.7,
			Label:    models.LabelNegative,
		},
		{
			Name:     "overheat_temporal",
			Regexp:   regexp.MustCompile(`(overheat\w*|gets hot|heats up|runs hot)` + window + `(during|after|when|while|whenever|within)`),
			Polarity: Negative,
			Score:    -0.8,
			Label:    models.LabelNegative,
		},
		{
			Name:     "performance_responsive",
			Regexp:   regexp.MustCompile(`(performance|speed)` + window + `(fast|responsive|snappy|smooth|quick)`),
			Polarity: Positive,
			Score:    0.8,
			Label:    models.LabelPositive,
		},
		{
			Name:     "charging_delay",
			Regexp:   regexp.MustCompile(`charging` + window + `(takes longer|too long|slow|forever)`),
			Polarity: Negative,
			Score:    -0.6,
			Label:    models.LabelNegative,
		},
		{
			Name:     "audio_praise",
			Regexp:   regexp.MustCompile(`(sound|audio|speakers?)` + window + `(fantastic|amazing|excellent|great|crisp|rich|impressive)`),
			Polarity: Positive,
			Score:    0.9,
			Label:    models.LabelPositive,
		},
		{
			Name:     "disappointed_camera",
			Regexp:   regexp.MustCompile(`disappoint\w*` + window + `camera|camera` + window + `disappoint\w*`),
			Polarity: Negative,
			Score:    -0.8,
			Label:    models.LabelNegative,
		},
		{
			Name:     "build_premium",
			Regexp:   regexp.MustCompile(`(build|quality|feel)` + window + `(premium|solid|sturdy|well made)`),
			Polarity: Positive,
			Score:    0.7,
			Label:    models.LabelPositive,
		},
	}
}
