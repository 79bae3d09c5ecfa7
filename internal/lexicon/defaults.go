package lexicon

var DefaultPositiveWords = []string{
	"good", "great", "excellent", "amazing", "awesome",
	"love", "best", "fantastic", "incredible", "perfect",
	"impressed", "happy", "pleased", "satisfied", "recommend",
	"smooth", "responsive", "premium", "bright", "clear",
	"reliable", "beautiful", "sturdy", "worth", "enjoy",
}

var DefaultNegativeWords = []string{
	"bad", "poor", "terrible", "awful", "worst",
	"hate", "disappointed", "disappointing", "slow", "lag",
	"issue", "problem", "broken", "drain", "blurry",
	"overheat", "regret", "avoid", "struggle", "useless",
	"flimsy", "annoying", "waste", "cheap", "crash",
}

// DefaultAspectCategories is the smartphone trigger table. Order matters:
// terms are scanned in this order and the first detection of a category
// decides its position in the output.
var DefaultAspectCategories = []AspectCategory{
	{
		Name:  "battery life",
		Terms: []string{"battery", "charge", "power", "last", "lasts", "lasting", "drain", "battery life"},
	},
	{
		Name:  "screen quality",
		Terms: []string{"screen", "display", "resolution", "brightness", "sunlight", "scratch", "screen quality"},
	},
	{
		Name:  "camera quality",
		Terms: []string{"camera", "photo", "picture", "image", "selfie", "lens", "zoom", "low light", "camera quality"},
	},
	{
		Name:  "performance",
		Terms: []string{"performance", "speed", "fast", "slow", "lag", "responsive", "snappy", "smooth", "processor", "cpu", "apps"},
	},
	{
		Name:  "sound quality",
		Terms: []string{"sound", "speaker", "audio", "volume", "loud", "music", "headphone", "bass", "sound quality"},
	},
	{
		Name:  "charging speed",
		Terms: []string{"charging", "charger", "fast charging", "quick charge", "power delivery", "usb-c", "charging speed"},
	},
	{
		Name:  "overheating",
		Terms: []string{"overheat", "hot", "heat", "temperature", "warm", "thermal", "cooling"},
	},
	{
		// "lightweight" rather than "light" so "low light" stays a camera term.
		Name:  "build quality",
		Terms: []string{"build quality", "build", "premium", "design", "material", "feel", "weight", "heavy", "lightweight", "plastic", "metal", "glass"},
	},
}
