package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/bootstrap"
	"github.com/spacesedan/reviewlens/internal/logging"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/trends"
)

type output struct {
	Analyses []models.ReviewAnalysis `json:"analyses"`
	Trend    *models.ReviewTrend     `json:"trend,omitempty"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

func run() error {
	withTrends := flag.Bool("trends", false, "append a trend summary of the batch")
	aspectsOnly := flag.Bool("aspects", false, "only extract aspects")
	topN := flag.Int("top", trends.DEFAULT_TOP_ASPECTS, "number of aspects in the trend summary")
	store := flag.Bool("store", false, "write analyses to the configured STORE_BACKEND")
	flag.Parse()

	config.LoadEnv(config.AppEnv())
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.InitLoggerTo(os.Stderr, cfg.LogLevel)

	inputs := inputsFromArgs(flag.Args())
	if len(inputs) == 0 {
		if inputs, err = readInputs(os.Stdin); err != nil {
			return err
		}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no reviews given: pass texts as arguments or one per line on stdin")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *aspectsOnly {
		texts := make([]string, len(inputs))
		for i, in := range inputs {
			texts[i] = in.Text
		}
		return enc.Encode(app.Service.ExtractBatch(ctx, texts))
	}

	out := output{Analyses: app.Service.AnalyzeBatch(ctx, inputs)}
	if *withTrends {
		trend := trends.BuildTrend(time.Now().UTC(), out.Analyses, *topN)
		out.Trend = &trend
	}

	if *store && app.Store != nil {
		if err := app.Store.StoreAnalyses(ctx, out.Analyses); err != nil {
			slog.Error("[Analyze] Failed to store analyses", slog.String("error", err.Error()))
		}
	}

	return enc.Encode(out)
}

func inputsFromArgs(args []string) []models.ReviewInput {
	inputs := make([]models.ReviewInput, 0, len(args))
	for _, text := range args {
		inputs = append(inputs, models.ReviewInput{Text: text})
	}
	return inputs
}

// readInputs takes one review per line. Lines that look like JSON objects
// are decoded as ReviewInput so ids, ratings and sources survive.
func readInputs(r io.Reader) ([]models.ReviewInput, error) {
	var inputs []models.ReviewInput

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			var in models.ReviewInput
			if err := json.Unmarshal([]byte(line), &in); err != nil {
				return nil, fmt.Errorf("invalid review json %q: %w", line, err)
			}
			inputs = append(inputs, in)
			continue
		}
		inputs = append(inputs, models.ReviewInput{Text: line})
	}
	return inputs, scanner.Err()
}
