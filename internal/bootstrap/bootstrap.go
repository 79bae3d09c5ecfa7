// Package bootstrap assembles the analysis pipeline and its optional
// backends from a config.Config.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/analysis"
	"github.com/spacesedan/reviewlens/internal/aspects"
	"github.com/spacesedan/reviewlens/internal/clients"
	"github.com/spacesedan/reviewlens/internal/db"
	"github.com/spacesedan/reviewlens/internal/lexicon"
	"github.com/spacesedan/reviewlens/internal/monitoring"
	"github.com/spacesedan/reviewlens/internal/patterns"
	"github.com/spacesedan/reviewlens/internal/rules"
	"github.com/spacesedan/reviewlens/internal/sentiment"
)

type App struct {
	Config    config.Config
	Lexicon   *lexicon.Lexicon
	Bank      *patterns.Bank
	Evaluator *rules.Evaluator
	Resolver  *sentiment.Resolver
	Extractor *aspects.Extractor
	Service   *analysis.Service
	// Store is nil when STORE_BACKEND=none.
	Store db.ResultStore
	// ScorerHealth is nil for in-process scorers.
	ScorerHealth monitoring.CheckFunc
	HealthChecks map[string]monitoring.CheckFunc

	hf      *clients.HuggingFaceClient
	closers []func()
}

// Build wires every component. On error, whatever was already opened is
// closed.
func Build(ctx context.Context, cfg config.Config) (app *App, err error) {
	app = &App{Config: cfg, HealthChecks: map[string]monitoring.CheckFunc{}}
	defer func() {
		if err != nil {
			app.Close()
			app = nil
		}
	}()

	if app.Lexicon, app.Bank, err = BuildRules(cfg.LexiconPath); err != nil {
		return app, err
	}
	app.Evaluator = rules.NewEvaluator(app.Lexicon, app.Bank)

	scorer, err := app.buildScorer(ctx)
	if err != nil {
		return app, err
	}
	app.Resolver = sentiment.NewResolver(scorer, app.Evaluator, cfg.RulesEnabled)

	splitter := aspects.ProseSplitter{}
	var strategy aspects.Strategy
	switch cfg.AspectStrategy {
	case config.ASPECT_NOUN_PHRASE:
		strategy = aspects.NewNounPhraseStrategy(app.Resolver, splitter)
	default:
		strategy = aspects.NewSmartphoneStrategy(app.Lexicon.Aspects(), app.Resolver, splitter)
	}
	app.Extractor = aspects.NewExtractor(strategy)

	summarizer, err := app.buildSummarizer()
	if err != nil {
		return app, err
	}
	app.Service = analysis.NewService(app.Resolver, app.Extractor, summarizer, cfg.AnalysisWorkers)

	if app.Store, err = app.buildStore(ctx); err != nil {
		return app, err
	}

	slog.Info("[Bootstrap] Pipeline ready",
		slog.String("scorer", cfg.ScorerBackend),
		slog.Bool("rules_enabled", cfg.RulesEnabled),
		slog.String("aspect_strategy", strategy.Name()),
		slog.String("summarizer", cfg.SummarizerBackend),
		slog.String("store", cfg.StoreBackend),
		slog.Bool("cache_enabled", cfg.CacheEnabled))
	return app, nil
}

// Close releases backends in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// BuildRules loads the lexicon file at path, or the built-in smartphone
// tables when path is empty. Context phrases from the file replace the
// built-in phrase lists only when present.
func BuildRules(path string) (*lexicon.Lexicon, *patterns.Bank, error) {
	if path == "" {
		lex, err := lexicon.Default()
		if err != nil {
			return nil, nil, err
		}
		bank, err := patterns.Default()
		return lex, bank, err
	}

	file, err := lexicon.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	lex, err := file.Lexicon()
	if err != nil {
		return nil, nil, err
	}

	positive, negative := patterns.DefaultPositivePhrases, patterns.DefaultNegativePhrases
	if len(file.ContextPhrases.Positive) > 0 {
		positive = file.ContextPhrases.Positive
	}
	if len(file.ContextPhrases.Negative) > 0 {
		negative = file.ContextPhrases.Negative
	}
	bank, err := patterns.NewBank(positive, negative, patterns.DefaultRules())
	return lex, bank, err
}

func (a *App) huggingFace() *clients.HuggingFaceClient {
	if a.hf == nil {
		a.hf = clients.NewHuggingFaceClient(a.Config.HFSentimentEndpoint, a.Config.HFSummaryEndpoint, a.Config.HFAPIToken, clients.HF_REQUEST_TIMEOUT)
	}
	return a.hf
}

func (a *App) buildScorer(ctx context.Context) (sentiment.Scorer, error) {
	cfg := a.Config

	var scorer sentiment.Scorer
	switch cfg.ScorerBackend {
	case config.SCORER_HUGGINGFACE:
		hf := a.huggingFace()
		scorer = hf
		a.ScorerHealth = hf.SentimentHealthCheck
		a.HealthChecks["sentiment-service"] = hf.SentimentHealthCheck
	case config.SCORER_HUGOT:
		h, err := sentiment.NewHugotScorer(cfg.HugotModelPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := h.Close(); err != nil {
				slog.Warn("[Bootstrap] Failed to close hugot scorer", slog.String("error", err.Error()))
			}
		})
		scorer = h
	case config.SCORER_VADER:
		scorer = sentiment.NewVaderScorer()
	default:
		return nil, fmt.Errorf("unknown scorer backend %q", cfg.ScorerBackend)
	}

	scorer = sentiment.Instrument(cfg.ScorerBackend, scorer)

	if cfg.CacheEnabled {
		cache, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.ValkeyInitAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, cache.Close)
		a.HealthChecks["valkey"] = cache.IsHealthy
		scorer = sentiment.NewCachingScorer(cfg.ScorerBackend, scorer, cache, cfg.CacheTTL)
	}
	return scorer, nil
}

func (a *App) buildSummarizer() (analysis.Summarizer, error) {
	switch a.Config.SummarizerBackend {
	case config.SUMMARIZER_HUGGINGFACE:
		hf := a.huggingFace()
		a.HealthChecks["summarizer"] = hf.SummarizerHealthCheck
		return hf, nil
	case config.SUMMARIZER_OPENAI:
		return clients.NewOpenAIClient(a.Config.OpenAIAPIKey)
	default:
		return nil, nil
	}
}

func (a *App) buildStore(ctx context.Context) (db.ResultStore, error) {
	cfg := a.Config

	switch cfg.StoreBackend {
	case config.STORE_POSTGRES:
		store, err := db.NewPostgresStore(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.STORE_DYNAMODB:
		awsCfg, err := clients.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return db.NewDynamoStore(clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint)), nil

	case config.STORE_OPENSEARCH:
		opts := clients.OpensearchOptions{
			Endpoint: cfg.OpensearchEndpoint,
			Password: cfg.OpensearchPassword,
		}
		if cfg.IsProduction() {
			awsCfg, err := clients.LoadAWSConfig(ctx, cfg.AWSRegion)
			if err != nil {
				return nil, err
			}
			opts.AWS = &awsCfg
		}
		store, err := clients.NewOpensearchClient(opts)
		if err != nil {
			return nil, err
		}
		a.HealthChecks["opensearch"] = store.IsHealthy
		return store, nil

	default:
		return nil, nil
	}
}
