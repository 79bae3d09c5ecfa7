package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/reviewlens/internal/apperrors"
)

const (
	SCORER_VADER       = "vader"
	SCORER_HUGGINGFACE = "huggingface"
	SCORER_HUGOT       = "hugot"

	SUMMARIZER_NONE        = "none"
	SUMMARIZER_HUGGINGFACE = "huggingface"
	SUMMARIZER_OPENAI      = "openai"

	STORE_NONE       = "none"
	STORE_POSTGRES   = "postgres"
	STORE_DYNAMODB   = "dynamodb"
	STORE_OPENSEARCH = "opensearch"

	ASPECT_SMARTPHONE  = "smartphone"
	ASPECT_NOUN_PHRASE = "noun_phrase"
)

type Config struct {
	AppEnv   string
	LogLevel string

	RulesEnabled   bool
	AspectStrategy string
	LexiconPath    string

	ScorerBackend       string
	HFSentimentEndpoint string
	HFSummaryEndpoint   string
	HFAPIToken          string
	HugotModelPath      string

	SummarizerBackend string
	OpenAIAPIKey      string

	CacheEnabled      bool
	ValkeyInitAddress string
	ValkeyPassword    string
	ValkeyTLS         bool
	CacheTTL          time.Duration

	StoreBackend       string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	AWSEndpoint        string
	AWSRegion          string
	OpensearchEndpoint string
	OpensearchPassword string

	KafkaBroker          string
	KafkaConsumerGroupID string

	AnalysisWorkers int
	MetricsAddr     string
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:   AppEnv(),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AspectStrategy: strings.ToLower(getEnv("ASPECT_STRATEGY", ASPECT_SMARTPHONE)),
		LexiconPath:    getEnv("LEXICON_PATH", ""),

		ScorerBackend:       strings.ToLower(getEnv("SCORER_BACKEND", SCORER_VADER)),
		HFSentimentEndpoint: getEnv("HF_SENTIMENT_ENDPOINT", ""),
		HFSummaryEndpoint:   getEnv("HF_SUMMARY_ENDPOINT", ""),
		HFAPIToken:          getEnv("HF_API_TOKEN", ""),
		HugotModelPath:      getEnv("HUGOT_MODEL_PATH", ""),

		SummarizerBackend: strings.ToLower(getEnv("SUMMARIZER_BACKEND", SUMMARIZER_NONE)),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),

		ValkeyInitAddress: getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
		ValkeyPassword:    getEnv("VALKEY_PASSWORD", ""),

		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", STORE_NONE)),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "reviewlens"),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-west-2"),
		OpensearchEndpoint: getEnv("OPENSEARCH_ENDPOINT", ""),
		OpensearchPassword: getEnv("OPENSEARCH_PASSWORD", ""),

		KafkaBroker:          getEnv("KAFKA_BROKER", "localhost:29092"),
		KafkaConsumerGroupID: getEnv("KAFKA_CONSUMER_GROUP_ID", "reviewlens-consumer-group"),

		MetricsAddr: getEnv("METRICS_ADDR", ":9102"),
	}

	var err error
	if cfg.RulesEnabled, err = getBool("RULES_ENABLED", true); err != nil {
		return cfg, err
	}
	if cfg.CacheEnabled, err = getBool("CACHE_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.ValkeyTLS, err = getBool("VALKEY_TLS", false); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.AnalysisWorkers, err = getInt("ANALYSIS_WORKERS", 4); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.ScorerBackend {
	case SCORER_VADER:
	case SCORER_HUGGINGFACE:
		if c.HFSentimentEndpoint == "" {
			return apperrors.Configuration("config.Validate", "HF_SENTIMENT_ENDPOINT is required for the huggingface scorer")
		}
	case SCORER_HUGOT:
		if c.HugotModelPath == "" {
			return apperrors.Configuration("config.Validate", "HUGOT_MODEL_PATH is required for the hugot scorer")
		}
	default:
		return apperrors.Configurationf("config.Validate", "unknown SCORER_BACKEND %q", c.ScorerBackend)
	}

	switch c.SummarizerBackend {
	case SUMMARIZER_NONE:
	case SUMMARIZER_HUGGINGFACE:
		if c.HFSummaryEndpoint == "" {
			return apperrors.Configuration("config.Validate", "HF_SUMMARY_ENDPOINT is required for the huggingface summarizer")
		}
	case SUMMARIZER_OPENAI:
		if c.OpenAIAPIKey == "" {
			return apperrors.Configuration("config.Validate", "OPENAI_API_KEY is required for the openai summarizer")
		}
	default:
		return apperrors.Configurationf("config.Validate", "unknown SUMMARIZER_BACKEND %q", c.SummarizerBackend)
	}

	switch c.StoreBackend {
	case STORE_NONE, STORE_POSTGRES, STORE_DYNAMODB:
	case STORE_OPENSEARCH:
		if c.OpensearchEndpoint == "" {
			return apperrors.Configuration("config.Validate", "OPENSEARCH_ENDPOINT is required for the opensearch store")
		}
	default:
		return apperrors.Configurationf("config.Validate", "unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.AspectStrategy {
	case ASPECT_SMARTPHONE, ASPECT_NOUN_PHRASE:
	default:
		return apperrors.Configurationf("config.Validate", "unknown ASPECT_STRATEGY %q", c.AspectStrategy)
	}

	if c.AnalysisWorkers < 1 {
		return apperrors.Configurationf("config.Validate", "ANALYSIS_WORKERS must be positive, got %d", c.AnalysisWorkers)
	}
	if c.CacheEnabled && c.ValkeyInitAddress == "" {
		return apperrors.Configuration("config.Validate", "VALKEY_INIT_ADDRESS is required when CACHE_ENABLED")
	}
	return nil
}

// PostgresDSN builds the pgx connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue, apperrors.Configurationf("config.Load", "%s must be a boolean, got %q", key, raw)
	}
	return v, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, apperrors.Configurationf("config.Load", "%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, apperrors.Configurationf("config.Load", "%s must be a duration, got %q", key, raw)
	}
	return v, nil
}
