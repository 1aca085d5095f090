package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnv             = "development"
	defaultInvestEndpoint  = "invest-public-api.tinkoff.ru:443"
	defaultInvestAppName   = "marketdata-downloader"
	defaultFeedSessions    = 4
	defaultFetchStrategy   = "file"
	defaultSink            = SinkCSV
	defaultOutputDir       = "data"
	defaultRabbitExchange  = "marketdata.history"
	defaultRabbitBatchSize = 1000
	defaultRedisDB         = 0
	defaultCacheTTLSeconds = 86400
)

// Sink kinds accepted by SINK.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkAMQP     = "amqp"
)

// Config keeps the runtime configuration for the downloader binaries.
type Config struct {
	Env      string
	Invest   InvestConfig
	Fetch    FetchConfig
	Sink     SinkConfig
	Postgres PostgresConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

// InvestConfig holds broker API connection settings.
type InvestConfig struct {
	Token              string
	Endpoint           string
	AppName            string
	InsecureSkipVerify bool
}

// FetchConfig controls how history is pulled from the feed.
type FetchConfig struct {
	Sessions int
	Strategy string
	TempDir  string
}

// SinkConfig selects where fetched series are written.
type SinkConfig struct {
	Kind      string
	OutputDir string
}

// PostgresConfig stores database connection parameters.
type PostgresConfig struct {
	DSN string
}

type RabbitMQConfig struct {
	URL       string
	Exchange  string
	BatchSize int
}

// RedisConfig stores Redis connection parameters. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// CacheConfig stores cache behavior.
type CacheConfig struct {
	TTLSeconds int
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoadDotEnv reads key=value pairs from the given files into the environment.
// Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("INVEST_TOKEN")
	if token == "" {
		return nil, errors.New("INVEST_TOKEN is required")
	}

	insecure, err := getBool("INVEST_INSECURE_SKIP_VERIFY", false)
	if err != nil {
		return nil, fmt.Errorf("parse INVEST_INSECURE_SKIP_VERIFY: %w", err)
	}

	sessions, err := getInt("FEED_SESSIONS", defaultFeedSessions)
	if err != nil {
		return nil, fmt.Errorf("parse FEED_SESSIONS: %w", err)
	}
	if sessions <= 0 {
		return nil, fmt.Errorf("FEED_SESSIONS must be positive, got %d", sessions)
	}

	strategy := getString("FETCH_STRATEGY", defaultFetchStrategy)
	if strategy != "file" && strategy != "memory" {
		return nil, fmt.Errorf("FETCH_STRATEGY must be file or memory, got %q", strategy)
	}

	sink := getString("SINK", defaultSink)
	dsn := os.Getenv("DATABASE_DSN")
	rabbitURL := os.Getenv("RABBITMQ_URL")
	switch sink {
	case SinkCSV:
	case SinkPostgres:
		if dsn == "" {
			return nil, errors.New("DATABASE_DSN is required for the postgres sink")
		}
	case SinkAMQP:
		if rabbitURL == "" {
			return nil, errors.New("RABBITMQ_URL is required for the amqp sink")
		}
	default:
		return nil, fmt.Errorf("SINK must be csv, postgres or amqp, got %q", sink)
	}

	batchSize, err := getInt("RABBITMQ_BATCH_SIZE", defaultRabbitBatchSize)
	if err != nil {
		return nil, fmt.Errorf("parse RABBITMQ_BATCH_SIZE: %w", err)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("RABBITMQ_BATCH_SIZE must be positive, got %d", batchSize)
	}

	redisDB, err := getInt("REDIS_DB", defaultRedisDB)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	cacheTTL, err := getInt("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	}

	return &Config{
		Env: getString("APP_ENV", defaultEnv),
		Invest: InvestConfig{
			Token:              token,
			Endpoint:           getString("INVEST_ENDPOINT", defaultInvestEndpoint),
			AppName:            getString("INVEST_APP_NAME", defaultInvestAppName),
			InsecureSkipVerify: insecure,
		},
		Fetch: FetchConfig{
			Sessions: sessions,
			Strategy: strategy,
			TempDir:  getString("FETCH_TEMP_DIR", os.TempDir()),
		},
		Sink: SinkConfig{
			Kind:      sink,
			OutputDir: getString("OUTPUT_DIR", defaultOutputDir),
		},
		Postgres: PostgresConfig{
			DSN: dsn,
		},
		RabbitMQ: RabbitMQConfig{
			URL:       rabbitURL,
			Exchange:  getString("RABBITMQ_EXCHANGE", defaultRabbitExchange),
			BatchSize: batchSize,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: cacheTTL,
		},
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("convert %s value %q to bool: %w", key, value, err)
	}
	return parsed, nil
}
