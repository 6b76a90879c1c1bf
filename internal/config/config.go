package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port            string `env:"PORT" envDefault:"4000"`
	AssetsDir       string `env:"ASSETS_DIR" envDefault:"assets"`
	PlayByPlayStore string `env:"PBP_STORE" envDefault:"fs"`
	Upstream        UpstreamConfig
	Redis           RedisConfig
	Warmup          WarmupConfig
	Metrics         MetricsConfig
	Log             LogConfig
}

// UpstreamConfig controls access to the live data CDN.
type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL" envDefault:"https://cdn.nba.com/static/json/liveData"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
}

// RedisConfig is used when PlayByPlayStore is StoreRedis.
type RedisConfig struct {
	Addr      string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"nba-replay:"`
	TTL       time.Duration `env:"REDIS_TTL" envDefault:"0s"`
}

// WarmupConfig controls the background play-by-play warmup loop.
type WarmupConfig struct {
	Enabled  bool          `env:"WARMUP_ENABLED" envDefault:"true"`
	Interval time.Duration `env:"WARMUP_INTERVAL" envDefault:"30s"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from environment variables with sensible defaults.
// Unparseable or non-positive durations fall back to their defaults.
func Load() (Config, error) {
	var cfg Config
	if err := parseEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg.Port = orDefault(cfg.Port, defaultPort)
	cfg.PlayByPlayStore = strings.ToLower(strings.TrimSpace(cfg.PlayByPlayStore))
	switch cfg.PlayByPlayStore {
	case StoreFS, StoreRedis:
	case "":
		cfg.PlayByPlayStore = StoreFS
	default:
		return Config{}, fmt.Errorf("load config: unknown PBP_STORE %q", cfg.PlayByPlayStore)
	}
	cfg.Upstream.Timeout = positiveOr(cfg.Upstream.Timeout, defaultUpstreamTimeout)
	cfg.Warmup.Interval = positiveOr(cfg.Warmup.Interval, defaultWarmupInterval)
	if cfg.Redis.TTL < 0 {
		cfg.Redis.TTL = 0
	}
	cfg.Metrics = normalizeMetrics(cfg.Metrics)
	return cfg, nil
}
