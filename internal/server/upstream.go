package server

import (
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/preston-bernstein/nba-replay-service/internal/config"
	"github.com/preston-bernstein/nba-replay-service/internal/fixtures"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
	"github.com/preston-bernstein/nba-replay-service/internal/providers"
	"github.com/preston-bernstein/nba-replay-service/internal/providers/cached"
	"github.com/preston-bernstein/nba-replay-service/internal/providers/nbacdn"
)

// buildUpstream wraps the CDN client with metrics. Request-path fetches are not retried.
func buildUpstream(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) providers.Upstream {
	client := nbacdn.NewClient(nbacdn.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	return providers.NewInstrumentedUpstream(client, logger, recorder, client.Name())
}

// buildDocumentStore selects where raw play-by-play documents persist. The returned closer
// is nil for the filesystem store.
func buildDocumentStore(cfg config.Config, fs *fixtures.FSStore, logger *slog.Logger) (cached.DocumentStore, func() error) {
	if cfg.PlayByPlayStore != config.StoreRedis {
		return fs, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logging.Info(logger, "play-by-play documents stored in redis",
		slog.String("addr", cfg.Redis.Addr),
		slog.String("prefix", cfg.Redis.KeyPrefix),
	)
	return fixtures.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL), client.Close
}
