package replay

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
	"github.com/preston-bernstein/nba-replay-service/internal/store"
)

// Fetcher loads a game's full action log from local storage or upstream.
type Fetcher interface {
	FetchPlayByPlay(ctx context.Context, gameID string) (playbyplay.Game, error)
}

// Cache memoizes action logs for the process lifetime. Concurrent misses for the same
// game share a single fetch; failed fetches are not cached.
type Cache struct {
	fetcher Fetcher
	store   *store.MemoryStore
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewCache constructs a Cache backed by fetcher.
func NewCache(fetcher Fetcher, logger *slog.Logger, recorder *metrics.Recorder) *Cache {
	return &Cache{
		fetcher: fetcher,
		store:   store.NewMemoryStore(),
		logger:  logger,
		metrics: recorder,
	}
}

// Get returns the action log for gameID, sorted by order number. The returned value
// is shared and must not be mutated.
func (c *Cache) Get(ctx context.Context, gameID string) (playbyplay.Game, error) {
	if log, ok := c.store.Get(gameID); ok {
		c.metrics.RecordCacheLookup(true)
		return log, nil
	}
	c.metrics.RecordCacheLookup(false)

	// The shared fetch outlives any single caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(gameID, func() (any, error) {
		if log, ok := c.store.Get(gameID); ok {
			return log, nil
		}
		start := time.Now()
		log, err := c.fetcher.FetchPlayByPlay(fetchCtx, gameID)
		if err != nil {
			logging.Warn(logging.FromContext(ctx, c.logger), "play-by-play fetch failed",
				slog.String(logging.FieldGameID, gameID),
				slog.Any("err", err),
			)
			return nil, &DataUnavailableError{GameID: gameID, Err: err}
		}
		log = materialize(gameID, log)
		c.store.Set(gameID, log)
		logging.Info(logging.FromContext(ctx, c.logger), "play-by-play cached",
			slog.String(logging.FieldGameID, gameID),
			slog.Int(logging.FieldCount, len(log.Actions)),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
		return log, nil
	})
	if err != nil {
		return playbyplay.Game{}, err
	}
	return v.(playbyplay.Game), nil
}

// Len reports how many action logs are cached.
func (c *Cache) Len() int {
	return c.store.Len()
}

// GameIDs lists cached game ids in sorted order.
func (c *Cache) GameIDs() []string {
	return c.store.GameIDs()
}

func materialize(gameID string, log playbyplay.Game) playbyplay.Game {
	actions := make([]playbyplay.Action, len(log.Actions))
	copy(actions, log.Actions)
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].OrderNumber < actions[j].OrderNumber
	})
	if log.GameID == "" {
		log.GameID = gameID
	}
	log.Actions = actions
	return log
}
