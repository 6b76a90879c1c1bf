package providers

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingUpstream wraps an Upstream with metrics and optional retry/backoff.
// With maxAttempts of 1 it only records metrics.
type retryingUpstream struct {
	inner        Upstream
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingUpstream wraps the given upstream with retries and metrics. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingUpstream(inner Upstream, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, backoff time.Duration) Upstream {
	return NewRetryingUpstreamWithRNG(inner, logger, recorder, providerName, nil, maxAttempts, backoff)
}

// NewInstrumentedUpstream records metrics for every call without retrying.
func NewInstrumentedUpstream(inner Upstream, logger *slog.Logger, recorder *metrics.Recorder, providerName string) Upstream {
	return NewRetryingUpstreamWithRNG(inner, logger, recorder, providerName, nil, 1, 0)
}

// NewRetryingUpstreamWithRNG is NewRetryingUpstream with an explicit jitter source.
func NewRetryingUpstreamWithRNG(inner Upstream, logger *slog.Logger, recorder *metrics.Recorder, providerName string, rng *rand.Rand, maxAttempts int, backoff time.Duration) Upstream {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if providerName == "" {
		providerName = "provider"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingUpstream{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		rng:          rng,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingUpstream) FetchPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	var raw []byte
	err := r.do(ctx, "play-by-play", gameID, func(ctx context.Context) error {
		var err error
		raw, err = r.inner.FetchPlayByPlay(ctx, gameID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (r *retryingUpstream) FetchBoxscore(ctx context.Context, gameID string) (scoreboard.Game, error) {
	var game scoreboard.Game
	err := r.do(ctx, "boxscore", gameID, func(ctx context.Context) error {
		var err error
		game, err = r.inner.FetchBoxscore(ctx, gameID)
		return err
	})
	if err != nil {
		return scoreboard.Game{}, err
	}
	return game, nil
}

func (r *retryingUpstream) do(ctx context.Context, kind, gameID string, call func(context.Context) error) error {
	if r.inner == nil {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider unavailable")
		return ErrProviderUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		err := call(ctx)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return nil
		}
		lastErr = err

		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if statusErr, ok := AsStatusError(err); ok && statusErr.Permanent() {
			break
		}
		if attempt == r.maxAttempts {
			break
		}

		delay := r.computeDelay(err, attempt)
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "upstream fetch retry",
			"kind", kind, "game_id", gameID, "attempt", attempt, "max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(), "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "upstream fetch failed",
		"kind", kind, "game_id", gameID, "err", lastErr)
	return lastErr
}

// computeDelay honours Retry-After on rate limits and otherwise jitters the backoff into [base/2, base].
func (r *retryingUpstream) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}
