package warmup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
)

const defaultInterval = 30 * time.Second

// Warmer resolves everything the replay needs before serving.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Loop calls Warm on an interval until one attempt succeeds.
type Loop struct {
	warmer   Warmer
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the warmup loop.
type Status struct {
	Attempts            int
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether a warmup attempt has completed successfully.
func (s Status) IsReady() bool {
	return !s.LastSuccess.IsZero()
}

// New constructs a Loop with sane defaults.
func New(warmer Warmer, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Loop{
		warmer:   warmer,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start runs the first attempt immediately and retries on every tick until success,
// cancellation, or Stop.
func (l *Loop) Start(ctx context.Context) {
	l.startMu.Lock()
	if l.started {
		l.startMu.Unlock()
		return
	}
	l.started = true
	l.startMu.Unlock()

	l.ticker = time.NewTicker(l.interval)

	go func() {
		defer close(l.finished)
		defer l.ticker.Stop()
		logging.Info(l.logger, "warmup started", logging.FieldDurationMS, l.interval.Milliseconds())
		if l.attempt(ctx) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				logging.Info(l.logger, "warmup stopped")
				return
			case <-l.done:
				logging.Info(l.logger, "warmup stopped")
				return
			case <-l.ticker.C:
				if l.attempt(ctx) {
					return
				}
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight attempt to return or ctx to expire.
func (l *Loop) Stop(ctx context.Context) error {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.startMu.Lock()
	started := l.started
	l.startMu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-l.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop goroutine exits.
func (l *Loop) Done() <-chan struct{} {
	return l.finished
}

// Status returns a snapshot of the loop's recent health.
func (l *Loop) Status() Status {
	l.statusMu.RLock()
	defer l.statusMu.RUnlock()
	return l.status
}

func (l *Loop) attempt(ctx context.Context) bool {
	start := l.now()
	err := l.warmer.Warm(ctx)
	elapsed := l.now().Sub(start)
	if l.metrics != nil {
		l.metrics.RecordWarmupCycle(elapsed, err)
	}

	l.statusMu.Lock()
	l.status.Attempts++
	l.status.LastAttempt = start
	if err != nil {
		l.status.ConsecutiveFailures++
		l.status.LastError = err.Error()
	} else {
		l.status.ConsecutiveFailures = 0
		l.status.LastError = ""
		l.status.LastSuccess = start
	}
	attempts := l.status.Attempts
	l.statusMu.Unlock()

	if err != nil {
		logging.Warn(l.logger, "warmup attempt failed",
			"error", err,
			"attempt", attempts,
			logging.FieldDurationMS, elapsed.Milliseconds(),
		)
		return false
	}
	logging.Info(l.logger, "warmup complete",
		"attempt", attempts,
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
	return true
}
