package replay

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
)

// SessionLead is how long before the earliest first action the simulated session starts.
const SessionLead = 2 * time.Minute

// maxAnchorLookups bounds concurrent log resolution while anchoring.
const maxAnchorLookups = 4

// LogSource resolves a game's action log.
type LogSource interface {
	Get(ctx context.Context, gameID string) (playbyplay.Game, error)
}

// Anchor pairs the wall-clock instant of the first request with the simulated instant it maps to.
type Anchor struct {
	Real      time.Time
	Simulated time.Time
}

// Shift is the constant offset between the simulated and real frames.
func (a Anchor) Shift() time.Duration {
	return a.Simulated.Sub(a.Real)
}

// ShiftSeconds is Shift expressed in seconds.
func (a Anchor) ShiftSeconds() float64 {
	return a.Shift().Seconds()
}

// SimulatedAt maps a wall-clock instant onto the simulated timeline.
func (a Anchor) SimulatedAt(wall time.Time) time.Time {
	return a.Simulated.Add(wall.Sub(a.Real))
}

// Clock holds the process-wide session anchor. It is set at most once.
type Clock struct {
	logs    LogSource
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time

	// sem admits one anchoring attempt at a time.
	sem    chan struct{}
	anchor atomic.Pointer[Anchor]
}

// NewClock constructs an unanchored Clock resolving action logs through logs.
func NewClock(logs LogSource, logger *slog.Logger, recorder *metrics.Recorder) *Clock {
	return &Clock{
		logs:    logs,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
		sem:     make(chan struct{}, 1),
	}
}

// Now returns the clock's wall-clock time.
func (c *Clock) Now() time.Time {
	return c.now()
}

// SetNow replaces the wall-clock source. It must be called before the clock is shared.
func (c *Clock) SetNow(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Anchored reports whether the session has been anchored.
func (c *Clock) Anchored() bool {
	return c.anchor.Load() != nil
}

// Anchor returns the session anchor, or ErrUnanchoredSession.
func (c *Clock) Anchor() (Anchor, error) {
	if a := c.anchor.Load(); a != nil {
		return *a, nil
	}
	return Anchor{}, ErrUnanchoredSession
}

// SimulatedNow maps the current wall-clock time onto the simulated timeline.
func (c *Clock) SimulatedNow() (time.Time, error) {
	a, err := c.Anchor()
	if err != nil {
		return time.Time{}, err
	}
	return a.SimulatedAt(c.now()), nil
}

// ShiftSeconds returns the anchored shift in seconds.
func (c *Clock) ShiftSeconds() (float64, error) {
	a, err := c.Anchor()
	if err != nil {
		return 0, err
	}
	return a.ShiftSeconds(), nil
}

// EnsureAnchored anchors the session against template on first use and returns the stored
// anchor on every later call, whatever template is passed. Concurrent first callers are
// serialized; all of them observe the single winning anchor. A caller waiting on another
// attempt gives up when ctx is done. A failed attempt stores nothing.
func (c *Clock) EnsureAnchored(ctx context.Context, template scoreboard.Scoreboard) (Anchor, error) {
	if a := c.anchor.Load(); a != nil {
		return *a, nil
	}

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return Anchor{}, ctx.Err()
	}
	defer func() { <-c.sem }()
	if a := c.anchor.Load(); a != nil {
		return *a, nil
	}

	wall := c.now()
	start, err := c.sessionStart(ctx, template)
	if err != nil {
		return Anchor{}, err
	}

	a := Anchor{Real: wall, Simulated: start}
	c.anchor.Store(&a)
	c.metrics.RecordAnchor(a.Shift())
	logging.Info(logging.FromContext(ctx, c.logger), "replay session anchored",
		slog.Time("real_anchor", a.Real),
		slog.Time("simulated_anchor", a.Simulated),
		slog.Float64(logging.FieldShift, a.ShiftSeconds()),
		slog.Int(logging.FieldCount, len(template.Games)),
	)
	return a, nil
}

// SessionStart computes the simulated session start for template without anchoring the clock.
func (c *Clock) SessionStart(ctx context.Context, template scoreboard.Scoreboard) (time.Time, error) {
	return c.sessionStart(ctx, template)
}

// sessionStart is the earliest first-action time across the template's games minus SessionLead.
func (c *Clock) sessionStart(ctx context.Context, template scoreboard.Scoreboard) (time.Time, error) {
	if len(template.Games) == 0 {
		return time.Time{}, ErrEmptyTemplate
	}

	firsts := make([]time.Time, len(template.Games))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxAnchorLookups)
	for i, game := range template.Games {
		g.Go(func() error {
			log, err := c.logs.Get(gctx, game.GameID)
			if err != nil {
				return err
			}
			first, ok := log.First()
			if !ok {
				return &EmptyActionLogError{GameID: game.GameID}
			}
			firsts[i] = first.TimeActual
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return time.Time{}, err
	}

	earliest := firsts[0]
	for _, t := range firsts[1:] {
		if t.Before(earliest) {
			earliest = t
		}
	}
	return earliest.Add(-SessionLead), nil
}
