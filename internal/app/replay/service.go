package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	engine "github.com/preston-bernstein/nba-replay-service/internal/replay"
)

// ErrTemplateUnavailable is returned when the scoreboard template cannot be loaded.
var ErrTemplateUnavailable = errors.New("scoreboard template unavailable")

// TemplateLoader loads the final-state scoreboard the replay is driven from.
type TemplateLoader interface {
	LoadScoreboard(ctx context.Context) (scoreboard.Response, error)
}

// Clock is the session clock the service maps wall-clock time through.
type Clock interface {
	EnsureAnchored(ctx context.Context, template scoreboard.Scoreboard) (engine.Anchor, error)
	Anchor() (engine.Anchor, error)
	SessionStart(ctx context.Context, template scoreboard.Scoreboard) (time.Time, error)
	Now() time.Time
}

// SessionStatus describes the replay session for diagnostics.
type SessionStatus struct {
	Anchored        bool       `json:"anchored"`
	RealAnchor      *time.Time `json:"realAnchor,omitempty"`
	SimulatedAnchor *time.Time `json:"simulatedAnchor,omitempty"`
	SimulatedNow    *time.Time `json:"simulatedNow,omitempty"`
	ShiftSeconds    float64    `json:"shiftSeconds"`
	CachedGames     []string   `json:"cachedGames"`
}

// Service answers scoreboard and play-by-play requests against the replay session.
type Service struct {
	templates TemplateLoader
	logs      engine.LogSource
	clock     Clock
	logger    *slog.Logger
	cached    func() []string
}

// NewService constructs a Service.
func NewService(templates TemplateLoader, logs engine.LogSource, clock Clock, logger *slog.Logger) *Service {
	s := &Service{
		templates: templates,
		logs:      logs,
		clock:     clock,
		logger:    logger,
		cached:    func() []string { return []string{} },
	}
	if lister, ok := logs.(interface{ GameIDs() []string }); ok {
		s.cached = lister.GameIDs
	}
	return s
}

// Scoreboard returns every template game as it would have been observed live now,
// anchoring the session on first use.
func (s *Service) Scoreboard(ctx context.Context) (scoreboard.Response, error) {
	template, err := s.template(ctx)
	if err != nil {
		return scoreboard.Response{}, err
	}
	anchor, err := s.clock.EnsureAnchored(ctx, template.Scoreboard)
	if err != nil {
		return scoreboard.Response{}, fmt.Errorf("anchor session: %w", err)
	}

	simulated := anchor.SimulatedAt(s.clock.Now())
	out := template.Scoreboard.Clone()
	for i, game := range template.Scoreboard.Games {
		log, err := s.logs.Get(ctx, game.GameID)
		if err != nil {
			return scoreboard.Response{}, err
		}
		snap, err := engine.BuildSnapshot(game, log, simulated, anchor.Shift())
		if err != nil {
			return scoreboard.Response{}, err
		}
		out.Games[i] = snap
	}

	logging.Debug(logging.FromContext(ctx, s.logger), "scoreboard built",
		slog.Time(logging.FieldSimulated, simulated),
		slog.Int(logging.FieldCount, len(out.Games)),
	)
	return scoreboard.Response{Scoreboard: out}, nil
}

// PlayByPlay returns the actions of gameID visible at the current simulated instant.
// It never anchors the session.
func (s *Service) PlayByPlay(ctx context.Context, gameID string) (playbyplay.Response, error) {
	anchor, err := s.clock.Anchor()
	if err != nil {
		return playbyplay.Response{}, err
	}
	log, err := s.logs.Get(ctx, gameID)
	if err != nil {
		return playbyplay.Response{}, err
	}

	simulated := anchor.SimulatedAt(s.clock.Now())
	window := engine.BuildWindow(log, simulated, anchor.Shift())
	logging.Debug(logging.FromContext(ctx, s.logger), "play-by-play window built",
		slog.String(logging.FieldGameID, gameID),
		slog.Time(logging.FieldSimulated, simulated),
		slog.Int(logging.FieldCount, len(window.Actions)),
	)
	return playbyplay.Response{Game: window}, nil
}

// FixedPointGame returns the first template game as it stood at the simulated session start,
// with its tip-off re-based against the current wall clock. It never anchors the session.
func (s *Service) FixedPointGame(ctx context.Context) (scoreboard.Game, error) {
	template, err := s.template(ctx)
	if err != nil {
		return scoreboard.Game{}, err
	}
	if len(template.Scoreboard.Games) == 0 {
		return scoreboard.Game{}, engine.ErrEmptyTemplate
	}
	start, err := s.sessionStart(ctx, template.Scoreboard)
	if err != nil {
		return scoreboard.Game{}, err
	}

	game := template.Scoreboard.Games[0]
	log, err := s.logs.Get(ctx, game.GameID)
	if err != nil {
		return scoreboard.Game{}, err
	}
	shift := start.Sub(s.clock.Now())
	return engine.BuildSnapshot(game, log, start, shift)
}

// Session reports the state of the replay session.
func (s *Service) Session(ctx context.Context) (SessionStatus, error) {
	_ = ctx
	status := SessionStatus{CachedGames: s.cached()}
	anchor, err := s.clock.Anchor()
	if errors.Is(err, engine.ErrUnanchoredSession) {
		return status, nil
	}
	if err != nil {
		return status, err
	}
	status.Anchored = true
	simulatedNow := anchor.SimulatedAt(s.clock.Now())
	status.RealAnchor = &anchor.Real
	status.SimulatedAnchor = &anchor.Simulated
	status.SimulatedNow = &simulatedNow
	status.ShiftSeconds = anchor.ShiftSeconds()
	return status, nil
}

// Warm resolves the action log of every template game so first requests are served from memory.
func (s *Service) Warm(ctx context.Context) error {
	template, err := s.template(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range template.Scoreboard.GameIDs() {
		if _, err := s.logs.Get(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// sessionStart is the stored simulated anchor, or the start the session would anchor at.
func (s *Service) sessionStart(ctx context.Context, template scoreboard.Scoreboard) (time.Time, error) {
	anchor, err := s.clock.Anchor()
	if err == nil {
		return anchor.Simulated, nil
	}
	if !errors.Is(err, engine.ErrUnanchoredSession) {
		return time.Time{}, err
	}
	start, err := s.clock.SessionStart(ctx, template)
	if err != nil {
		return time.Time{}, fmt.Errorf("session start: %w", err)
	}
	return start, nil
}

func (s *Service) template(ctx context.Context) (scoreboard.Response, error) {
	resp, err := s.templates.LoadScoreboard(ctx)
	if err != nil {
		return scoreboard.Response{}, fmt.Errorf("%w: %w", ErrTemplateUnavailable, err)
	}
	return resp, nil
}
