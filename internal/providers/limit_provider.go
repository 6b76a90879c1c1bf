package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

// PacedUpstream enforces a minimum interval between upstream calls.
type PacedUpstream struct {
	next     Upstream
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger
}

// NewPacedUpstream returns an Upstream that spaces calls at least interval apart.
// Calls block until the interval elapses to stay within upstream quotas. Stop releases the ticker.
func NewPacedUpstream(next Upstream, interval time.Duration, logger *slog.Logger) *PacedUpstream {
	if interval <= 0 {
		interval = time.Second
	}
	return &PacedUpstream{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *PacedUpstream) FetchPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	if err := p.wait(ctx, gameID); err != nil {
		return nil, err
	}
	return p.next.FetchPlayByPlay(ctx, gameID)
}

func (p *PacedUpstream) FetchBoxscore(ctx context.Context, gameID string) (scoreboard.Game, error) {
	if err := p.wait(ctx, gameID); err != nil {
		return scoreboard.Game{}, err
	}
	return p.next.FetchBoxscore(ctx, gameID)
}

// Stop releases the pacing ticker.
func (p *PacedUpstream) Stop() {
	if p != nil && p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *PacedUpstream) wait(ctx context.Context, gameID string) error {
	if p == nil || p.next == nil {
		return ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		logWithProvider(ctx, p.logger, slog.LevelWarn, "paced", "paced fetch canceled", slog.String("game_id", gameID))
		return ctx.Err()
	case <-p.ticker.C:
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, "paced", "paced upstream fetch", slog.String("game_id", gameID))
	return nil
}
