// Package cached serves play-by-play logs from a local document store, falling back to
// the upstream and persisting what it fetched.
package cached

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/fixtures"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/providers"
)

// DocumentStore persists raw play-by-play documents.
type DocumentStore interface {
	LoadPlayByPlay(ctx context.Context, gameID string) ([]byte, error)
	SavePlayByPlay(ctx context.Context, gameID string, raw []byte) error
}

// Provider resolves action logs local-first.
type Provider struct {
	store    DocumentStore
	upstream providers.PlayByPlaySource
	logger   *slog.Logger
}

// New constructs a Provider. Either collaborator may be nil.
func New(store DocumentStore, upstream providers.PlayByPlaySource, logger *slog.Logger) *Provider {
	return &Provider{store: store, upstream: upstream, logger: logger}
}

// FetchPlayByPlay returns the decoded action log for gameID.
func (p *Provider) FetchPlayByPlay(ctx context.Context, gameID string) (playbyplay.Game, error) {
	logger := logging.FromContext(ctx, p.logger)

	if game, ok := p.loadLocal(ctx, logger, gameID); ok {
		return game, nil
	}
	if p.upstream == nil {
		return playbyplay.Game{}, providers.ErrProviderUnavailable
	}

	raw, err := p.upstream.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		return playbyplay.Game{}, fmt.Errorf("fetch play-by-play %s: %w", gameID, err)
	}
	game, err := playbyplay.Decode(raw)
	if err != nil {
		return playbyplay.Game{}, fmt.Errorf("play-by-play %s: %w", gameID, err)
	}

	if p.store != nil {
		if err := p.store.SavePlayByPlay(ctx, gameID, raw); err != nil {
			logging.Warn(logger, "persist play-by-play failed",
				slog.String(logging.FieldGameID, gameID),
				slog.Any("err", err),
			)
		}
	}
	logging.Info(logger, "play-by-play fetched from upstream",
		slog.String(logging.FieldGameID, gameID),
		slog.Int(logging.FieldCount, len(game.Actions)),
	)
	return game, nil
}

func (p *Provider) loadLocal(ctx context.Context, logger *slog.Logger, gameID string) (playbyplay.Game, bool) {
	if p.store == nil {
		return playbyplay.Game{}, false
	}
	raw, err := p.store.LoadPlayByPlay(ctx, gameID)
	if errors.Is(err, fixtures.ErrNotFound) {
		return playbyplay.Game{}, false
	}
	if err != nil {
		logging.Warn(logger, "local play-by-play unreadable",
			slog.String(logging.FieldGameID, gameID),
			slog.Any("err", err),
		)
		return playbyplay.Game{}, false
	}
	game, err := playbyplay.Decode(raw)
	if err != nil {
		logging.Warn(logger, "local play-by-play corrupt, refetching",
			slog.String(logging.FieldGameID, gameID),
			slog.Any("err", err),
		)
		return playbyplay.Game{}, false
	}
	return game, true
}
