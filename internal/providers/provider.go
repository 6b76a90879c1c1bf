package providers

import (
	"context"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

// PlayByPlaySource fetches raw play-by-play documents for a game.
type PlayByPlaySource interface {
	FetchPlayByPlay(ctx context.Context, gameID string) ([]byte, error)
}

// BoxscoreSource fetches a game's box score mapped onto a scoreboard entry.
type BoxscoreSource interface {
	FetchBoxscore(ctx context.Context, gameID string) (scoreboard.Game, error)
}

// Upstream combines all upstream capabilities.
type Upstream interface {
	PlayByPlaySource
	BoxscoreSource
}
