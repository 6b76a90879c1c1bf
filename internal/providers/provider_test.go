package providers

import (
	"context"
	"testing"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

type testUpstream struct{}

func (t *testUpstream) FetchPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	_ = ctx
	_ = gameID
	return nil, nil
}

func (t *testUpstream) FetchBoxscore(ctx context.Context, gameID string) (scoreboard.Game, error) {
	_ = ctx
	return scoreboard.Game{GameID: gameID}, nil
}

func TestUpstreamInterfaceImplemented(t *testing.T) {
	var _ Upstream = (*testUpstream)(nil)
}
