package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/teststubs"
)

func TestPacedUpstreamBlocksUntilTick(t *testing.T) {
	inner := &teststubs.StubUpstream{Boxscores: map[string]scoreboard.Game{"g1": {GameID: "g1"}}}
	paced := NewPacedUpstream(inner, 5*time.Millisecond, nil)
	defer paced.Stop()

	start := time.Now()
	if _, err := paced.FetchBoxscore(context.Background(), "g1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Fatalf("expected call to wait for ticker, elapsed %s", elapsed)
	}
	if inner.Calls.Load() != 1 {
		t.Fatalf("expected inner upstream called once, got %d", inner.Calls.Load())
	}
}

func TestPacedUpstreamRespectsCanceledContext(t *testing.T) {
	inner := &teststubs.StubUpstream{}
	paced := NewPacedUpstream(inner, time.Minute, nil)
	defer paced.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := paced.FetchPlayByPlay(ctx, "g1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
	if inner.Calls.Load() != 0 {
		t.Fatalf("expected inner upstream not called on canceled context")
	}
}

func TestPacedUpstreamHandlesNilInner(t *testing.T) {
	paced := NewPacedUpstream(nil, time.Millisecond, nil)
	defer paced.Stop()

	if _, err := paced.FetchBoxscore(context.Background(), "g1"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestPacedUpstreamDefaultsInterval(t *testing.T) {
	paced := NewPacedUpstream(&teststubs.StubUpstream{}, 0, nil)
	defer paced.Stop()
	if paced.interval != time.Second {
		t.Fatalf("expected default interval 1s, got %s", paced.interval)
	}
	var nilPaced *PacedUpstream
	nilPaced.Stop()
}
