package server

import (
	"context"

	"github.com/preston-bernstein/nba-replay-service/internal/warmup"
)

// Warmup defines the minimal warmup loop behavior needed by the server.
type Warmup interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() warmup.Status
}
