package replay

import (
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
)

// BuildWindow returns the prefix-visible actions of log at simulated, in log order,
// with every timestamp re-based into the real frame by subtracting shift.
// The result never aliases log.
func BuildWindow(log playbyplay.Game, simulated time.Time, shift time.Duration) playbyplay.Game {
	window := playbyplay.Game{
		GameID:  log.GameID,
		Actions: make([]playbyplay.Action, 0, len(log.Actions)),
	}
	for _, action := range log.Actions {
		if action.TimeActual.After(simulated) {
			continue
		}
		visible := action.Clone()
		visible.TimeActual = visible.TimeActual.Add(-shift)
		window.Actions = append(window.Actions, visible)
	}
	return window
}
