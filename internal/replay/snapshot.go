package replay

import (
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

// BuildSnapshot reconstructs the scoreboard entry for template as it would have been
// observable at simulated. log must be sorted by order number. The returned game is a copy
// whose tip-off time is re-based into the real frame by subtracting shift.
func BuildSnapshot(template scoreboard.Game, log playbyplay.Game, simulated time.Time, shift time.Duration) (scoreboard.Game, error) {
	first, ok := log.First()
	if !ok {
		return scoreboard.Game{}, &EmptyActionLogError{GameID: template.GameID}
	}
	last, _ := log.Last()

	game := template.Clone()
	if !game.GameTimeUTC.IsZero() {
		game.GameTimeUTC = game.GameTimeUTC.Add(-shift)
	}

	switch {
	case !simulated.Before(last.TimeActual):
		return game, nil
	case simulated.Before(first.TimeActual):
		game.GameStatus = scoreboard.StatusPregame
		game.Period = 1
		game.GameClock = ""
		game.HomeTeam.Score = 0
		game.AwayTeam.Score = 0
		return game, nil
	}

	// first qualifies here, so a match always exists.
	closest, _ := latestAt(log.Actions, simulated)
	game.GameStatus = scoreboard.StatusInProgress
	game.Period = closest.Period
	game.GameClock = closest.Clock
	game.HomeTeam.Score = int(closest.ScoreHome)
	game.AwayTeam.Score = int(closest.ScoreAway)
	return game, nil
}

// latestAt returns the action with the greatest position whose timestamp is not after at.
func latestAt(actions []playbyplay.Action, at time.Time) (playbyplay.Action, bool) {
	for i := len(actions) - 1; i >= 0; i-- {
		if !actions[i].TimeActual.After(at) {
			return actions[i], true
		}
	}
	return playbyplay.Action{}, false
}
