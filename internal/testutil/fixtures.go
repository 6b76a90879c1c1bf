package testutil

import (
	"encoding/json"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

// T0 is the reference tip-off instant used across fixtures.
var T0 = time.Date(2024, 12, 8, 20, 0, 0, 0, time.UTC)

// Action builds a play-by-play action with the given order, timestamp and state.
func Action(order int, at time.Time, period int, clock string, home, away int) playbyplay.Action {
	return playbyplay.Action{
		ActionNumber: order,
		OrderNumber:  order,
		TimeActual:   at,
		Period:       period,
		PeriodType:   "REGULAR",
		Clock:        clock,
		ActionType:   "2pt",
		ScoreHome:    playbyplay.Score(home),
		ScoreAway:    playbyplay.Score(away),
	}
}

// Log wraps actions into a game's action log.
func Log(gameID string, actions ...playbyplay.Action) playbyplay.Game {
	return playbyplay.Game{GameID: gameID, Actions: actions}
}

// ThreeActionLog is the canonical log: actions at start, start+60s and start+180s
// with scores (0,0), (2,0) and (2,3).
func ThreeActionLog(gameID string, start time.Time) playbyplay.Game {
	return Log(gameID,
		Action(1, start, 1, "PT12M00.00S", 0, 0),
		Action(2, start.Add(60*time.Second), 1, "PT11M00.00S", 2, 0),
		Action(3, start.Add(180*time.Second), 1, "PT09M00.00S", 2, 3),
	)
}

// SampleGame returns a final scoreboard entry with the provided id.
func SampleGame(id string) scoreboard.Game {
	return scoreboard.Game{
		GameID:            id,
		GameCode:          "20241208/BOSMIL",
		GameStatus:        scoreboard.StatusFinal,
		GameStatusText:    "Final",
		Period:            4,
		GameClock:         "",
		GameTimeUTC:       scoreboard.NewGameTime(T0),
		RegulationPeriods: 4,
		HomeTeam: scoreboard.Team{
			TeamID: 1610612749, TeamName: "Bucks", TeamCity: "Milwaukee", TeamTricode: "MIL",
			Wins: 12, Losses: 9, Score: 112,
		},
		AwayTeam: scoreboard.Team{
			TeamID: 1610612738, TeamName: "Celtics", TeamCity: "Boston", TeamTricode: "BOS",
			Wins: 19, Losses: 4, Score: 108,
		},
	}
}

// SampleScoreboard builds a scoreboard with one sample game per id.
func SampleScoreboard(ids ...string) scoreboard.Scoreboard {
	games := make([]scoreboard.Game, 0, len(ids))
	for _, id := range ids {
		games = append(games, SampleGame(id))
	}
	return scoreboard.Scoreboard{
		GameDate:   "2024-12-08",
		LeagueID:   scoreboard.LeagueIDNBA,
		LeagueName: scoreboard.LeagueNameNBA,
		Games:      games,
	}
}

// PlayByPlayJSON encodes log in the upstream play-by-play envelope.
func PlayByPlayJSON(log playbyplay.Game) []byte {
	raw, err := json.Marshal(playbyplay.Response{Game: log})
	if err != nil {
		panic(err)
	}
	return raw
}
