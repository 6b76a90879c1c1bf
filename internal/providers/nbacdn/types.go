package nbacdn

import "github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"

// boxscoreResponse is the envelope served at boxscore_{gameId}.json. Its game object
// shares the scoreboard entry's field names.
type boxscoreResponse struct {
	Game scoreboard.Game `json:"game"`
}
