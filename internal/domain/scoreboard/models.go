package scoreboard

import (
	"encoding/json"
	"time"

	"github.com/jinzhu/copier"

	"github.com/preston-bernstein/nba-replay-service/internal/timeutil"
)

// GameStatus mirrors the upstream numeric game lifecycle codes.
type GameStatus int

const (
	StatusPregame    GameStatus = 1
	StatusInProgress GameStatus = 2
	StatusFinal      GameStatus = 3
)

// GameTime is a scheduled tip-off instant rendered at second precision in UTC.
type GameTime struct {
	time.Time
}

// NewGameTime wraps t as a GameTime.
func NewGameTime(t time.Time) GameTime {
	return GameTime{Time: t.UTC()}
}

// Add returns the game time shifted by d.
func (t GameTime) Add(d time.Duration) GameTime {
	return GameTime{Time: t.Time.Add(d)}
}

func (t GameTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(timeutil.FormatGameTime(t.Time))
}

func (t *GameTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := timeutil.ParseUpstream(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Team is one side of a scoreboard game.
type Team struct {
	TeamID            int     `json:"teamId"`
	TeamName          string  `json:"teamName"`
	TeamCity          string  `json:"teamCity"`
	TeamTricode       string  `json:"teamTricode"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	Score             int     `json:"score"`
	Seed              *int    `json:"seed"`
	InBonus           *string `json:"inBonus"`
	TimeoutsRemaining *int    `json:"timeoutsRemaining"`
}

// UnmarshalJSON defaults wins/losses to -1 when the document omits them (box scores do).
func (t *Team) UnmarshalJSON(data []byte) error {
	type plain Team
	aux := plain{Wins: -1, Losses: -1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*t = Team(aux)
	return nil
}

// Game is a point-in-time view of one game as published on the scoreboard.
type Game struct {
	GameID            string     `json:"gameId"`
	GameCode          string     `json:"gameCode"`
	GameStatus        GameStatus `json:"gameStatus"`
	GameStatusText    string     `json:"gameStatusText"`
	Period            int        `json:"period"`
	GameClock         string     `json:"gameClock"`
	GameTimeUTC       GameTime   `json:"gameTimeUTC"`
	RegulationPeriods int        `json:"regulationPeriods"`
	IfNecessary       bool       `json:"ifNecessary"`
	SeriesGameNumber  string     `json:"seriesGameNumber"`
	GameLabel         string     `json:"gameLabel"`
	GameSubLabel      string     `json:"gameSubLabel"`
	SeriesText        string     `json:"seriesText"`
	SeriesConference  string     `json:"seriesConference"`
	PoRoundDesc       string     `json:"poRoundDesc"`
	GameSubtype       string     `json:"gameSubtype"`
	HomeTeam          Team       `json:"homeTeam"`
	AwayTeam          Team       `json:"awayTeam"`
}

// Clone returns a deep copy so callers can derive views without touching the original.
func (g Game) Clone() Game {
	var out Game
	if err := copier.CopyWithOption(&out, &g, copier.Option{DeepCopy: true}); err != nil {
		return copyGame(g)
	}
	return out
}

func copyGame(g Game) Game {
	g.HomeTeam = copyTeam(g.HomeTeam)
	g.AwayTeam = copyTeam(g.AwayTeam)
	return g
}

func copyTeam(t Team) Team {
	t.Seed = copyPtr(t.Seed)
	t.InBonus = copyPtr(t.InBonus)
	t.TimeoutsRemaining = copyPtr(t.TimeoutsRemaining)
	return t
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Scoreboard is the date-scoped set of games.
type Scoreboard struct {
	GameDate   string `json:"gameDate"`
	LeagueID   string `json:"leagueId"`
	LeagueName string `json:"leagueName"`
	Games      []Game `json:"games"`
}

// Clone returns a deep copy of the scoreboard and its games.
func (s Scoreboard) Clone() Scoreboard {
	var out Scoreboard
	if err := copier.CopyWithOption(&out, &s, copier.Option{DeepCopy: true}); err != nil {
		out = s
		if s.Games != nil {
			out.Games = make([]Game, len(s.Games))
			for i, g := range s.Games {
				out.Games[i] = copyGame(g)
			}
		}
	}
	return out
}

// GameIDs lists the ids of every game on the scoreboard in order.
func (s Scoreboard) GameIDs() []string {
	ids := make([]string, 0, len(s.Games))
	for _, g := range s.Games {
		ids = append(ids, g.GameID)
	}
	return ids
}

// Response is the envelope served at todaysScoreboard_00.json.
type Response struct {
	Scoreboard Scoreboard `json:"scoreboard"`
}

const (
	LeagueIDNBA   = "00"
	LeagueNameNBA = "National Basketball Association"
)
