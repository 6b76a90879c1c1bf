package playbyplay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Score is a cumulative team score. Upstream publishes it as a string.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*s = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*s = 0
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("score %q: %w", raw, err)
		}
		*s = Score(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Score(v)
	return nil
}

// Action is one recorded game event together with the score/period/clock state at that instant.
type Action struct {
	ActionNumber int       `json:"actionNumber"`
	Clock        string    `json:"clock"`
	TimeActual   time.Time `json:"timeActual"`
	Period       int       `json:"period"`
	PeriodType   string    `json:"periodType"`
	ActionType   string    `json:"actionType"`
	SubType      string    `json:"subType,omitempty"`
	ScoreHome    Score     `json:"scoreHome"`
	ScoreAway    Score     `json:"scoreAway"`
	OrderNumber  int       `json:"orderNumber"`
	TeamID       *int      `json:"teamId,omitempty"`
}

// Clone copies the action including its optional team id.
func (a Action) Clone() Action {
	if a.TeamID != nil {
		id := *a.TeamID
		a.TeamID = &id
	}
	return a
}

// Game is the action log of one game.
type Game struct {
	GameID  string   `json:"gameId"`
	Actions []Action `json:"actions"`
}

// First returns the first action in log order.
func (g Game) First() (Action, bool) {
	if len(g.Actions) == 0 {
		return Action{}, false
	}
	return g.Actions[0], true
}

// Last returns the last action in log order.
func (g Game) Last() (Action, bool) {
	if len(g.Actions) == 0 {
		return Action{}, false
	}
	return g.Actions[len(g.Actions)-1], true
}

// Response is the envelope served at playbyplay_{gameId}.json.
type Response struct {
	Game Game `json:"game"`
}

// Decode parses a raw play-by-play document.
func Decode(raw []byte) (Game, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Game{}, fmt.Errorf("decode play-by-play: %w", err)
	}
	return resp.Game, nil
}
