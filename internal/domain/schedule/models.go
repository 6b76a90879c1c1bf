package schedule

// GameRef identifies a scheduled game.
type GameRef struct {
	GameID string `json:"gameId"`
}

// GameDate groups the games scheduled on one day. GameDate uses the MM/DD/YYYY HH:MM:SS layout.
type GameDate struct {
	GameDate string    `json:"gameDate"`
	Games    []GameRef `json:"games"`
}

// LeagueSchedule is the season calendar.
type LeagueSchedule struct {
	SeasonYear string     `json:"seasonYear"`
	LeagueID   string     `json:"leagueId"`
	GameDates  []GameDate `json:"gameDates"`
}

// Response is the envelope of the schedule document.
type Response struct {
	LeagueSchedule LeagueSchedule `json:"leagueSchedule"`
}

// GamesOn returns the games scheduled for the given schedule date key, or nil when none are.
func (s LeagueSchedule) GamesOn(date string) []GameRef {
	for _, d := range s.GameDates {
		if d.GameDate == date {
			return d.Games
		}
	}
	return nil
}
