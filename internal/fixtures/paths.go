package fixtures

import (
	"path/filepath"
)

const (
	scoreboardFile = "scoreboard.json"
	scheduleFile   = "schedule.json"
	manifestFile   = "manifest.json"
	playByPlaySfx  = "_pbp.json"
)

// ScoreboardPath is the location of the final-state scoreboard template.
func ScoreboardPath(basePath string) string {
	return filepath.Join(basePath, scoreboardFile)
}

// SchedulePath is the location of the league schedule document.
func SchedulePath(basePath string) string {
	return filepath.Join(basePath, scheduleFile)
}

// PlayByPlayPath is the location of a game's cached play-by-play document.
func PlayByPlayPath(basePath, gameID string) string {
	return filepath.Join(basePath, gameID+playByPlaySfx)
}

// ValidGameID reports whether id is safe to use as a document key.
func ValidGameID(id string) bool {
	if id == "" || len(id) > 32 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
