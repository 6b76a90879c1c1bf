package replay

import (
	"errors"
	"fmt"
)

var (
	// ErrUnanchoredSession is returned when a continuation is requested before any request anchored the session.
	ErrUnanchoredSession = errors.New("replay session not anchored: request the scoreboard first")
	// ErrDataUnavailable matches every DataUnavailableError.
	ErrDataUnavailable = errors.New("replay data unavailable")
	// ErrEmptyActionLog matches every EmptyActionLogError.
	ErrEmptyActionLog = errors.New("action log has no actions")
	// ErrEmptyTemplate is returned when anchoring against a scoreboard without games.
	ErrEmptyTemplate = errors.New("scoreboard template has no games")
)

// DataUnavailableError reports that a game's play-by-play could not be fetched or parsed.
type DataUnavailableError struct {
	GameID string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("play-by-play for game %s unavailable", e.GameID)
	}
	return fmt.Sprintf("play-by-play for game %s unavailable: %v", e.GameID, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// EmptyActionLogError reports a game whose action log holds no actions.
type EmptyActionLogError struct {
	GameID string
}

func (e *EmptyActionLogError) Error() string {
	return fmt.Sprintf("game %s: %v", e.GameID, ErrEmptyActionLog)
}

func (e *EmptyActionLogError) Is(target error) bool { return target == ErrEmptyActionLog }

// AsDataUnavailable attempts to unwrap an error into a DataUnavailableError.
func AsDataUnavailable(err error) (*DataUnavailableError, bool) {
	var target *DataUnavailableError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
