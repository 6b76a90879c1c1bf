package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ScheduleDateLayout is the date format used by the league schedule document.
const ScheduleDateLayout = "01/02/2006 15:04:05"

// GameTimeLayout is the second-precision UTC layout upstream uses for scheduled tip-off.
const GameTimeLayout = "2006-01-02T15:04:05Z"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ScheduleDate formats the midnight schedule key for the day t falls on.
func ScheduleDate(t time.Time) string {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.Format(ScheduleDateLayout)
}

// ParseUpstream parses an upstream timestamp. Values without an explicit zone are treated as UTC.
func ParseUpstream(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}

// FormatGameTime renders t in GameTimeLayout, truncating sub-second precision.
func FormatGameTime(t time.Time) string {
	return t.UTC().Format(GameTimeLayout)
}

// ResolveLocation returns the named location, or UTC when name is empty or unknown.
func ResolveLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayIn returns midnight of the calendar day now falls on in loc.
func DayIn(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
