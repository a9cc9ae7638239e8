package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hayati/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// MustLocation is LoadLocation falling back to time.Local on error.
func MustLocation(timezone string) *time.Location {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// DateKey returns the YYYY-MM-DD day key of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes is the inverse of ParseTimeToMinutes. Values wrap around midnight.
func FormatMinutes(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// OnDate returns the instant at which the HH:MM clock time occurs on day's calendar date in loc.
func OnDate(day time.Time, timeStr string, loc *time.Location) (time.Time, error) {
	tod, err := ParseTime(timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}
	day = day.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

// NextOccurrence returns the next instant strictly after now at which the
// HH:MM clock time occurs: today if it has not passed yet, otherwise tomorrow.
func NextOccurrence(timeStr string, now time.Time, loc *time.Location) (time.Time, error) {
	at, err := OnDate(now, timeStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	if !at.After(now) {
		n := now.In(loc)
		at, err = OnDate(time.Date(n.Year(), n.Month(), n.Day()+1, 12, 0, 0, 0, loc), timeStr, loc)
		if err != nil {
			return time.Time{}, err
		}
	}
	return at, nil
}

// NextWeekdayOccurrence returns the next instant strictly after now that falls
// on weekday at the HH:MM clock time.
func NextWeekdayOccurrence(weekday time.Weekday, timeStr string, now time.Time, loc *time.Location) (time.Time, error) {
	n := now.In(loc)
	for i := 0; i <= 7; i++ {
		day := time.Date(n.Year(), n.Month(), n.Day()+i, 12, 0, 0, 0, loc)
		if day.Weekday() != weekday {
			continue
		}
		at, err := OnDate(day, timeStr, loc)
		if err != nil {
			return time.Time{}, err
		}
		if at.After(now) {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("no occurrence of %s %s found", weekday, timeStr)
}

// FormatTimestamp formats t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp parses a stored timestamp. RFC3339 values written by other
// tools are accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ParseDue accepts "YYYY-MM-DD HH:MM", "YYYY-MM-DD" (23:59 that day) or
// "HH:MM" (on now's date) in loc.
func ParseDue(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, s, loc); err == nil {
		return t, nil
	}
	if day, err := ParseDateInLocation(s, loc); err == nil {
		return day.Add(23*time.Hour + 59*time.Minute), nil
	}
	if ValidateTimeFormat(s) {
		return OnDate(now, s, loc)
	}
	return time.Time{}, fmt.Errorf("invalid due time %q (expected YYYY-MM-DD HH:MM, YYYY-MM-DD or HH:MM)", s)
}
