package habits

import (
	"time"

	"github.com/julianstephens/hayati/internal/models"
)

// dayNumber returns the number of calendar days between 1970-01-01 and t's
// date in loc.
func dayNumber(t time.Time, loc *time.Location) int64 {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func periodDays(h models.Habit) int64 {
	switch h.Frequency {
	case models.FrequencyWeekly:
		return 7
	case models.FrequencyCustom:
		if h.PeriodDays > 0 {
			return int64(h.PeriodDays)
		}
	}
	return 1
}

// periodIndex numbers the calendar period containing t. Daily periods are
// calendar days, weekly periods start on Monday, and custom periods are
// blocks of PeriodDays anchored at the habit's creation date.
func periodIndex(h models.Habit, t time.Time, loc *time.Location) int64 {
	day := dayNumber(t, loc)
	switch h.Frequency {
	case models.FrequencyWeekly:
		// 1970-01-01 was a Thursday.
		return floorDiv(day+3, 7)
	case models.FrequencyCustom:
		return floorDiv(day-dayNumber(h.CreatedAt, loc), periodDays(h))
	default:
		return day
	}
}

// periodStart returns the first calendar day of period idx in loc.
func periodStart(h models.Habit, idx int64, loc *time.Location) time.Time {
	var day int64
	switch h.Frequency {
	case models.FrequencyWeekly:
		day = idx*7 - 3
	case models.FrequencyCustom:
		day = dayNumber(h.CreatedAt, loc) + idx*periodDays(h)
	default:
		day = idx
	}
	d := time.Unix(day*86400, 0).UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// nextStreak applies one completion to a streak given the period of the
// previous completion.
func nextStreak(current int, prevPeriod, period int64) int {
	switch period - prevPeriod {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}
