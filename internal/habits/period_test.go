package habits

import (
	"testing"
	"time"

	"github.com/julianstephens/hayati/internal/models"
)

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{7, 7, 1}, {6, 7, 0}, {0, 7, 0}, {-1, 7, -1}, {-7, 7, -1}, {-8, 7, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestWeeklyPeriodStartsMonday(t *testing.T) {
	h := models.Habit{Frequency: models.FrequencyWeekly}
	for d := 6; d <= 12; d++ {
		at := time.Date(2025, 1, d, 12, 0, 0, 0, time.UTC)
		start := periodStart(h, periodIndex(h, at, time.UTC), time.UTC)
		if start.Weekday() != time.Monday || start.Day() != 6 {
			t.Errorf("period start for %s = %s", at.Format("Mon 2"), start.Format("Mon 2"))
		}
	}
	sunday := time.Date(2025, 1, 5, 23, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 1, 6, 0, 30, 0, 0, time.UTC)
	if periodIndex(h, monday, time.UTC)-periodIndex(h, sunday, time.UTC) != 1 {
		t.Error("Sunday and the following Monday should be consecutive weeks")
	}
}

func TestPeriodUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	h := models.Habit{Frequency: models.FrequencyDaily}
	// 22:30 UTC is already the next day at UTC+3.
	a := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 1, 22, 30, 0, 0, time.UTC)
	if periodIndex(h, b, loc)-periodIndex(h, a, loc) != 1 {
		t.Error("periods should follow the local calendar day")
	}
	if periodIndex(h, b, time.UTC) != periodIndex(h, a, time.UTC) {
		t.Error("same UTC day should share a period in UTC")
	}
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		prev, cur int64
		want      int
	}{
		{"same period keeps", 4, 10, 10, 4},
		{"same period with stale zero", 0, 10, 10, 1},
		{"next period increments", 4, 10, 11, 5},
		{"gap resets", 4, 10, 13, 1},
	}
	for _, tt := range tests {
		if got := nextStreak(tt.current, tt.prev, tt.cur); got != tt.want {
			t.Errorf("%s: nextStreak() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
