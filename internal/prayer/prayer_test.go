package prayer

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/utils"
)

type staticSettings struct {
	s models.Settings
}

func (s staticSettings) Settings() models.Settings { return s.s }

func testSettings() staticSettings {
	s := models.DefaultSettings()
	s.Timezone = "UTC"
	s.Language = "en"
	return staticSettings{s: s}
}

type memStore struct {
	times    map[string]models.PrayerTime
	logs     []models.PrayerLog
	saveErr  error
	saveHits int
}

func newMemStore() *memStore {
	return &memStore{times: map[string]models.PrayerTime{}}
}

func (m *memStore) GetPrayerTime(_ context.Context, date string) (models.PrayerTime, error) {
	pt, ok := m.times[date]
	if !ok {
		return models.PrayerTime{}, apperrors.NotFound("get prayer times", "prayer times", date)
	}
	return pt, nil
}

func (m *memStore) SavePrayerTime(_ context.Context, pt models.PrayerTime) error {
	m.saveHits++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.times[pt.Date] = pt
	return nil
}

func (m *memStore) AddPrayerLog(_ context.Context, log models.PrayerLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *memStore) GetPrayerLogs(_ context.Context, date string) ([]models.PrayerLog, error) {
	var out []models.PrayerLog
	for _, l := range m.logs {
		if l.PrayerDate == date {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeCalculator struct {
	calls int
	err   error
	times models.PrayerTime
}

func (f *fakeCalculator) Calculate(day time.Time, lat, lon float64, method string, loc *time.Location) (models.PrayerTime, error) {
	f.calls++
	if f.err != nil {
		return models.PrayerTime{}, f.err
	}
	pt := f.times
	pt.Date = utils.DateKey(day, loc)
	pt.Latitude, pt.Longitude, pt.Method = lat, lon, method
	return pt, nil
}

func sampleTimes() models.PrayerTime {
	return models.PrayerTime{Fajr: "05:30", Sunrise: "06:55", Dhuhr: "12:15", Asr: "15:45", Maghrib: "18:30", Isha: "20:00"}
}

func at(hhmm string) time.Time {
	t, _ := utils.OnDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), hhmm, time.UTC)
	return t
}

func TestNextPrayer(t *testing.T) {
	noSunrise := sampleTimes()
	noSunrise.Sunrise = ""
	tomorrow := models.PrayerTime{Fajr: "05:29"}

	tests := []struct {
		name         string
		today        models.PrayerTime
		now          time.Time
		wantName     models.PrayerName
		wantTime     string
		wantTomorrow bool
	}{
		{"after dhuhr returns asr", noSunrise, at("12:16"), models.Asr, "15:45", false},
		{"before fajr", sampleTimes(), at("03:00"), models.Fajr, "05:30", false},
		{"between fajr and sunrise", sampleTimes(), at("06:00"), models.Sunrise, "06:55", false},
		{"empty sunrise is skipped", noSunrise, at("06:00"), models.Dhuhr, "12:15", false},
		{"exactly at dhuhr moves on", sampleTimes(), at("12:15"), models.Asr, "15:45", false},
		{"after isha wraps to tomorrow", sampleTimes(), at("21:00"), models.Fajr, "05:29", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextPrayer(tt.today, tomorrow, tt.now, time.UTC, "en")
			if !ok {
				t.Fatal("NextPrayer() returned no result")
			}
			if got.Name != tt.wantName || got.Time != tt.wantTime || got.Tomorrow != tt.wantTomorrow {
				t.Errorf("NextPrayer() = %s %s tomorrow=%v, want %s %s tomorrow=%v",
					got.Name, got.Time, got.Tomorrow, tt.wantName, tt.wantTime, tt.wantTomorrow)
			}
			if !got.At.After(tt.now) {
				t.Errorf("NextPrayer() returned %v, not after %v", got.At, tt.now)
			}
		})
	}
}

func TestNextPrayerNeedsTomorrow(t *testing.T) {
	if _, ok := NextPrayer(sampleTimes(), models.PrayerTime{}, at("22:00"), time.UTC, "en"); ok {
		t.Error("NextPrayer() after isha without tomorrow's times should report no result")
	}
}

func TestNextPrayerArabicName(t *testing.T) {
	got, _ := NextPrayer(sampleTimes(), models.PrayerTime{}, at("12:16"), time.UTC, "ar")
	if got.ArabicName != "العصر" {
		t.Errorf("ArabicName = %q", got.ArabicName)
	}
	if got.Display != "بعد 3 ساعة و 29 دقيقة" {
		t.Errorf("Display = %q", got.Display)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		lang string
		want string
	}{
		{2*time.Hour + 5*time.Minute, "en", "2h 5m"},
		{45 * time.Minute, "en", "45m"},
		{30 * time.Second, "en", "0m"},
		{0, "en", "now"},
		{-time.Minute, "en", "now"},
		{59 * time.Second, "ar", "بعد 0 دقيقة"},
		{time.Hour, "ar", "بعد 1 ساعة و 0 دقيقة"},
		{10 * time.Minute, "ar", "بعد 10 دقيقة"},
		{0, "ar", "الآن"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d, tt.lang); got != tt.want {
			t.Errorf("FormatRemaining(%v, %s) = %q, want %q", tt.d, tt.lang, got, tt.want)
		}
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := map[string]string{
		"karachi":                          MethodKarachi,
		"UMM_AL_QURA":                      MethodUmmAlQura,
		"ISLAMIC_SOCIETY_OF_NORTH_AMERICA": MethodNorthAmerica,
		"":                                 MethodEgyptian,
		"made-up":                          MethodEgyptian,
	}
	for in, want := range tests {
		if got := NormalizeMethod(in); got != want {
			t.Errorf("NormalizeMethod(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTimesCachesByDate(t *testing.T) {
	store := newMemStore()
	calc := &fakeCalculator{times: sampleTimes()}
	svc := NewService(store, calc, testSettings())
	ctx := context.Background()

	first, err := svc.GetTimes(ctx, "2025-06-01", 30.0444, 31.2357, "egyptian")
	if err != nil {
		t.Fatalf("GetTimes() failed: %v", err)
	}
	if first.ID != "prayer_2025-06-01" {
		t.Errorf("ID = %q", first.ID)
	}
	if _, err := svc.GetTimes(ctx, "2025-06-01", 30.0444, 31.2357, "egyptian"); err != nil {
		t.Fatalf("GetTimes() second call failed: %v", err)
	}
	if calc.calls != 1 {
		t.Errorf("calculator called %d times, want 1", calc.calls)
	}

	if _, err := svc.GetTimes(ctx, "2025-06-01", 30.0444, 31.2357, "karachi"); err != nil {
		t.Fatalf("GetTimes() with new method failed: %v", err)
	}
	if calc.calls != 2 {
		t.Errorf("method change should recompute, calls = %d", calc.calls)
	}
	if store.times["2025-06-01"].Method != MethodKarachi {
		t.Errorf("cache not overwritten, method = %q", store.times["2025-06-01"].Method)
	}
}

func TestGetTimesCacheWriteFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	store.saveErr = apperrors.Persistence("save prayer times", errors.New("disk full"))
	svc := NewService(store, &fakeCalculator{times: sampleTimes()}, testSettings())

	got, err := svc.GetTimes(context.Background(), "2025-06-01", 21.4, 39.8, "umm_al_qura")
	if err != nil {
		t.Fatalf("GetTimes() failed: %v", err)
	}
	if got.Asr != "15:45" || store.saveHits != 1 {
		t.Errorf("GetTimes() = %+v, saveHits = %d", got, store.saveHits)
	}
}

func TestGetTimesErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(newMemStore(), &fakeCalculator{times: sampleTimes()}, testSettings())
	if _, err := svc.GetTimes(ctx, "2025-06-01", 95, 0, "egyptian"); !apperrors.IsCalculation(err) {
		t.Errorf("invalid latitude error = %v, want calculation error", err)
	}
	if _, err := svc.GetTimes(ctx, "2025-06-01", math.NaN(), 0, "egyptian"); !apperrors.IsCalculation(err) {
		t.Errorf("NaN latitude error = %v, want calculation error", err)
	}
	if _, err := svc.GetTimes(ctx, "01/06/2025", 30, 31, "egyptian"); !apperrors.IsValidation(err) {
		t.Errorf("bad date error = %v, want validation error", err)
	}

	failing := NewService(newMemStore(), &fakeCalculator{err: errors.New("boom")}, testSettings())
	if _, err := failing.GetTimes(ctx, "2025-06-01", 30, 31, "egyptian"); !apperrors.IsCalculation(err) {
		t.Errorf("calculator failure error = %v, want calculation error", err)
	}
}

func TestGetNextPrayerLoadsTomorrow(t *testing.T) {
	store := newMemStore()
	calc := &fakeCalculator{times: sampleTimes()}
	svc := NewService(store, calc, testSettings())

	next, err := svc.GetNextPrayer(context.Background(), at("12:16"))
	if err != nil {
		t.Fatalf("GetNextPrayer() failed: %v", err)
	}
	if next.Name != models.Asr || calc.calls != 1 {
		t.Errorf("GetNextPrayer() = %s, calls = %d", next.Name, calc.calls)
	}

	next, err = svc.GetNextPrayer(context.Background(), at("23:00"))
	if err != nil {
		t.Fatalf("GetNextPrayer() failed: %v", err)
	}
	if next.Name != models.Fajr || !next.Tomorrow {
		t.Errorf("GetNextPrayer() late = %+v", next)
	}
	if _, ok := store.times["2025-06-02"]; !ok {
		t.Error("tomorrow's times were not cached")
	}
}

func TestLogPrayerOnTime(t *testing.T) {
	tests := []struct {
		name   string
		prayer models.PrayerName
		done   string
		want   bool
	}{
		{"dhuhr inside window", models.Dhuhr, "13:00", true},
		{"dhuhr after asr", models.Dhuhr, "16:00", false},
		{"fajr before sunrise", models.Fajr, "06:00", true},
		{"fajr after sunrise", models.Fajr, "07:00", false},
		{"isha before midnight", models.Isha, "23:30", true},
		{"asr before its time", models.Asr, "15:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := NewService(store, &fakeCalculator{times: sampleTimes()}, testSettings())
			log, err := svc.LogPrayer(context.Background(), tt.prayer, "2025-06-01", at(tt.done), "")
			if err != nil {
				t.Fatalf("LogPrayer() failed: %v", err)
			}
			if log.IsOnTime != tt.want {
				t.Errorf("IsOnTime = %v, want %v", log.IsOnTime, tt.want)
			}
			if log.Location != "Cairo" || len(store.logs) != 1 {
				t.Errorf("log = %+v, stored = %d", log, len(store.logs))
			}
		})
	}
}

func TestLogPrayerRejectsUnknown(t *testing.T) {
	svc := NewService(newMemStore(), &fakeCalculator{times: sampleTimes()}, testSettings())
	for _, name := range []models.PrayerName{"witr", models.Sunrise} {
		if _, err := svc.LogPrayer(context.Background(), name, "2025-06-01", at("12:00"), ""); !apperrors.IsValidation(err) {
			t.Errorf("LogPrayer(%s) error = %v, want validation error", name, err)
		}
	}
}

func TestAdhanCalculatorOrdering(t *testing.T) {
	cairo, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, cairo)

	for _, method := range Methods() {
		t.Run(method, func(t *testing.T) {
			pt, err := AdhanCalculator{}.Calculate(day, 30.0444, 31.2357, method, cairo)
			if err != nil {
				t.Fatalf("Calculate() failed: %v", err)
			}
			if pt.Date != "2025-03-15" || pt.Method != method {
				t.Errorf("Calculate() = %+v", pt)
			}
			prev := ""
			for _, ev := range models.PrayerEvents {
				cur := pt.TimeOf(ev)
				if !utils.ValidateTimeFormat(cur) {
					t.Fatalf("%s = %q is not HH:MM", ev, cur)
				}
				if prev != "" && cur <= prev {
					t.Errorf("%s at %s is not after %s", ev, cur, prev)
				}
				prev = cur
			}
		})
	}
}

func TestAdhanCalculatorRejectsBadCoordinates(t *testing.T) {
	_, err := AdhanCalculator{}.Calculate(time.Now(), 10, 200, MethodEgyptian, time.UTC)
	if !apperrors.IsCalculation(err) {
		t.Errorf("Calculate() error = %v, want calculation error", err)
	}
}
