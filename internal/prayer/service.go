package prayer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/metrics"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/utils"
)

// SettingsSource returns the current user settings.
type SettingsSource interface {
	Settings() models.Settings
}

type Service struct {
	store    storage.PrayerStore
	calc     Calculator
	settings SettingsSource
	metrics  *metrics.Registry
}

func NewService(store storage.PrayerStore, calc Calculator, settings SettingsSource) *Service {
	if calc == nil {
		calc = AdhanCalculator{}
	}
	return &Service{store: store, calc: calc, settings: settings}
}

// SetMetrics records cache hits and misses in m.
func (s *Service) SetMetrics(m *metrics.Registry) {
	s.metrics = m
}

func (s *Service) location() *time.Location {
	return utils.MustLocation(s.settings.Settings().Timezone)
}

// GetTimes returns the times for date (YYYY-MM-DD), computing and caching
// them on a miss. A cached row computed for other coordinates or another
// method counts as a miss and is replaced.
func (s *Service) GetTimes(ctx context.Context, date string, lat, lon float64, method string) (models.PrayerTime, error) {
	loc := s.location()
	day, err := utils.ParseDateInLocation(date, loc)
	if err != nil {
		return models.PrayerTime{}, apperrors.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}
	if err := ValidateCoordinates(lat, lon); err != nil {
		return models.PrayerTime{}, err
	}
	method = NormalizeMethod(method)

	cached, err := s.store.GetPrayerTime(ctx, date)
	switch {
	case err == nil && cached.Latitude == lat && cached.Longitude == lon && cached.Method == method:
		s.metrics.PrayerCacheLookup(true)
		return cached, nil
	case err != nil && !apperrors.IsNotFound(err):
		logger.Warn("Prayer time cache read failed", "date", date, "error", err)
	}
	s.metrics.PrayerCacheLookup(false)

	pt, err := s.calc.Calculate(day, lat, lon, method, loc)
	if err != nil {
		if apperrors.IsCalculation(err) {
			return models.PrayerTime{}, err
		}
		return models.PrayerTime{}, apperrors.Calculation("calculate prayer times", err)
	}
	pt.ID = CacheID(date)
	pt.Date = date

	if err := s.store.SavePrayerTime(ctx, pt); err != nil {
		logger.Warn("Prayer time cache write failed", "date", date, "error", err)
	}
	return pt, nil
}

// ForDate returns the times of the given day using the saved location and method.
func (s *Service) ForDate(ctx context.Context, day time.Time) (models.PrayerTime, error) {
	st := s.settings.Settings()
	return s.GetTimes(ctx, utils.DateKey(day, s.location()), st.Latitude, st.Longitude, st.CalculationMethod)
}

// GetNextPrayer returns the next event after now. Tomorrow's times are only
// loaded once every event of today has passed.
func (s *Service) GetNextPrayer(ctx context.Context, now time.Time) (models.NextPrayer, error) {
	loc := s.location()
	lang := s.settings.Settings().Language

	today, err := s.ForDate(ctx, now)
	if err != nil {
		return models.NextPrayer{}, err
	}
	if next, ok := NextPrayer(today, models.PrayerTime{}, now, loc, lang); ok {
		return next, nil
	}

	tomorrow, err := s.ForDate(ctx, utils.StartOfDay(now, loc).AddDate(0, 0, 1))
	if err != nil {
		return models.NextPrayer{}, err
	}
	next, ok := NextPrayer(today, tomorrow, now, loc, lang)
	if !ok {
		return models.NextPrayer{}, apperrors.Calculation("next prayer", fmt.Errorf("no prayer times available for %s", tomorrow.Date))
	}
	return next, nil
}

// LogPrayer records a performed prayer. It is on time when completed before
// the following event of the same day, or before midnight for isha.
func (s *Service) LogPrayer(ctx context.Context, name models.PrayerName, date string, completedAt time.Time, location string) (models.PrayerLog, error) {
	if !name.IsValid() || name == models.Sunrise {
		return models.PrayerLog{}, apperrors.Validation("unknown prayer %q", name)
	}
	loc := s.location()
	if date == "" {
		date = utils.DateKey(completedAt, loc)
	}
	day, err := utils.ParseDateInLocation(date, loc)
	if err != nil {
		return models.PrayerLog{}, apperrors.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	onTime := false
	if times, err := s.ForDate(ctx, day); err != nil {
		logger.Warn("Could not resolve prayer window", "prayer", name, "date", date, "error", err)
	} else {
		onTime = withinWindow(times, name, day, completedAt, loc)
	}

	log := models.PrayerLog{
		ID:          uuid.NewString(),
		PrayerName:  name,
		PrayerDate:  date,
		CompletedAt: completedAt,
		IsOnTime:    onTime,
		Location:    location,
	}
	if log.Location == "" {
		log.Location = s.settings.Settings().City
	}
	if err := s.store.AddPrayerLog(ctx, log); err != nil {
		return models.PrayerLog{}, err
	}
	return log, nil
}

func withinWindow(times models.PrayerTime, name models.PrayerName, day, completedAt time.Time, loc *time.Location) bool {
	start, err := utils.OnDate(day, times.TimeOf(name), loc)
	if err != nil || completedAt.Before(start) {
		return false
	}
	end := utils.StartOfDay(day, loc).AddDate(0, 0, 1)
	for i, ev := range models.PrayerEvents {
		if ev != name || i+1 >= len(models.PrayerEvents) {
			continue
		}
		if next, err := utils.OnDate(day, times.TimeOf(models.PrayerEvents[i+1]), loc); err == nil {
			end = next
		}
	}
	return completedAt.Before(end)
}

func (s *Service) Logs(ctx context.Context, date string) ([]models.PrayerLog, error) {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return nil, apperrors.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}
	return s.store.GetPrayerLogs(ctx, date)
}
