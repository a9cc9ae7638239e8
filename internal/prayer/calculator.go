// Package prayer computes, caches and reports daily prayer times.
package prayer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mnadev/adhango/pkg/calc"
	"github.com/mnadev/adhango/pkg/data"
	"github.com/mnadev/adhango/pkg/util"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
)

const (
	MethodEgyptian          = "egyptian"
	MethodKarachi           = "karachi"
	MethodNorthAmerica      = "north_america"
	MethodMuslimWorldLeague = "muslim_world_league"
	MethodUmmAlQura         = "umm_al_qura"
)

var methods = map[string]calc.CalculationMethod{
	MethodEgyptian:          calc.EGYPTIAN,
	MethodKarachi:           calc.KARACHI,
	MethodNorthAmerica:      calc.NORTH_AMERICA,
	MethodMuslimWorldLeague: calc.MUSLIM_WORLD_LEAGUE,
	MethodUmmAlQura:         calc.UMM_AL_QURA,
}

// Long names used by older settings exports.
var methodAliases = map[string]string{
	"egyptian_general_authority":             MethodEgyptian,
	"university_of_islamic_sciences_karachi": MethodKarachi,
	"islamic_society_of_north_america":       MethodNorthAmerica,
	"umm_al_qura_university_makkah":          MethodUmmAlQura,
}

// NormalizeMethod maps a method name to its canonical form. Unknown names fall
// back to the Egyptian General Authority.
func NormalizeMethod(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	if _, ok := methods[m]; ok {
		return m
	}
	if alias, ok := methodAliases[m]; ok {
		return alias
	}
	return MethodEgyptian
}

// Methods lists the supported calculation methods.
func Methods() []string {
	return []string{MethodEgyptian, MethodKarachi, MethodNorthAmerica, MethodMuslimWorldLeague, MethodUmmAlQura}
}

// Calculator computes the six events of one local calendar day.
type Calculator interface {
	Calculate(day time.Time, lat, lon float64, method string, loc *time.Location) (models.PrayerTime, error)
}

// ValidateCoordinates rejects coordinates outside the valid ranges.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return apperrors.Calculation("validate coordinates", fmt.Errorf("invalid coordinates (%g, %g)", lat, lon))
	}
	return nil
}

// AdhanCalculator computes prayer times with the adhan astronomical algorithms.
type AdhanCalculator struct{}

func (AdhanCalculator) Calculate(day time.Time, lat, lon float64, method string, loc *time.Location) (models.PrayerTime, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return models.PrayerTime{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	method = NormalizeMethod(method)

	coords, err := util.NewCoordinates(lat, lon)
	if err != nil {
		return models.PrayerTime{}, apperrors.Calculation("calculate prayer times", err)
	}
	local := day.In(loc)
	date := data.NewDateComponents(time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC))
	params := calc.GetMethodParameters(methods[method])

	pt, err := calc.NewPrayerTimes(coords, date, params)
	if err != nil {
		return models.PrayerTime{}, apperrors.Calculation("calculate prayer times", err)
	}

	format := func(t time.Time) string {
		return t.In(loc).Format(constants.TimeFormat)
	}
	key := local.Format(constants.DateFormat)
	return models.PrayerTime{
		ID:        CacheID(key),
		Date:      key,
		Fajr:      format(pt.Fajr),
		Sunrise:   format(pt.Sunrise),
		Dhuhr:     format(pt.Dhuhr),
		Asr:       format(pt.Asr),
		Maghrib:   format(pt.Maghrib),
		Isha:      format(pt.Isha),
		Latitude:  lat,
		Longitude: lon,
		Method:    method,
	}, nil
}

// CacheID returns the cache row identifier for a date key.
func CacheID(date string) string {
	return "prayer_" + date
}
