package prayer

import (
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/utils"
)

// NextPrayer returns the first event strictly after now among today's times,
// in the fixed order fajr, sunrise, dhuhr, asr, maghrib, isha. When every event
// has passed it returns tomorrow's fajr. Events with an empty or malformed time
// are skipped. The second return is false when nothing could be resolved.
func NextPrayer(today, tomorrow models.PrayerTime, now time.Time, loc *time.Location, language string) (models.NextPrayer, bool) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	day := utils.StartOfDay(now, loc)

	for _, name := range models.PrayerEvents {
		at, err := utils.OnDate(day, today.TimeOf(name), loc)
		if err != nil {
			continue
		}
		if at.After(now) {
			return newNext(name, at, now, false, language), true
		}
	}

	at, err := utils.OnDate(day.AddDate(0, 0, 1), tomorrow.Fajr, loc)
	if err != nil {
		return models.NextPrayer{}, false
	}
	return newNext(models.Fajr, at, now, true, language), true
}

func newNext(name models.PrayerName, at, now time.Time, tomorrow bool, language string) models.NextPrayer {
	remaining := at.Sub(now)
	return models.NextPrayer{
		Name:       name,
		ArabicName: name.DisplayName(constants.LanguageArabic),
		Time:       at.Format(constants.TimeFormat),
		At:         at,
		Remaining:  remaining,
		Display:    FormatRemaining(remaining, language),
		Tomorrow:   tomorrow,
	}
}

// FormatRemaining renders a duration as whole hours and minutes. Only a
// duration that has run out reads as "now".
func FormatRemaining(d time.Duration, language string) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)

	if language == constants.LanguageArabic {
		switch {
		case d <= 0:
			return "الآن"
		case hours > 0:
			return fmt.Sprintf("بعد %d ساعة و %d دقيقة", hours, minutes)
		default:
			return fmt.Sprintf("بعد %d دقيقة", minutes)
		}
	}

	switch {
	case d <= 0:
		return "now"
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
