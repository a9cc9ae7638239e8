package models

import "time"

type PrayerName string

const (
	Fajr    PrayerName = "fajr"
	Sunrise PrayerName = "sunrise"
	Dhuhr   PrayerName = "dhuhr"
	Asr     PrayerName = "asr"
	Maghrib PrayerName = "maghrib"
	Isha    PrayerName = "isha"
)

// PrayerEvents is the fixed cyclic order of the day's events.
var PrayerEvents = []PrayerName{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Prayers are the events that carry a prayer (sunrise does not).
var Prayers = []PrayerName{Fajr, Dhuhr, Asr, Maghrib, Isha}

var prayerArabicNames = map[PrayerName]string{
	Fajr:    "الفجر",
	Sunrise: "الشروق",
	Dhuhr:   "الظهر",
	Asr:     "العصر",
	Maghrib: "المغرب",
	Isha:    "العشاء",
}

var prayerEnglishNames = map[PrayerName]string{
	Fajr:    "Fajr",
	Sunrise: "Sunrise",
	Dhuhr:   "Dhuhr",
	Asr:     "Asr",
	Maghrib: "Maghrib",
	Isha:    "Isha",
}

// DisplayName returns the localised name of the event.
func (p PrayerName) DisplayName(language string) string {
	if language == "ar" {
		if name, ok := prayerArabicNames[p]; ok {
			return name
		}
	}
	if name, ok := prayerEnglishNames[p]; ok {
		return name
	}
	return string(p)
}

// IsValid reports whether p is one of the six known events.
func (p PrayerName) IsValid() bool {
	_, ok := prayerEnglishNames[p]
	return ok
}

// PrayerTime is the cached set of times for one date. Times are HH:MM in the
// configured timezone. Sunrise may be empty for rows written without it.
type PrayerTime struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Fajr      string  `json:"fajr"`
	Sunrise   string  `json:"sunrise"`
	Dhuhr     string  `json:"dhuhr"`
	Asr       string  `json:"asr"`
	Maghrib   string  `json:"maghrib"`
	Isha      string  `json:"isha"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Method    string  `json:"method"`
}

// TimeOf returns the HH:MM time of the named event.
func (p PrayerTime) TimeOf(name PrayerName) string {
	switch name {
	case Fajr:
		return p.Fajr
	case Sunrise:
		return p.Sunrise
	case Dhuhr:
		return p.Dhuhr
	case Asr:
		return p.Asr
	case Maghrib:
		return p.Maghrib
	case Isha:
		return p.Isha
	default:
		return ""
	}
}

// PrayerLog records a performed prayer. Logs are append-only.
type PrayerLog struct {
	ID          string     `json:"id"`
	PrayerName  PrayerName `json:"prayer_name"`
	PrayerDate  string     `json:"prayer_date"`
	CompletedAt time.Time  `json:"completed_at"`
	IsOnTime    bool       `json:"is_on_time"`
	Location    string     `json:"location"`
}

// NextPrayer describes the soonest upcoming event.
type NextPrayer struct {
	Name       PrayerName    `json:"name"`
	ArabicName string        `json:"arabic_name"`
	Time       string        `json:"time"`
	At         time.Time     `json:"at"`
	Remaining  time.Duration `json:"-"`
	Display    string        `json:"remaining"`
	Tomorrow   bool          `json:"tomorrow"`
}
