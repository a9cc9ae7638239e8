package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/hayati/internal/models"
)

const prayerTimeColumns = `id, date, fajr, sunrise, dhuhr, asr, maghrib, isha, latitude, longitude, method`

const prayerLogColumns = `id, prayer_name, prayer_date, completed_at, is_on_time, location`

func (s *Store) GetPrayerTime(ctx context.Context, date string) (models.PrayerTime, error) {
	var pt models.PrayerTime
	err := s.queryRow(ctx, "get prayer times", "prayer times", date, func(sc scanner) error {
		return sc.Scan(&pt.ID, &pt.Date, &pt.Fajr, &pt.Sunrise, &pt.Dhuhr, &pt.Asr, &pt.Maghrib, &pt.Isha,
			&pt.Latitude, &pt.Longitude, &pt.Method)
	}, `SELECT `+prayerTimeColumns+` FROM prayer_times WHERE date = ?`, date)
	return pt, err
}

// SavePrayerTime inserts or replaces the row for pt.Date.
func (s *Store) SavePrayerTime(ctx context.Context, pt models.PrayerTime) error {
	_, err := s.exec(ctx, "save prayer times", `INSERT INTO prayer_times (`+prayerTimeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			fajr = excluded.fajr,
			sunrise = excluded.sunrise,
			dhuhr = excluded.dhuhr,
			asr = excluded.asr,
			maghrib = excluded.maghrib,
			isha = excluded.isha,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			method = excluded.method`,
		pt.ID, pt.Date, pt.Fajr, pt.Sunrise, pt.Dhuhr, pt.Asr, pt.Maghrib, pt.Isha,
		pt.Latitude, pt.Longitude, pt.Method)
	return err
}

func (s *Store) AddPrayerLog(ctx context.Context, log models.PrayerLog) error {
	_, err := s.exec(ctx, "add prayer log", `INSERT INTO prayer_logs (`+prayerLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		log.ID, string(log.PrayerName), log.PrayerDate, ts(log.CompletedAt), log.IsOnTime, log.Location)
	return err
}

func (s *Store) GetPrayerLogs(ctx context.Context, date string) ([]models.PrayerLog, error) {
	logs := []models.PrayerLog{}
	err := s.queryRows(ctx, "list prayer logs", func(sc scanner) error {
		var (
			l           models.PrayerLog
			name        string
			completedAt string
		)
		if err := sc.Scan(&l.ID, &name, &l.PrayerDate, &completedAt, &l.IsOnTime, &l.Location); err != nil {
			return err
		}
		l.PrayerName = models.PrayerName(name)
		at, err := parseTS(completedAt)
		if err != nil {
			return fmt.Errorf("parsing completed_at: %w", err)
		}
		l.CompletedAt = at
		logs = append(logs, l)
		return nil
	}, `SELECT `+prayerLogColumns+` FROM prayer_logs WHERE prayer_date = ? ORDER BY completed_at ASC, id ASC`, date)
	return logs, err
}
