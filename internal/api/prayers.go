package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/prayer"
	"github.com/julianstephens/hayati/internal/utils"
)

// prayerTimes answers GET /api/prayers/times. Missing query values fall back
// to today and the saved location and method.
func (s *Server) prayerTimes(c *gin.Context) {
	settings := s.app.Settings()
	date := c.Query("date")
	if date == "" {
		date = utils.DateKey(time.Now(), utils.MustLocation(settings.Timezone))
	}
	lat, lon := settings.Latitude, settings.Longitude
	var err error
	if raw := c.Query("lat"); raw != "" {
		if lat, err = strconv.ParseFloat(raw, 64); err != nil {
			badRequest(c, "lat must be a number")
			return
		}
	}
	if raw := c.Query("lon"); raw != "" {
		if lon, err = strconv.ParseFloat(raw, 64); err != nil {
			badRequest(c, "lon must be a number")
			return
		}
	}
	method := c.DefaultQuery("method", settings.CalculationMethod)

	times, err := s.app.Prayers.GetTimes(c.Request.Context(), date, lat, lon, method)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, times)
}

func (s *Server) nextPrayer(c *gin.Context) {
	next, err := s.app.Prayers.GetNextPrayer(c.Request.Context(), time.Now())
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, next)
}

func (s *Server) prayerMethods(c *gin.Context) {
	success(c, prayer.Methods())
}

type logPrayerRequest struct {
	PrayerName  models.PrayerName `json:"prayer_name"`
	Date        string            `json:"date"`
	CompletedAt *time.Time        `json:"completed_at"`
	Location    string            `json:"location"`
}

func (s *Server) logPrayer(c *gin.Context) {
	var req logPrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	completedAt := time.Now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	log, err := s.app.Prayers.LogPrayer(c.Request.Context(), req.PrayerName, req.Date, completedAt, req.Location)
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, log)
}

func (s *Server) prayerLogs(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = utils.DateKey(time.Now(), utils.MustLocation(s.app.Settings().Timezone))
	}
	logs, err := s.app.Prayers.Logs(c.Request.Context(), date)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, logs)
}
