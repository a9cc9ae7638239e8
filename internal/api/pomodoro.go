package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/pomodoro"
	"github.com/julianstephens/hayati/internal/utils"
	"github.com/julianstephens/hayati/internal/validation"
)

type pomodoroRequest struct {
	Mode        models.PomodoroMode `json:"mode" validate:"required,oneof=work break longBreak"`
	DurationMin int                 `json:"duration_min" validate:"min=1,max=240"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at"`
}

func (s *Server) recordPomodoro(c *gin.Context) {
	var req pomodoroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(c, err)
		return
	}
	if req.CompletedAt.IsZero() {
		req.CompletedAt = time.Now()
	}
	session, err := s.app.Pomodoro.Record(c.Request.Context(), pomodoro.Completion{
		Mode:        req.Mode,
		DurationMin: req.DurationMin,
		StartedAt:   req.StartedAt,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, session)
}

// pomodoroHistory lists sessions between the from and to dates (inclusive),
// defaulting to the last seven days.
func (s *Server) pomodoroHistory(c *gin.Context) {
	loc := utils.MustLocation(s.app.Settings().Timezone)
	today := utils.StartOfDay(time.Now(), loc)
	from, to := today.AddDate(0, 0, -6), today

	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = utils.ParseDateInLocation(raw, loc); err != nil {
			badRequest(c, "from must be a date in "+constants.DateFormat+" format")
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = utils.ParseDateInLocation(raw, loc); err != nil {
			badRequest(c, "to must be a date in "+constants.DateFormat+" format")
			return
		}
	}

	sessions, err := s.app.Pomodoro.History(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, sessions)
}

func (s *Server) pomodoroStats(c *gin.Context) {
	stats, err := s.app.Pomodoro.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, stats)
}
