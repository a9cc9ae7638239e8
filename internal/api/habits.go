package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/hayati/internal/habits"
)

const defaultStatsDays = 30

func (s *Server) createHabit(c *gin.Context) {
	var in habits.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	habit, err := s.app.Habits.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, habit)
}

func (s *Server) listHabits(c *gin.Context) {
	list, err := s.app.Habits.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, list)
}

func (s *Server) getHabit(c *gin.Context) {
	habit, err := s.app.Habits.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, habit)
}

func (s *Server) updateHabit(c *gin.Context) {
	var in habits.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	habit, err := s.app.Habits.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, habit)
}

func (s *Server) deleteHabit(c *gin.Context) {
	if err := s.app.Habits.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	success(c, gin.H{"id": c.Param("id")})
}

type logHabitRequest struct {
	Count int `json:"count"`
}

func (s *Server) logHabit(c *gin.Context) {
	req := logHabitRequest{Count: 1}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request payload")
			return
		}
	}
	log, err := s.app.LogHabit(c.Request.Context(), c.Param("id"), req.Count)
	if err != nil {
		s.fail(c, err)
		return
	}
	habit, err := s.app.Habits.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, gin.H{"log": log, "habit": habit})
}

func (s *Server) habitCalendar(c *gin.Context) {
	days, err := s.app.Habits.Calendar(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, days)
}

func (s *Server) habitStats(c *gin.Context) {
	days := defaultStatsDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "days must be an integer")
			return
		}
		days = n
	}
	stats, err := s.app.Habits.Stats(c.Request.Context(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, stats)
}
