package api

import (
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/hayati/internal/goals"
	"github.com/julianstephens/hayati/internal/models"
)

func (s *Server) createGoal(c *gin.Context) {
	var in goals.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	goal, err := s.app.Goals.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, goal)
}

func (s *Server) listGoals(c *gin.Context) {
	status := models.GoalStatus(c.Query("status"))
	switch status {
	case "", models.GoalNotStarted, models.GoalInProgress, models.GoalCompleted, models.GoalOverdue:
	default:
		badRequest(c, "unknown goal status")
		return
	}
	list, err := s.app.Goals.List(c.Request.Context(), status)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, list)
}

func (s *Server) getGoal(c *gin.Context) {
	goal, err := s.app.Goals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, goal)
}

func (s *Server) updateGoal(c *gin.Context) {
	var in goals.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	goal, err := s.app.Goals.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, goal)
}

type progressRequest struct {
	Value *float64 `json:"value"`
}

func (s *Server) updateGoalProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		badRequest(c, "value is required")
		return
	}
	goal, err := s.app.Goals.UpdateProgress(c.Request.Context(), c.Param("id"), *req.Value)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, goal)
}

func (s *Server) deleteGoal(c *gin.Context) {
	if err := s.app.Goals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	success(c, gin.H{"id": c.Param("id")})
}
