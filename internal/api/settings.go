package api

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/validation"
)

func (s *Server) getSettings(c *gin.Context) {
	success(c, s.app.Settings())
}

func (s *Server) updateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	settings, err := s.app.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, settings)
}

type notificationRequest struct {
	Title    string                      `json:"title" validate:"required,max=200"`
	Body     string                      `json:"body" validate:"max=1000"`
	Category models.NotificationCategory `json:"category" validate:"omitempty,oneof=tasks habits prayers system"`
	Tag      string                      `json:"tag"`
	Actions  []notifier.Action           `json:"actions"`
}

// showNotification reports shown: false instead of an error when the
// notification was suppressed or no route could display it.
func (s *Server) showNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(c, err)
		return
	}
	if req.Category == "" {
		req.Category = models.CategorySystem
	}

	n, err := s.app.Notifier.Show(c.Request.Context(), notifier.Options{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Actions:  req.Actions,
		Tag:      req.Tag,
	})
	switch {
	case apperrors.IsPermission(err):
		success(c, gin.H{"shown": false, "reason": err.Error()})
	case err != nil:
		s.fail(c, err)
	case n == nil:
		success(c, gin.H{"shown": false})
	default:
		success(c, gin.H{"shown": true, "notification": n})
	}
}

func (s *Server) notificationPermission(c *gin.Context) {
	success(c, gin.H{"permission": s.app.Notifier.CheckPermission()})
}

type actionRequest struct {
	Tag    string `json:"tag" validate:"required"`
	Action string `json:"action" validate:"required"`
}

func (s *Server) notificationAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.app.HandleAction(c.Request.Context(), req.Tag, req.Action); err != nil {
		s.fail(c, err)
		return
	}
	success(c, gin.H{"handled": true})
}
