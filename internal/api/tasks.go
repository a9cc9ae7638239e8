package api

import (
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/hayati/internal/tasks"
)

func (s *Server) createTask(c *gin.Context) {
	var in tasks.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	task, err := s.app.Tasks.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	created(c, task)
}

func (s *Server) listTasks(c *gin.Context) {
	var f tasks.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, "invalid filter")
		return
	}
	list, err := s.app.Tasks.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, list)
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.app.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, task)
}

func (s *Server) updateTask(c *gin.Context) {
	var in tasks.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request payload")
		return
	}
	task, err := s.app.Tasks.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, task)
}

func (s *Server) toggleTask(c *gin.Context) {
	task, err := s.app.Tasks.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.app.Tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	success(c, gin.H{"id": c.Param("id")})
}
