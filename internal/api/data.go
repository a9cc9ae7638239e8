package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/hayati/internal/portability"
	"github.com/julianstephens/hayati/internal/tasks"
)

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func (s *Server) exportJSON(c *gin.Context) {
	snap, err := s.app.Data.Export(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	attachment(c, portability.FileName("json", time.Now()))
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := portability.WriteJSON(c.Writer, snap); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) exportCSV(c *gin.Context) {
	list, err := s.app.Tasks.List(c.Request.Context(), tasks.Filter{})
	if err != nil {
		s.fail(c, err)
		return
	}
	attachment(c, portability.FileName("csv", time.Now()))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := portability.ExportTasksCSV(c.Writer, list); err != nil {
		_ = c.Error(err)
	}
}

// importJSON accepts a snapshot produced by exportJSON.
func (s *Server) importJSON(c *gin.Context) {
	snap, err := portability.ReadJSON(c.Request.Body)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.app.Import(c.Request.Context(), snap)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, res)
}
