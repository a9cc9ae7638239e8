package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
)

// Envelope is the uniform structure of every API response.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error codes. Zero is success.
const (
	CodeOK          = 0
	CodeBadRequest  = 40000
	CodeNotFound    = 40400
	CodeCalculation = 42200
	CodePermission  = 40300
	CodeInternal    = 50000
)

func respond(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, Envelope{Code: code, Message: message, Data: data})
}

func success(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, CodeOK, "success", data)
}

func created(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, CodeOK, "success", data)
}

func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, CodeBadRequest, message, nil)
}

// fail maps err onto a status code by its kind. Persistence failures are
// logged and reported without their cause.
func (s *Server) fail(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	s.app.Metrics.Error(kind.String())

	switch {
	case apperrors.IsNotFound(err):
		respond(c, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case kind == apperrors.KindValidation:
		respond(c, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
	case kind == apperrors.KindCalculation:
		respond(c, http.StatusUnprocessableEntity, CodeCalculation, err.Error(), nil)
	case kind == apperrors.KindPermission:
		respond(c, http.StatusForbidden, CodePermission, err.Error(), nil)
	default:
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		respond(c, http.StatusInternalServerError, CodeInternal, "internal error", nil)
	}
}
