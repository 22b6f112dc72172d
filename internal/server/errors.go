package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ghostwood/internal/generation"
	"ghostwood/internal/history"
	"ghostwood/internal/logging"
	"ghostwood/internal/wizard"
)

var (
	errSessionNotFound = errors.New("session not found")
	errBadRequest      = errors.New("bad request")
)

// statusFor maps domain errors to HTTP status codes and the message shown to
// the client. Generation failures always surface as the busy message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, generation.ErrGeneration):
		return http.StatusBadGateway, generation.BusyMessage
	case errors.Is(err, wizard.ErrIntakeIncomplete), errors.Is(err, wizard.ErrTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, history.ErrNotFound), errors.Is(err, errSessionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.WithContext(c.Request.Context(), s.logger).Warn("api request failed",
			logging.String("route", c.FullPath()),
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": message})
}
