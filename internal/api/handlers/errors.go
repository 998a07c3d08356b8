package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orrn/printbridge/internal/core"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusForKind(kind core.Kind) int {
	switch kind {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindInvalidInput:
		return http.StatusBadRequest
	case core.KindIoFailure, core.KindExternalToolFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure writes a core failure with its kind as the error code and
// the full diagnostic as the message.
func respondFailure(c *gin.Context, err error) {
	kind := core.KindOf(err)
	code := string(kind)
	if code == "" {
		code = "internal_error"
	}
	_ = c.Error(err)
	c.JSON(statusForKind(kind), ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: code, Message: message})
}
