package api

import (
	"net/http"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	kindRateLimited = "RATE_LIMITED"
	kindInternal    = "INTERNAL"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindInvalid:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders err as the error envelope. Unclassified errors are
// attached to the context for the request logger and hidden from the caller.
func writeError(c *gin.Context, err error) {
	if kind, ok := domain.KindOf(err); ok {
		c.AbortWithStatusJSON(statusFor(kind), errorResponse{Error: string(kind), Message: err.Error()})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: kindInternal, Message: "internal error"})
}

func validationError(c *gin.Context, msg string) {
	writeError(c, domain.Validation(msg))
}
