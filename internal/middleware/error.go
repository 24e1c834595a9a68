package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dentalbright/booking-api/internal/handler"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

// ErrorHandler converts errors attached to the gin context into the
// standard response envelope. Kinds drive the status code; unclassified
// errors are logged and returned as 500s with no detail.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		lastErr := c.Errors.Last().Err
		status := apperrors.StatusCode(lastErr)

		if status >= 500 {
			log.Error().
				Err(lastErr).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}

		c.JSON(status, handler.NewErrorResponse(apperrors.PublicMessage(lastErr)))
	}
}
