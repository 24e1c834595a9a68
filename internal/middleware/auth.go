package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dentalbright/booking-api/internal/handler"
	"github.com/dentalbright/booking-api/internal/service/auth"
)

const ContextDentistID = "dentist_id"

// Auth guards dashboard routes with a bearer token issued by the auth
// service. The authenticated dentist id lands in the request context.
func Auth(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := service.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextDentistID, claims.DentistID)
		c.Next()
	}
}
