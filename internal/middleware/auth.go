package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
)

// RequireAuth authenticates the request via an "Authorization: Bearer"
// header and stores the resolved user in the context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.Header("WWW-Authenticate", "Bearer")
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.Identify(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrAccountInactive) {
				apierrors.Forbidden(c, "Account is inactive")
			} else {
				c.Header("WWW-Authenticate", "Bearer")
				apierrors.Unauthorized(c, "Invalid or expired token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, false
	}
	return user, true
}
