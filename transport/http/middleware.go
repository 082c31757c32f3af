package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/service"
)

const contextUserKey = "currentUser"

// AuthRequired creates middleware that resolves the bearer token to an
// active user before the handler runs
func AuthRequired(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			abortWithAuthError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RolesRequired creates middleware that checks the authenticated user's role
// against the allowed set. It must run after AuthRequired.
func RolesRequired(authService *service.AuthService, allowed ...core.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := authService.Authorize(user, allowed...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden - insufficient role"})
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthRequired, or nil
func CurrentUser(c *gin.Context) *core.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*core.User)
	if !ok {
		return nil
	}
	return user
}

// abortWithAuthError maps authentication and authorization failures to
// status codes: 401 for anything that failed to authenticate, 403 for an
// inactive account.
func abortWithAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrMissingCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
	case errors.Is(err, core.ErrMalformedHeader):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Use: Bearer <token>"})
	case errors.Is(err, core.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
	case errors.Is(err, core.ErrTokenInvalid):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	case errors.Is(err, core.ErrUnknownUser):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
	case errors.Is(err, core.ErrUserInactive):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User inactive"})
	default:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
