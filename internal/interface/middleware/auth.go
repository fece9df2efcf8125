package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursebay/lms-backend/internal/domain/repository"
	"github.com/coursebay/lms-backend/pkg/helpers"
	"github.com/coursebay/lms-backend/pkg/response"
)

// Context keys populated by Auth.
const (
	CtxUserIDKey = "userID"
	CtxRoleKey   = "userRole"
)

// Auth validates the session cookie and injects the decoded claims into the
// Gin context. Missing and invalid tokens both fail with 401 through the
// standard envelope; verification errors never escape unhandled.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "Unauthenticated, please login again", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "Unauthenticated, please login again", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRoles fails with 403 unless the caller's role is in the allowed set.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[c.GetString(CtxRoleKey)]; !ok {
			resp := response.Error[any](c, http.StatusForbidden, "You do not have permission to access this route", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}

// RequireSubscriber loads the current user and fails with 403 unless the role
// is ADMIN or the subscription status is active. The check reads the database,
// not the token, so a lapsed subscription locks out immediately.
func RequireSubscriber(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), c.GetString(CtxUserIDKey))
		if err != nil || !u.IsSubscriber() {
			resp := response.Error[any](c, http.StatusForbidden, "Please subscribe to access this route", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
