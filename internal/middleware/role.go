package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"darmenu/internal/core"
	"darmenu/internal/httpx"
	"darmenu/internal/logging"
)

func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(httpx.KeyUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role missing"})
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// AdminChecker is satisfied by *auth.Service.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin checks the caller's profile on every request, so a demoted
// admin loses access before their token expires.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(httpx.KeyUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ok, err := checker.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			slog.Error("[AUTH] admin check failed", "user_id", userID, logging.Err(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !ok {
			slog.Warn("[AUTH] admin access denied", "user_id", userID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(httpx.KeyUserRole, core.RoleAdmin)
		c.Next()
	}
}

// VerifyAdminClaim downgrades an admin claim to customer when the profile
// is no longer an admin. Unlike RequireAdmin it never rejects.
func VerifyAdminClaim(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(httpx.KeyUserID)
		if userID == "" || c.GetString(httpx.KeyUserRole) != core.RoleAdmin {
			c.Next()
			return
		}
		ok, err := checker.IsAdmin(c.Request.Context(), userID)
		if err != nil || !ok {
			if err != nil {
				slog.Warn("[AUTH] admin check failed", "user_id", userID, logging.Err(err))
			}
			c.Set(httpx.KeyUserRole, core.RoleCustomer)
		}
		c.Next()
	}
}
