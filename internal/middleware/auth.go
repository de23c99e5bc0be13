package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"darmenu/internal/httpx"
)

// TokenValidator is satisfied by *auth.TokenManager.
type TokenValidator interface {
	ValidateToken(token string) (userID, email, role string, err error)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, userID, email, role string) {
	c.Set(httpx.KeyUserID, userID)
	c.Set(httpx.KeyUserEmail, email)
	c.Set(httpx.KeyUserRole, role)
}

func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			c.Abort()
			return
		}

		userID, email, role, err := tokens.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		slog.Debug("[AUTH] authenticated", "user_id", userID, "role", role)

		setIdentity(c, userID, email, role)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// guests through otherwise. Browsers cannot set headers on websocket
// upgrades, so the token is also read from the access_token query param.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			token = c.Query("access_token")
		}
		if token != "" {
			if userID, email, role, err := tokens.ValidateToken(token); err == nil {
				setIdentity(c, userID, email, role)
			}
		}
		c.Next()
	}
}
