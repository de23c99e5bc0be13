package httpx

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"darmenu/internal/core"
)

// Context keys set by the auth middleware.
const (
	KeyUserID    = "userID"
	KeyUserEmail = "userEmail"
	KeyUserRole  = "userRole"
)

// ClientIDHeader carries the anonymous browser id used for guest orders.
const ClientIDHeader = "X-Client-ID"

// CurrentIdentity reads the caller identity from the gin context.
func CurrentIdentity(c *gin.Context) core.Identity {
	clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
	if clientID == "" {
		clientID = strings.TrimSpace(c.Query("client_id"))
	}
	return core.Identity{
		UserID:   c.GetString(KeyUserID),
		Email:    c.GetString(KeyUserEmail),
		Role:     c.GetString(KeyUserRole),
		ClientID: truncateID(clientID, maxClientIDBytes),
	}
}

const maxClientIDBytes = 120

// truncateID cuts s to at most n bytes without splitting a rune. Invalid
// UTF-8 is dropped first since the id is stored in a text column.
func truncateID(s string, n int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
