package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const csrfSessionKey = "csrf_token"

// IssueCSRFToken returns the session's CSRF token, minting one on first use.
// Clients call GET /api/v1/csrf before posting a form.
func IssueCSRFToken(c *gin.Context) {
	session := sessions.Default(c)

	token, _ := session.Get(csrfSessionKey).(string)
	if token == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
			return
		}
		token = hex.EncodeToString(b)
		session.Set(csrfSessionKey, token)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "csrf_token": token})
}

// CSRFMiddleware rejects state-changing requests whose token does not match
// the session's. The token travels in the X-CSRF-Token header or the
// csrf_token form field.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		session := sessions.Default(c)
		expected, _ := session.Get(csrfSessionKey).(string)

		got := c.GetHeader("X-CSRF-Token")
		if got == "" {
			got = c.PostForm("csrf_token")
		}

		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "CSRF token missing or invalid.",
			})
			return
		}
		c.Next()
	}
}
