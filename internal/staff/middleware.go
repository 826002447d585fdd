package staff

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxStaffDBID   = "staff_db_id"
	CtxStaffEmail  = "staff_email"
)

// AuthMiddleware validates Firebase ID tokens, upserts the staff record,
// and stores identity in the request context.
func AuthMiddleware(authClient *auth.Client, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "missing authorization token",
			})
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "invalid token",
			})
			return
		}

		email, _ := decoded.Claims["email"].(string)
		name, _ := decoded.Claims["name"].(string)

		id, err := repo.EnsureStaff(c.Request.Context(), UpsertStaff{
			FirebaseUID: decoded.UID,
			Email:       email,
			DisplayName: name,
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false, "message": "internal server error",
			})
			return
		}

		c.Set(CtxFirebaseUID, decoded.UID)
		c.Set(CtxStaffDBID, id)
		c.Set(CtxStaffEmail, email)
		c.Next()
	}
}

// StaffDBID returns the authenticated staff member's database id, or ""
// when the request was not staff-authenticated.
func StaffDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxStaffDBID))
}

// extractToken pulls the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
