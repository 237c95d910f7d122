package middleware

import (
	"strings"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// SessionParser resolves a session token to a user id
type SessionParser interface {
	Parse(token string) (int, *security.SessionClaims, error)
}

// AuthMiddleware requires a valid session token from the Authorization
// header or the session cookie, and loads the user it belongs to.
func AuthMiddleware(sessions SessionParser, userUC domain.UserUsecase, secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			reject(c, secLog, "missing_token", "Authentication required")
			return
		}

		userID, _, err := sessions.Parse(token)
		if err != nil {
			reject(c, secLog, "invalid_token", "Invalid or expired session")
			return
		}

		// Tokens outlive deleted accounts, so the user is re-read on every request
		user, err := userUC.GetCurrentUser(c.Request.Context(), userID)
		if err != nil {
			reject(c, secLog, "unknown_user", "Invalid or expired session")
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserName), user.Name)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(security.SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

func hasSessionCookie(c *gin.Context) bool {
	cookie, err := c.Cookie(security.SessionCookieName)
	return err == nil && cookie != ""
}

func reject(c *gin.Context, secLog *security.SecurityLogger, reason, message string) {
	if secLog != nil {
		secLog.LogUnauthorized(c.Request.Context(), c.ClientIP(), response.RequestID(c), c.FullPath(), reason)
	}
	_ = c.Error(apperror.Unauthorized(message))
	c.Abort()
}
