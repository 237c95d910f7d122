package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	CSRFTokenCookieName = "csrf_token"
	CSRFTokenHeaderName = "X-CSRF-Token"
	csrfTokenLength     = 32
)

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IssueCSRFToken sets a fresh double-submit cookie readable by the frontend.
// It lives as long as the session cookie it accompanies.
func IssueCSRFToken(c *gin.Context, maxAge int, secure bool) (string, error) {
	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFTokenCookieName, token, maxAge, "/", "", secure, false)
	return token, nil
}

// ClearCSRFToken expires the double-submit cookie
func ClearCSRFToken(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFTokenCookieName, "", -1, "/", "", secure, false)
}

// CSRFMiddleware enforces the double-submit cookie pattern on writes that
// are authenticated by the session cookie. Bearer requests are not sent
// automatically by browsers and pass unchecked.
func CSRFMiddleware(secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFTokenCookieName)
		header := c.GetHeader(CSRFTokenHeaderName)
		if err != nil || cookie == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			if secLog != nil {
				secLog.LogCSRFViolation(c.Request.Context(), c.ClientIP(), response.RequestID(c), c.FullPath())
			}
			_ = c.Error(apperror.Forbidden("Missing or invalid CSRF token"))
			c.Abort()
			return
		}

		c.Next()
	}
}
