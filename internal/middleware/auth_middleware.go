package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go-leave/internal/session"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"
	"go-leave/internal/shared/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	LoginPath     = "/login"
)

type TokenParser interface {
	Parse(raw string) (token.Claims, error)
}

// AuthMiddleware resolves the session from a Bearer header or the session
// cookie. Browsers without a valid session are sent to the login page.
func AuthMiddleware(tokens TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			raw = strings.TrimSpace(bearer)
		}
		if raw == "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				raw = cookie
			}
		}

		if raw == "" {
			rejectUnauthenticated(c, "Authentication is required")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			msg := "Invalid session"
			if errors.Is(err, token.ErrTokenExpired) {
				msg = "Session expired"
			}
			rejectUnauthenticated(c, msg)
			return
		}

		session.Set(c, session.Session{UserID: claims.UserID, Username: claims.Username})
		c.Set(ContextUserID, claims.UserID.String())

		c.Next()
	}
}

func rejectUnauthenticated(c *gin.Context, msg string) {
	if WantsJSON(c) {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, msg, nil)
		c.Abort()
		return
	}

	target := LoginPath
	if c.Request.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
