package middleware

import (
	"context"
	"net/http"

	"go-leave/internal/session"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/flash"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const MsgProfileNotFound = "Employee profile not found."

// ProfileLookup returns (nil, nil) when the user has no employee profile.
type ProfileLookup interface {
	LookupProfile(ctx context.Context, userID uuid.UUID) (*session.Profile, error)
}

// LoadProfile resolves the caller's employee profile once per request.
// A missing profile is a soft denial, never an error page.
func LoadProfile(lookup ProfileLookup, landingPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.Get(c)
		if !ok {
			rejectUnauthenticated(c, "Authentication is required")
			return
		}

		profile, err := lookup.LookupProfile(c.Request.Context(), sess.UserID)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}
		if profile == nil {
			softDeny(c, http.StatusNotFound, MsgProfileNotFound, landingPath)
			return
		}

		session.SetProfile(c, *profile)
		c.Next()
	}
}

// softDeny redirects browsers to landing with a flash message; script
// callers get {success:false, error}.
func softDeny(c *gin.Context, status int, msg, landingPath string) {
	if WantsJSON(c) {
		response.ActionError(c, status, msg)
		c.Abort()
		return
	}

	flash.Error(c, msg)
	c.Redirect(http.StatusFound, landingPath)
	c.Abort()
}
