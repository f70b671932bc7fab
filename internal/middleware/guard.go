package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Guard bundles the access gate so feature routes can compose it.
type Guard struct {
	Tokens      TokenParser
	CookieName  string
	Profiles    ProfileLookup
	RBAC        RBACService
	LandingPath string
	Logger      *zap.Logger
}

// Authenticated resolves the session and tags the request logger with it.
func (g Guard) Authenticated() []gin.HandlerFunc {
	logger := g.Logger
	if logger == nil {
		logger = zap.L()
	}
	return []gin.HandlerFunc{
		AuthMiddleware(g.Tokens, g.CookieName),
		ContextLogger(logger),
	}
}

func (g Guard) WithProfile() gin.HandlerFunc {
	return LoadProfile(g.Profiles, g.landing())
}

func (g Guard) Authorize(resource, action string) gin.HandlerFunc {
	return RBACAuthorize(g.RBAC, resource, action, g.landing())
}

func (g Guard) landing() string {
	if g.LandingPath == "" {
		return "/"
	}
	return g.LandingPath
}
