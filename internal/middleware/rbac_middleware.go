package middleware

import (
	"net/http"

	"go-leave/internal/domain"
	"go-leave/internal/session"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const MsgAccessDenied = "Access denied. You don't have employer privileges."

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize must run after LoadProfile.
func RBACAuthorize(service RBACService, resource, action, landingPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := session.GetProfile(c)
		if !ok {
			softDeny(c, http.StatusForbidden, MsgAccessDenied, landingPath)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     profile.Role(),
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			zap.L().Named("middleware.rbac").Error("rbac enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
			c.Abort()
			return
		}

		if !allowed {
			softDeny(c, http.StatusForbidden, MsgAccessDenied, landingPath)
			return
		}
		c.Next()
	}
}
