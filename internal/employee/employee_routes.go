package employee

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *Handler, guard middleware.Guard) {
	profile := r.Group("")
	profile.Use(guard.Authenticated()...)
	profile.Use(guard.WithProfile())
	{
		profile.GET("/profile",
			middleware.RateLimitByUser(5, 20),
			guard.Authorize(infra.ResourceProfile, infra.ActionRead),
			handler.GetProfile,
		)

		profile.POST("/profile",
			middleware.RateLimitByUser(0.5, 3),
			guard.Authorize(infra.ResourceProfile, infra.ActionUpdate),
			handler.UpdateProfile,
		)

		profile.GET("/departments",
			middleware.RateLimitByUser(5, 20),
			guard.Authorize(infra.ResourceLeave, infra.ActionReadAll),
			handler.Departments,
		)
	}
}
