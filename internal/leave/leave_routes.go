package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r gin.IRouter, handler *Handler, guard middleware.Guard, rdb *redis.Client) {
	leaves := r.Group("")
	leaves.Use(guard.Authenticated()...)
	leaves.Use(guard.WithProfile())
	{
		leaves.GET("/dashboard",
			guard.Authorize(infra.ResourceLeave, infra.ActionReadOwn),
			handler.EmployeeDashboard,
		)
		leaves.POST("/submit-leave",
			middleware.RateLimitByUser(0.5, 5),
			guard.Authorize(infra.ResourceLeave, infra.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Submit,
		)

		leaves.GET("/employer-dashboard",
			guard.Authorize(infra.ResourceLeave, infra.ActionReadAll),
			handler.EmployerDashboard,
		)
		leaves.GET("/leave-requests",
			middleware.RateLimitByUser(5, 20),
			guard.Authorize(infra.ResourceLeave, infra.ActionReadAll),
			handler.List,
		)
		leaves.GET("/leave-requests/:id",
			guard.Authorize(infra.ResourceLeave, infra.ActionReadOwn),
			handler.Detail,
		)
		leaves.POST("/leave-requests/:id/approve",
			middleware.RateLimitByUser(2, 10),
			guard.Authorize(infra.ResourceLeave, infra.ActionApprove),
			handler.Approve,
		)
		leaves.POST("/leave-requests/:id/reject",
			middleware.RateLimitByUser(2, 10),
			guard.Authorize(infra.ResourceLeave, infra.ActionReject),
			handler.Reject,
		)
	}
}
