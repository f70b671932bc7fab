package auth

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *Handler, guard middleware.Guard) {
	r.GET("/login", handler.LoginPage)
	r.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
	r.GET("/register", handler.RegisterPage)
	r.POST("/register", middleware.RateLimitByIP(0.1, 3), handler.Register)
	r.GET("/logout", handler.Logout)
	r.POST("/logout", handler.Logout)

	me := r.Group("/me")
	me.Use(guard.Authenticated()...)
	me.GET("", middleware.RateLimitByUser(2, 5), handler.Me)
}
