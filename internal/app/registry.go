package app

import (
	"database/sql"

	"go-leave/internal/auth"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/token"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	cfg *config.Config,
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	employeeService := employee.NewService(db, employeeRepo, userRepo, rdb, logger)
	authService := auth.NewService(db, userRepo, employeeRepo, counterRepo, tokens, employeeService, logger)
	leaveService := leave.NewService(db, leaveRepo, employeeService, leave.Options{
		PageSize:    cfg.Leave.PageSize,
		RecentLimit: cfg.Leave.RecentLimit,
	}, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Name:   cfg.Auth.CookieName,
		MaxAge: tokens.TTL(),
		Secure: cfg.IsProduction(),
	}, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, rdb, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	guard := middleware.Guard{
		Tokens:      tokens,
		CookieName:  cfg.Auth.CookieName,
		Profiles:    employeeService,
		RBAC:        rbacService,
		LandingPath: cfg.App.LandingPath,
		Logger:      logger,
	}

	// --- Routes Registration ---
	router.GET("/", Home)
	auth.RegisterRoutes(router, authHandler, guard)
	employee.RegisterRoutes(router, employeeHandler, guard)
	leave.RegisterRoutes(router, leaveHandler, guard, rdb)
	rbac.RegisterRoutes(router, rbacHandler, guard)

	return nil
}
