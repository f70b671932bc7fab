package main

import (
	"context"
	"fmt"

	"go-leave/internal/app"
	"go-leave/internal/auth"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/seed"
	"go-leave/internal/shared/connection"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/token"
	"go-leave/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := app.Migrate(gormDB); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// the department cache is dropped as accounts are added
	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, 1, logger)
	if err != nil {
		logger.Warn("redis unavailable, department cache not invalidated", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	userRepo := user.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	employeeService := employee.NewService(sqlDB, employeeRepo, userRepo, rdb, logger)
	authService := auth.NewService(
		sqlDB,
		userRepo,
		employeeRepo,
		counter.NewRepository(gormDB),
		token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		employeeService,
		logger,
	)

	seeder := seed.New(authService, userRepo, employeeRepo, leave.NewRepository(gormDB), nil, logger)
	res, err := seeder.Run(context.Background())
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	fmt.Printf("created %d accounts, skipped %d, added %d leave requests\n",
		len(res.Created), len(res.Skipped), res.Leaves)
	fmt.Println("Employers: admin / admin123, employer / employer123")
	fmt.Println("Employees: alice_smith, bob_johnson, carol_williams, david_brown, emma_davis / password123")
}
