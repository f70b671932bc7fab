package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/session"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DepartmentsCacheKey = "employees:departments"
	departmentsCacheTTL = time.Hour
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	LookupProfile(ctx context.Context, userID uuid.UUID) (*session.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (ProfileResponse, error)
	Departments(ctx context.Context) ([]string, error)
	InvalidateDepartments(ctx context.Context)
}

type service struct {
	db       *sql.DB
	repo     Repository
	userRepo user.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, userRepo user.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		userRepo: userRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) LookupProfile(ctx context.Context, userID uuid.UUID) (*session.Profile, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	empl, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, employeeerrors.ErrEmployeeNotFound) {
			logger.Debug("lookup profile missing", zap.String("user_id", userID.String()))
			return nil, nil
		}
		logger.Error("lookup profile failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	p := empl.ToProfile()
	return &p, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	logger.Debug("get profile requested", zap.String("user_id", userID.String()))

	empl, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Warn("get profile failed", zap.String("user_id", userID.String()), zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (ProfileResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	logger.Debug("update profile requested",
		zap.String("user_id", userID.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("update profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	utx := s.userRepo.WithTx(tx)

	empl, err := qtx.FindByUserID(ctx, userID)
	if err != nil {
		logger.Warn("update profile fetch existing failed", zap.String("user_id", userID.String()), zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}
	if empl.User == nil {
		logger.Error("update profile user not loaded", zap.String("user_id", userID.String()))
		return ProfileResponse{}, usererrors.ErrUserNotFound
	}

	email := strings.TrimSpace(req.Email)
	taken, err := utx.ExistsByEmail(ctx, email, userID)
	if err != nil {
		logger.Error("update profile email check failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	if taken {
		logger.Warn("update profile email taken", zap.String("email", email))
		return ProfileResponse{}, usererrors.ErrEmailTaken
	}

	u := empl.User
	u.FirstName = strings.TrimSpace(req.FirstName)
	u.LastName = strings.TrimSpace(req.LastName)
	u.Email = email
	if err := utx.Update(ctx, u); err != nil {
		logger.Error("update profile user persist failed", zap.Error(err))
		return ProfileResponse{}, user.MapRepositoryError(err)
	}

	previousDept := empl.Department
	empl.Department = strings.TrimSpace(req.Department)
	empl.Position = strings.TrimSpace(req.Position)
	if err := qtx.Update(ctx, empl); err != nil {
		logger.Error("update profile employee persist failed", zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("update profile commit failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	if previousDept != empl.Department {
		s.InvalidateDepartments(ctx)
	}

	logger.Info("update profile success",
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) Departments(ctx context.Context) ([]string, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, DepartmentsCacheKey).Result(); err == nil {
			var depts []string
			if json.Unmarshal([]byte(cached), &depts) == nil {
				return depts, nil
			}
		}
	}

	// collapse concurrent misses into one query
	v, err, _ := s.sf.Do(DepartmentsCacheKey, func() (interface{}, error) {
		depts, err := s.repo.Departments(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		if depts == nil {
			depts = []string{}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(depts); err == nil {
				s.rdb.Set(ctx, DepartmentsCacheKey, jsonData, departmentsCacheTTL)
			}
		}

		return depts, nil
	})
	if err != nil {
		logger.Error("list departments failed", zap.Error(err))
		return nil, err
	}

	return v.([]string), nil
}

func (s *service) InvalidateDepartments(ctx context.Context) {
	logger := contextutil.GetLogger(ctx, s.logger)
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, DepartmentsCacheKey).Err(); err != nil {
		logger.Error("failed to invalidate departments cache",
			zap.Error(err),
			zap.String("key", DepartmentsCacheKey),
		)
	}
}

func mapToResponse(empl Employee) ProfileResponse {
	resp := ProfileResponse{
		EmployeeID:     empl.ID.String(),
		UserID:         empl.UserID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		Department:     empl.Department,
		Position:       empl.Position,
		IsEmployer:     empl.IsEmployer,
		Role:           empl.Role(),
		FullName:       empl.FullName(),
	}
	if !empl.HireDate.IsZero() {
		resp.HireDate = empl.HireDate.Format("2006-01-02")
	}
	if empl.User != nil {
		resp.Username = empl.User.Username
		resp.FirstName = empl.User.FirstName
		resp.LastName = empl.User.LastName
		resp.Email = empl.User.Email
	}
	return resp
}
