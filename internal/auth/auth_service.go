package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/employee"
	"go-leave/internal/session"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Me(ctx context.Context, userID uuid.UUID) (AuthResponse, error)
}

// DepartmentCache is satisfied by employee.Service.
type DepartmentCache interface {
	InvalidateDepartments(ctx context.Context)
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, username string) (string, error)
}

type service struct {
	db           *sql.DB
	userRepo     user.Repository
	employeeRepo employee.Repository
	counter      counter.Repository
	tokens       TokenIssuer
	departments  DepartmentCache
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	userRepo user.Repository,
	employeeRepo employee.Repository,
	counterRepo counter.Repository,
	tokens TokenIssuer,
	departments DepartmentCache,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:           db,
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		counter:      counterRepo,
		tokens:       tokens,
		departments:  departments,
		now:          time.Now,
		logger:       l,
	}
}

// Register creates the user and its employee profile in one transaction.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	logger.Debug("register requested",
		zap.String("username", username),
		zap.String("role", req.Role),
	)

	if req.Password != req.PasswordConfirm {
		logger.Warn("register password mismatch", zap.String("username", username))
		return AuthResponse{}, autherrors.ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLength {
		logger.Warn("register password too short", zap.String("username", username))
		return AuthResponse{}, autherrors.ErrPasswordTooShort
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = session.RoleEmployee
	}
	if role != session.RoleEmployee && role != session.RoleEmployer {
		logger.Warn("register invalid role", zap.String("role", req.Role))
		return AuthResponse{}, autherrors.ErrInvalidRole
	}

	hireDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.HireDate != "" {
		parsed, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			logger.Warn("register invalid hire_date", zap.String("hire_date", req.HireDate), zap.Error(err))
			return AuthResponse{}, autherrors.ErrInvalidHireDate
		}
		hireDate = parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("register hash password failed", zap.Error(err))
		return AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("register begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	utx := s.userRepo.WithTx(tx)
	etx := s.employeeRepo.WithTx(tx)

	taken, err := utx.ExistsByUsername(ctx, username)
	if err != nil {
		logger.Error("register username check failed", zap.Error(err))
		return AuthResponse{}, err
	}
	if taken {
		logger.Warn("register username taken", zap.String("username", username))
		return AuthResponse{}, usererrors.ErrUsernameTaken
	}

	taken, err = utx.ExistsByEmail(ctx, email, uuid.Nil)
	if err != nil {
		logger.Error("register email check failed", zap.Error(err))
		return AuthResponse{}, err
	}
	if taken {
		logger.Warn("register email taken", zap.String("email", email))
		return AuthResponse{}, usererrors.ErrEmailTaken
	}

	u := &user.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  string(hashed),
		IsActive:  true,
	}
	if err := utx.Create(ctx, u); err != nil {
		logger.Error("register user persist failed", zap.Error(err))
		return AuthResponse{}, user.MapRepositoryError(err)
	}

	next, err := s.counter.GetNextValue(ctx, counter.EmployeeNumber)
	if err != nil {
		logger.Error("register generate employee number failed", zap.Error(err))
		return AuthResponse{}, err
	}

	empl := &employee.Employee{
		ID:             uuid.New(),
		UserID:         u.ID,
		EmployeeNumber: counter.FormatEmployeeNumber(next),
		Department:     strings.TrimSpace(req.Department),
		Position:       strings.TrimSpace(req.Position),
		HireDate:       hireDate,
		IsEmployer:     role == session.RoleEmployer,
	}
	if err := etx.Create(ctx, empl); err != nil {
		logger.Error("register employee persist failed", zap.Error(err))
		return AuthResponse{}, employee.MapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("register commit failed", zap.Error(err))
		return AuthResponse{}, err
	}

	if empl.Department != "" && s.departments != nil {
		s.departments.InvalidateDepartments(ctx)
	}

	logger.Info("register success",
		zap.String("user_id", u.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	empl.User = u
	return mapToResponse(*u, empl), nil
}

func (s *service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	username = strings.TrimSpace(username)
	logger.Debug("login requested", zap.String("username", username))

	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(user.MapRepositoryError(err), usererrors.ErrUserNotFound) {
			logger.Warn("login unknown user", zap.String("username", username))
			return LoginResult{}, autherrors.ErrInvalidCredentials
		}
		logger.Error("login lookup failed", zap.Error(err))
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		logger.Warn("login wrong password", zap.String("username", username))
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		logger.Warn("login inactive user", zap.String("username", username))
		return LoginResult{}, autherrors.ErrUserInactive
	}

	raw, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		logger.Error("login issue token failed", zap.Error(err))
		return LoginResult{}, autherrors.ErrTokenGenerationFailed
	}

	var empl *employee.Employee
	if e, err := s.employeeRepo.FindByUserID(ctx, u.ID); err == nil {
		empl = e
	}

	logger.Info("login success", zap.String("user_id", u.ID.String()))
	return LoginResult{AccessToken: raw, User: mapToResponse(*u, empl)}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (AuthResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("me lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
		return AuthResponse{}, user.MapRepositoryError(err)
	}

	var empl *employee.Employee
	if e, err := s.employeeRepo.FindByUserID(ctx, userID); err == nil {
		empl = e
	}

	return mapToResponse(*u, empl), nil
}

func mapToResponse(u user.User, empl *employee.Employee) AuthResponse {
	resp := AuthResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if empl != nil {
		resp.EmployeeID = empl.ID.String()
		resp.EmployeeNumber = empl.EmployeeNumber
		resp.Role = empl.Role()
	}
	return resp
}
