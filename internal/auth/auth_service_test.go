package auth_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/employee"
	employeeMock "go-leave/internal/employee/mock"
	"go-leave/internal/shared/counter"
	counterMock "go-leave/internal/shared/counter/mock"
	"go-leave/internal/shared/token"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"
	userMock "go-leave/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeDepartmentCache struct {
	invalidated int
}

func (f *fakeDepartmentCache) InvalidateDepartments(ctx context.Context) { f.invalidated++ }

type serviceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      auth.Service
	userRepo     *userMock.MockRepository
	employeeRepo *employeeMock.MockRepository
	counter      *counterMock.MockRepository
	tokens       *token.Manager
	cache        *fakeDepartmentCache
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	userRepo := userMock.NewMockRepository(ctrl)
	employeeRepo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	tokens := token.NewManager("test-secret", time.Hour)
	cache := &fakeDepartmentCache{}

	svc := auth.NewService(db, userRepo, employeeRepo, counterRepo, tokens, cache)

	return &serviceDeps{
		db:           db,
		sqlMock:      sqlMock,
		service:      svc,
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		counter:      counterRepo,
		tokens:       tokens,
		cache:        cache,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func validRegisterRequest() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username:        "alice_smith",
		Email:           "alice@company.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		Password:        "password123",
		PasswordConfirm: "password123",
		Department:      "IT",
		Position:        "Software Developer",
		HireDate:        "2023-01-15",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		deps.userRepo.EXPECT().WithTx(gomock.Any()).Return(deps.userRepo)
		deps.employeeRepo.EXPECT().WithTx(gomock.Any()).Return(deps.employeeRepo)
		deps.userRepo.EXPECT().ExistsByUsername(gomock.Any(), "alice_smith").Return(false, nil)
		deps.userRepo.EXPECT().ExistsByEmail(gomock.Any(), "alice@company.com", uuid.Nil).Return(false, nil)
		deps.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, u *user.User) error {
				assert.NotEqual(t, "password123", u.Password)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")))
				assert.True(t, u.IsActive)
				return nil
			})
		deps.counter.EXPECT().GetNextValue(gomock.Any(), counter.EmployeeNumber).Return(int64(3), nil)
		deps.employeeRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, empl *employee.Employee) error {
				assert.Equal(t, "EMP-000003", empl.EmployeeNumber)
				assert.False(t, empl.IsEmployer)
				assert.Equal(t, "IT", empl.Department)
				assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), empl.HireDate)
				return nil
			})

		res, err := deps.service.Register(ctx, validRegisterRequest())

		assert.NoError(t, err)
		assert.Equal(t, "alice_smith", res.Username)
		assert.Equal(t, "EMP-000003", res.EmployeeNumber)
		assert.Equal(t, "employee", res.Role)
		assert.Equal(t, 1, deps.cache.invalidated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success employer role", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		req := validRegisterRequest()
		req.Username = "employer"
		req.Email = "employer@company.com"
		req.Role = "employer"
		req.Department = ""

		deps.userRepo.EXPECT().WithTx(gomock.Any()).Return(deps.userRepo)
		deps.employeeRepo.EXPECT().WithTx(gomock.Any()).Return(deps.employeeRepo)
		deps.userRepo.EXPECT().ExistsByUsername(gomock.Any(), "employer").Return(false, nil)
		deps.userRepo.EXPECT().ExistsByEmail(gomock.Any(), "employer@company.com", uuid.Nil).Return(false, nil)
		deps.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.counter.EXPECT().GetNextValue(gomock.Any(), counter.EmployeeNumber).Return(int64(1), nil)
		deps.employeeRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, empl *employee.Employee) error {
				assert.True(t, empl.IsEmployer)
				return nil
			})

		res, err := deps.service.Register(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "employer", res.Role)
		assert.Equal(t, 0, deps.cache.invalidated)
	})

	t.Run("negative password mismatch", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validRegisterRequest()
		req.PasswordConfirm = "password124"

		_, err := deps.service.Register(ctx, req)

		assert.ErrorIs(t, err, autherrors.ErrPasswordMismatch)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative password too short", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validRegisterRequest()
		req.Password = "short"
		req.PasswordConfirm = "short"

		_, err := deps.service.Register(ctx, req)

		assert.ErrorIs(t, err, autherrors.ErrPasswordTooShort)
	})

	t.Run("negative invalid role", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validRegisterRequest()
		req.Role = "admin"

		_, err := deps.service.Register(ctx, req)

		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})

	t.Run("negative invalid hire date", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validRegisterRequest()
		req.HireDate = "15/01/2023"

		_, err := deps.service.Register(ctx, req)

		assert.ErrorIs(t, err, autherrors.ErrInvalidHireDate)
	})

	t.Run("negative username taken", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.userRepo.EXPECT().WithTx(gomock.Any()).Return(deps.userRepo)
		deps.employeeRepo.EXPECT().WithTx(gomock.Any()).Return(deps.employeeRepo)
		deps.userRepo.EXPECT().ExistsByUsername(gomock.Any(), "alice_smith").Return(true, nil)

		_, err := deps.service.Register(ctx, validRegisterRequest())

		assert.ErrorIs(t, err, usererrors.ErrUsernameTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative email taken", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.userRepo.EXPECT().WithTx(gomock.Any()).Return(deps.userRepo)
		deps.employeeRepo.EXPECT().WithTx(gomock.Any()).Return(deps.employeeRepo)
		deps.userRepo.EXPECT().ExistsByUsername(gomock.Any(), "alice_smith").Return(false, nil)
		deps.userRepo.EXPECT().ExistsByEmail(gomock.Any(), "alice@company.com", uuid.Nil).Return(true, nil)

		_, err := deps.service.Register(ctx, validRegisterRequest())

		assert.ErrorIs(t, err, usererrors.ErrEmailTaken)
	})

	t.Run("negative employee persist failed rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.userRepo.EXPECT().WithTx(gomock.Any()).Return(deps.userRepo)
		deps.employeeRepo.EXPECT().WithTx(gomock.Any()).Return(deps.employeeRepo)
		deps.userRepo.EXPECT().ExistsByUsername(gomock.Any(), "alice_smith").Return(false, nil)
		deps.userRepo.EXPECT().ExistsByEmail(gomock.Any(), "alice@company.com", uuid.Nil).Return(false, nil)
		deps.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.counter.EXPECT().GetNextValue(gomock.Any(), counter.EmployeeNumber).Return(int64(4), nil)
		deps.employeeRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := deps.service.Register(ctx, validRegisterRequest())

		assert.EqualError(t, err, "db down")
		assert.Equal(t, 0, deps.cache.invalidated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userID := uuid.New()

	activeUser := func() *user.User {
		return &user.User{
			ID:        userID,
			Username:  "alice_smith",
			Email:     "alice@company.com",
			FirstName: "Alice",
			LastName:  "Smith",
			Password:  string(hashed),
			IsActive:  true,
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.userRepo.EXPECT().FindByUsername(gomock.Any(), "alice_smith").Return(activeUser(), nil)
		deps.employeeRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(&employee.Employee{
			ID:             uuid.New(),
			UserID:         userID,
			EmployeeNumber: "EMP-000003",
		}, nil)

		res, err := deps.service.Login(ctx, " alice_smith ", "password123")

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000003", res.User.EmployeeNumber)
		claims, err := deps.tokens.Parse(res.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "alice_smith", claims.Username)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.userRepo.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Login(ctx, "ghost", "password123")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.userRepo.EXPECT().FindByUsername(gomock.Any(), "alice_smith").Return(activeUser(), nil)

		_, err := deps.service.Login(ctx, "alice_smith", "wrong-password")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative inactive user", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		u := activeUser()
		u.IsActive = false
		deps.userRepo.EXPECT().FindByUsername(gomock.Any(), "alice_smith").Return(u, nil)

		_, err := deps.service.Login(ctx, "alice_smith", "password123")

		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})

	t.Run("negative repository failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.userRepo.EXPECT().FindByUsername(gomock.Any(), "alice_smith").Return(nil, errors.New("db down"))

		_, err := deps.service.Login(ctx, "alice_smith", "password123")

		assert.EqualError(t, err, "db down")
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success without profile", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.userRepo.EXPECT().FindByID(gomock.Any(), userID).Return(&user.User{ID: userID, Username: "admin"}, nil)
		deps.employeeRepo.EXPECT().FindByUserID(gomock.Any(), userID).Return(nil, gorm.ErrRecordNotFound)

		res, err := deps.service.Me(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, "admin", res.Username)
		assert.Empty(t, res.Role)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.userRepo.EXPECT().FindByID(gomock.Any(), userID).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Me(ctx, userID)

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}
