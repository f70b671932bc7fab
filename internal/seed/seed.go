// Package seed loads demo accounts and leave history into an empty database.
package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/session"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ApproverUsername = "employer"
	employeePassword = "password123"
	minLeaves        = 2
	maxLeaves        = 5
	maxDuration      = 10
	earliestOffset   = -180
	latestOffset     = 90
)

// Account is one demo login.
type Account struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Password   string
	Role       string
	Department string
	Position   string
	HireDate   string
}

var Accounts = []Account{
	{"admin", "admin@company.com", "Admin", "User", "admin123", session.RoleEmployer, "Management", "CEO", "2020-01-01"},
	{"employer", "employer@company.com", "John", "Manager", "employer123", session.RoleEmployer, "Human Resources", "HR Manager", "2021-03-15"},
	{"alice_smith", "alice.smith@company.com", "Alice", "Smith", employeePassword, session.RoleEmployee, "Information Technology", "Software Developer", "2022-06-01"},
	{"bob_johnson", "bob.johnson@company.com", "Bob", "Johnson", employeePassword, session.RoleEmployee, "Marketing", "Marketing Specialist", "2022-08-15"},
	{"carol_williams", "carol.williams@company.com", "Carol", "Williams", employeePassword, session.RoleEmployee, "Finance", "Financial Analyst", "2023-01-10"},
	{"david_brown", "david.brown@company.com", "David", "Brown", employeePassword, session.RoleEmployee, "Sales", "Sales Representative", "2023-04-20"},
	{"emma_davis", "emma.davis@company.com", "Emma", "Davis", employeePassword, session.RoleEmployee, "Customer Service", "Customer Service Rep", "2023-07-05"},
}

type sampleReason struct {
	text      string
	leaveType string
}

var reasons = []sampleReason{
	{"Annual vacation", leave.TypeAnnual},
	{"Family emergency", leave.TypeEmergency},
	{"Medical appointment", leave.TypeSick},
	{"Personal matters", leave.TypePersonal},
	{"Wedding attendance", leave.TypePersonal},
	{"Sick leave", leave.TypeSick},
	{"Maternity leave", leave.TypeMaternity},
	{"Conference attendance", leave.TypeAnnual},
	{"Moving to new house", leave.TypePersonal},
	{"Mental health day", leave.TypeSick},
}

var statuses = []string{leave.StatusPending, leave.StatusApproved, leave.StatusRejected}

type Registrar interface {
	Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error)
}

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

type EmployeeFinder interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*employee.Employee, error)
}

// LeaveWriter inserts history rows as-is, past dates and decided statuses included.
type LeaveWriter interface {
	Create(ctx context.Context, l *leave.LeaveRequest) error
}

type Result struct {
	Created []string
	Skipped []string
	Leaves  int
}

type Seeder struct {
	accounts  Registrar
	users     UserFinder
	employees EmployeeFinder
	leaves    LeaveWriter
	rnd       *rand.Rand
	now       func() time.Time
	logger    *zap.Logger
}

func New(
	accounts Registrar,
	users UserFinder,
	employees EmployeeFinder,
	leaves LeaveWriter,
	rnd *rand.Rand,
	logger ...*zap.Logger,
) *Seeder {
	l := zap.L().Named("seed")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("seed")
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Seeder{
		accounts:  accounts,
		users:     users,
		employees: employees,
		leaves:    leaves,
		rnd:       rnd,
		now:       time.Now,
		logger:    l,
	}
}

// Run registers every missing account. Employees created by this run also get
// a few leave requests; existing accounts are left untouched.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	var fresh []uuid.UUID

	for _, acc := range Accounts {
		created, err := s.accounts.Register(ctx, auth.RegisterRequest{
			Username:        acc.Username,
			Email:           acc.Email,
			FirstName:       acc.FirstName,
			LastName:        acc.LastName,
			Password:        acc.Password,
			PasswordConfirm: acc.Password,
			Role:            acc.Role,
			Department:      acc.Department,
			Position:        acc.Position,
			HireDate:        acc.HireDate,
		})
		if errors.Is(err, usererrors.ErrUsernameTaken) || errors.Is(err, usererrors.ErrEmailTaken) {
			s.logger.Info("account exists, skipping", zap.String("username", acc.Username))
			res.Skipped = append(res.Skipped, acc.Username)
			continue
		}
		if err != nil {
			return res, err
		}

		s.logger.Info("account created", zap.String("username", acc.Username), zap.String("role", acc.Role))
		res.Created = append(res.Created, acc.Username)

		if acc.Role == session.RoleEmployee {
			id, err := uuid.Parse(created.EmployeeID)
			if err != nil {
				return res, err
			}
			fresh = append(fresh, id)
		}
	}

	if len(fresh) == 0 {
		return res, nil
	}

	approverID, err := s.approver(ctx)
	if err != nil {
		return res, err
	}

	for _, employeeID := range fresh {
		n, err := s.seedLeaves(ctx, employeeID, approverID)
		res.Leaves += n
		if err != nil {
			return res, err
		}
	}

	s.logger.Info("seed complete",
		zap.Int("created", len(res.Created)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("leaves", res.Leaves),
	)
	return res, nil
}

func (s *Seeder) approver(ctx context.Context) (uuid.UUID, error) {
	u, err := s.users.FindByUsername(ctx, ApproverUsername)
	if err != nil {
		return uuid.Nil, err
	}
	empl, err := s.employees.FindByUserID(ctx, u.ID)
	if err != nil {
		return uuid.Nil, err
	}
	return empl.ID, nil
}

func (s *Seeder) seedLeaves(ctx context.Context, employeeID, approverID uuid.UUID) (int, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	count := minLeaves + s.rnd.IntN(maxLeaves-minLeaves+1)

	for i := 0; i < count; i++ {
		offset := earliestOffset + s.rnd.IntN(latestOffset-earliestOffset+1)
		start := today.AddDate(0, 0, offset)
		end := start.AddDate(0, 0, s.rnd.IntN(maxDuration))
		reason := reasons[s.rnd.IntN(len(reasons))]

		req := &leave.LeaveRequest{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			LeaveType:  reason.leaveType,
			StartDate:  start,
			EndDate:    end,
			Reason:     reason.text,
			Status:     statuses[s.rnd.IntN(len(statuses))],
		}
		if !req.IsPending() {
			decidedAt := s.now().UTC()
			approver := approverID
			req.ApproverID = &approver
			req.DecidedAt = &decidedAt
		}

		if err := s.leaves.Create(ctx, req); err != nil {
			s.logger.Error("seed leave failed", zap.String("employee_id", employeeID.String()), zap.Error(err))
			return i, err
		}
	}
	return count, nil
}
