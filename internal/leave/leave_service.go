package leave

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/session"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"

	defaultPageSize    = 10
	defaultRecentLimit = 5
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor session.Profile, req SubmitLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actor session.Profile, id uuid.UUID) (LeaveResponse, error)
	Reject(ctx context.Context, actor session.Profile, id uuid.UUID) (LeaveResponse, error)
	GetByID(ctx context.Context, actor session.Profile, id uuid.UUID) (LeaveResponse, error)
	EmployeeDashboard(ctx context.Context, actor session.Profile) (EmployeeDashboardResponse, error)
	EmployerDashboard(ctx context.Context, actor session.Profile) (EmployerDashboardResponse, error)
	List(ctx context.Context, actor session.Profile, filter ListFilter) (ListResponse, int64, error)
	PageSize() int
}

// DepartmentLister feeds the department filter options.
type DepartmentLister interface {
	Departments(ctx context.Context) ([]string, error)
}

type Options struct {
	PageSize    int
	RecentLimit int
	Now         func() time.Time
}

type service struct {
	db          *sql.DB
	repo        Repository
	departments DepartmentLister
	pageSize    int
	recentLimit int
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, departments DepartmentLister, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = defaultRecentLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		db:          db,
		repo:        repo,
		departments: departments,
		pageSize:    opts.PageSize,
		recentLimit: opts.RecentLimit,
		now:         opts.Now,
		logger:      l,
	}
}

func (s *service) PageSize() int { return s.pageSize }

func (s *service) Submit(ctx context.Context, actor session.Profile, req SubmitLeaveRequest) (LeaveResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	logger.Debug("submit leave requested",
		zap.String("employee_id", actor.EmployeeID.String()),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, leaveType, err := s.validateSubmit(req)
	if err != nil {
		logger.Warn("submit leave validation failed",
			zap.String("employee_id", actor.EmployeeID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.LockEmployee(ctx, actor.EmployeeID); err != nil {
		logger.Error("submit leave lock failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.EmployeeID, startDate, endDate)
	if err != nil {
		logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		logger.Warn("submit leave overlap detected",
			zap.String("employee_id", actor.EmployeeID.String()),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	now := s.now().UTC()
	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: actor.EmployeeID,
		LeaveType:  leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.EmployeeID.String()),
		zap.Int("duration_days", l.DurationDays()),
	)

	resp := mapToResponse(*l)
	resp.EmployeeNumber = actor.EmployeeNumber
	resp.EmployeeName = actor.FullName
	resp.Department = actor.Department
	return resp, nil
}

// validateSubmit allows a start date of today but nothing earlier.
func (s *service) validateSubmit(req SubmitLeaveRequest) (time.Time, time.Time, string, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrInvalidDateRange
	}
	if startDate.Before(today(s.now())) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrStartDateInPast
	}

	leaveType := strings.ToLower(strings.TrimSpace(req.LeaveType))
	if leaveType == "" {
		leaveType = TypeAnnual
	}
	if !IsValidType(leaveType) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrInvalidLeaveType
	}
	if strings.TrimSpace(req.Reason) == "" {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrReasonRequired
	}

	return startDate, endDate, leaveType, nil
}

func (s *service) Approve(ctx context.Context, actor session.Profile, id uuid.UUID) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor session.Profile, id uuid.UUID) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, StatusRejected)
}

// decide moves a pending request to a terminal status. The write is
// conditional on the row still being pending, so of two concurrent
// decisions exactly one wins.
func (s *service) decide(ctx context.Context, actor session.Profile, id uuid.UUID, targetStatus string) (LeaveResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	logger.Debug("decide leave requested",
		zap.String("leave_id", id.String()),
		zap.String("actor_id", actor.EmployeeID.String()),
		zap.String("target_status", targetStatus),
	)

	if !actor.IsEmployer {
		logger.Warn("decide leave denied",
			zap.String("leave_id", id.String()),
			zap.String("actor_id", actor.EmployeeID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrAccessDenied
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("decide leave not found", zap.String("leave_id", id.String()))
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		logger.Error("decide leave lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !l.IsPending() {
		logger.Warn("decide leave not pending",
			zap.String("leave_id", id.String()),
			zap.String("status", l.Status),
			zap.String("target_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	decidedAt := s.now().UTC()
	affected, err := qtx.TransitionStatus(ctx, id, targetStatus, actor.EmployeeID, decidedAt)
	if err != nil {
		logger.Error("decide leave persist failed",
			zap.String("leave_id", id.String()),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if affected == 0 {
		logger.Warn("decide leave lost race", zap.String("leave_id", id.String()))
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	if err := tx.Commit(); err != nil {
		logger.Error("decide leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	logger.Info("decide leave success",
		zap.String("leave_id", id.String()),
		zap.String("status", targetStatus),
		zap.String("approver_id", actor.EmployeeID.String()),
	)

	approverID := actor.EmployeeID
	l.Status = targetStatus
	l.ApproverID = &approverID
	l.Approver = nil
	l.DecidedAt = &decidedAt

	resp := mapToResponse(*l)
	approverName := actor.FullName
	resp.ApproverName = &approverName
	return resp, nil
}

// GetByID lets employers see any request and employees only their own.
func (s *service) GetByID(ctx context.Context, actor session.Profile, id uuid.UUID) (LeaveResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		logger.Error("get leave failed", zap.String("leave_id", id.String()), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !actor.IsEmployer && l.EmployeeID != actor.EmployeeID {
		logger.Warn("get leave of another employee",
			zap.String("leave_id", id.String()),
			zap.String("actor_id", actor.EmployeeID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

func (s *service) EmployeeDashboard(ctx context.Context, actor session.Profile) (EmployeeDashboardResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	leaves, err := s.repo.FindByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		logger.Error("employee dashboard list failed", zap.Error(err))
		return EmployeeDashboardResponse{}, err
	}

	employeeID := actor.EmployeeID
	stats, err := s.repo.Stats(ctx, &employeeID)
	if err != nil {
		logger.Error("employee dashboard stats failed", zap.Error(err))
		return EmployeeDashboardResponse{}, err
	}

	return EmployeeDashboardResponse{
		EmployeeNumber: actor.EmployeeNumber,
		FullName:       actor.FullName,
		Department:     actor.Department,
		Position:       actor.Position,
		Stats:          stats,
		Requests:       mapToListResponse(leaves),
		LeaveTypes:     []string{TypeAnnual, TypeSick, TypePersonal, TypeMaternity, TypeEmergency},
	}, nil
}

func (s *service) EmployerDashboard(ctx context.Context, actor session.Profile) (EmployerDashboardResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	if !actor.IsEmployer {
		return EmployerDashboardResponse{}, leaveerrors.ErrAccessDenied
	}

	stats, err := s.repo.Stats(ctx, nil)
	if err != nil {
		logger.Error("employer dashboard stats failed", zap.Error(err))
		return EmployerDashboardResponse{}, err
	}

	recent, err := s.repo.Recent(ctx, s.recentLimit)
	if err != nil {
		logger.Error("employer dashboard recent failed", zap.Error(err))
		return EmployerDashboardResponse{}, err
	}

	return EmployerDashboardResponse{Stats: stats, Recent: mapToListResponse(recent)}, nil
}

// List returns one page of filtered requests, the filtered total and the
// unfiltered stats.
func (s *service) List(ctx context.Context, actor session.Profile, filter ListFilter) (ListResponse, int64, error) {
	logger := contextutil.GetLogger(ctx, s.logger)
	if !actor.IsEmployer {
		return ListResponse{}, 0, leaveerrors.ErrAccessDenied
	}

	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Department = strings.TrimSpace(filter.Department)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		logger.Warn("list leave invalid status", zap.String("status", filter.Status))
		return ListResponse{}, 0, leaveerrors.ErrInvalidStatusFilter
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if maxPage := math.MaxInt / s.pageSize; filter.Page > maxPage {
		filter.Page = maxPage
	}

	logger.Debug("list leave requested",
		zap.String("status", filter.Status),
		zap.String("department", filter.Department),
		zap.String("search", filter.Search),
		zap.Int("page", filter.Page),
	)

	leaves, total, err := s.repo.List(ctx, filter, s.pageSize, (filter.Page-1)*s.pageSize)
	if err != nil {
		logger.Error("list leave failed", zap.Error(err))
		return ListResponse{}, 0, err
	}

	stats, err := s.repo.Stats(ctx, nil)
	if err != nil {
		logger.Error("list leave stats failed", zap.Error(err))
		return ListResponse{}, 0, err
	}

	departments := []string{}
	if s.departments != nil {
		if depts, err := s.departments.Departments(ctx); err != nil {
			logger.Warn("list leave departments unavailable", zap.Error(err))
		} else {
			departments = depts
		}
	}

	return ListResponse{
		Items:       mapToListResponse(leaves),
		Stats:       stats,
		Filter:      filter,
		Departments: departments,
		Statuses:    []string{StatusPending, StatusApproved, StatusRejected},
	}, total, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		DurationDays: l.DurationDays(),
		Reason:       l.Reason,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeNumber = l.Employee.EmployeeNumber
		resp.EmployeeName = l.Employee.FullName()
		resp.Department = l.Employee.Department
	}
	if l.ApproverID != nil {
		v := l.ApproverID.String()
		resp.ApproverID = &v
	}
	if l.Approver != nil {
		v := l.Approver.FullName()
		resp.ApproverName = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
