package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]LeaveRequest, int64, error)
	Recent(ctx context.Context, limit int) ([]LeaveRequest, error)
	Stats(ctx context.Context, employeeID *uuid.UUID) (Stats, error)
	LockEmployee(ctx context.Context, employeeID uuid.UUID) error
	HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, status string, approverID uuid.UUID, decidedAt time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee", "Approver").Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee.User").
		Preload("Approver.User").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(forEmployee(employeeID), newestFirst).
		Preload("Approver.User").
		Find(&leaves).Error
	return leaves, err
}

// List returns one page plus the total matching the filter.
func (r *repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]LeaveRequest, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(joinEmployees, filterScope(filter)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var leaves []LeaveRequest
	err = r.db.WithContext(ctx).
		Select("leave_requests.*").
		Scopes(joinEmployees, filterScope(filter), newestFirst).
		Preload("Employee.User").
		Limit(limit).
		Offset(offset).
		Find(&leaves).Error
	if err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(newestFirst).
		Preload("Employee.User").
		Limit(limit).
		Find(&leaves).Error
	return leaves, err
}

// Stats counts every request, or only one employee's when employeeID is set.
func (r *repository) Stats(ctx context.Context, employeeID *uuid.UUID) (Stats, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(*) FILTER (WHERE leave_requests.status = ?) AS pending, "+
				"COUNT(*) FILTER (WHERE leave_requests.status = ?) AS approved, "+
				"COUNT(*) FILTER (WHERE leave_requests.status = ?) AS rejected",
			StatusPending, StatusApproved, StatusRejected,
		)
	if employeeID != nil {
		db = db.Scopes(forEmployee(*employeeID))
	}

	var stats Stats
	err := db.Scan(&stats).Error
	return stats, err
}

// LockEmployee takes a transaction-scoped advisory lock keyed by the employee,
// so concurrent submissions for one employee run their overlap check in turn.
// Outside a transaction the lock is released immediately.
func (r *repository) LockEmployee(ctx context.Context, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", employeeID.String()).Error
}

// HasOverlappingPeriod only counts requests that are still pending or were approved.
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(forEmployee(employeeID)).
		Where("leave_requests.status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (leave_requests.end_date < ? OR leave_requests.start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

// TransitionStatus only touches a row that is still pending. Zero rows
// affected means another decision got there first or the id is unknown.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, status string, approverID uuid.UUID, decidedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"approver_id": approverID,
			"decided_at":  decidedAt,
			"updated_at":  decidedAt,
		})
	return res.RowsAffected, res.Error
}
