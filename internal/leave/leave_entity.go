package leave

import (
	"time"

	"go-leave/internal/employee"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypePersonal  = "personal"
	TypeMaternity = "maternity"
	TypeEmergency = "emergency"
)

type LeaveRequest struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID          `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	Employee   *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`

	LeaveType string    `gorm:"type:varchar(20);not null;default:'annual'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	Reason    string    `gorm:"type:text;not null"`

	Status     string             `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ApproverID *uuid.UUID         `gorm:"type:uuid"`
	Approver   *employee.Employee `gorm:"foreignKey:ApproverID;constraint:OnDelete:SET NULL"`
	DecidedAt  *time.Time

	CreatedAt time.Time `gorm:"index:idx_leave_requests_created_at"`
	UpdatedAt time.Time
}

// DurationDays counts both endpoints.
func (l LeaveRequest) DurationDays() int {
	return int(l.EndDate.Sub(l.StartDate)/(24*time.Hour)) + 1
}

func (l LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func IsValidType(leaveType string) bool {
	switch leaveType {
	case TypeAnnual, TypeSick, TypePersonal, TypeMaternity, TypeEmergency:
		return true
	}
	return false
}
