package employee

import (
	"time"

	"go-leave/internal/session"
	"go-leave/internal/user"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_employees_user"`
	User           *user.User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	EmployeeNumber string     `gorm:"column:employee_number;type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	Department     string     `gorm:"column:department;type:varchar(100);index"`
	Position       string     `gorm:"column:position;type:varchar(100)"`
	HireDate       time.Time  `gorm:"column:hire_date;type:date"`
	IsEmployer     bool       `gorm:"column:is_employer;not null;default:false"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (e Employee) Role() string {
	if e.IsEmployer {
		return session.RoleEmployer
	}
	return session.RoleEmployee
}

func (e Employee) FullName() string {
	if e.User == nil {
		return ""
	}
	return e.User.FullName()
}

func (e Employee) ToProfile() session.Profile {
	p := session.Profile{
		EmployeeID:     e.ID,
		UserID:         e.UserID,
		EmployeeNumber: e.EmployeeNumber,
		FullName:       e.FullName(),
		Department:     e.Department,
		Position:       e.Position,
		IsEmployer:     e.IsEmployer,
	}
	if e.User != nil {
		p.Username = e.User.Username
	}
	return p
}
