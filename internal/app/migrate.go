package app

import (
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/shared/counter"
	"go-leave/internal/user"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables in dependency order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&employee.Employee{},
		&leave.LeaveRequest{},
		&counter.Counter{},
	)
}
