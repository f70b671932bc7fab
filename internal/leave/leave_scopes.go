package leave

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func joinEmployees(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Joins("JOIN users ON users.id = employees.user_id")
}

func forEmployee(employeeID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("leave_requests.employee_id = ?", employeeID)
	}
}

// filterScope expects joinEmployees to be applied first.
func filterScope(f ListFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("leave_requests.status = ?", f.Status)
		}
		if f.Department != "" {
			db = db.Where("employees.department = ?", f.Department)
		}
		if f.Search != "" {
			pattern := "%" + likeEscaper.Replace(f.Search) + "%"
			db = db.Where(
				"(users.first_name ILIKE ? OR users.last_name ILIKE ? OR employees.employee_number ILIKE ? OR leave_requests.reason ILIKE ?)",
				pattern, pattern, pattern, pattern,
			)
		}
		return db
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("leave_requests.created_at DESC").Order("leave_requests.id DESC")
}
