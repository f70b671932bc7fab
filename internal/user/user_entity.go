package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Username  string    `gorm:"column:username;type:varchar(150);not null;uniqueIndex:uq_users_username"`
	Email     string    `gorm:"column:email;type:varchar(254);not null;uniqueIndex:uq_users_email"`
	FirstName string    `gorm:"column:first_name;type:varchar(150)"`
	LastName  string    `gorm:"column:last_name;type:varchar(150)"`
	Password  string    `gorm:"column:password;type:text;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
