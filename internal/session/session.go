// Package session carries the authenticated caller explicitly from the HTTP
// layer into services.
package session

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RoleEmployer = "employer"
	RoleEmployee = "employee"

	sessionKey = "session"
	profileKey = "session_profile"
)

type Session struct {
	UserID   uuid.UUID
	Username string
}

// Profile is the caller's employee record, resolved once per request.
type Profile struct {
	EmployeeID     uuid.UUID
	UserID         uuid.UUID
	Username       string
	EmployeeNumber string
	FullName       string
	Department     string
	Position       string
	IsEmployer     bool
}

func (p Profile) Role() string {
	if p.IsEmployer {
		return RoleEmployer
	}
	return RoleEmployee
}

func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return p.Username
}

func Set(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

func Get(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok && s.UserID != uuid.Nil
}

func SetProfile(c *gin.Context, p Profile) {
	c.Set(profileKey, p)
}

func GetProfile(c *gin.Context) (Profile, bool) {
	v, ok := c.Get(profileKey)
	if !ok {
		return Profile{}, false
	}
	p, ok := v.(Profile)
	return p, ok
}
