package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

const MinPasswordLength = 8

// User is an AdminHub account; the employees screen and the profile page
// both operate on it.
type User struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"size:60;not null"`
	Email         string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash  string    `json:"-" gorm:"column:password;size:255;not null"`
	Role          Role      `json:"role" gorm:"size:16;not null;index"`
	Image         string    `json:"image" gorm:"size:512"`
	ImagePublicID string    `json:"-" gorm:"size:255"`
	Department    string    `json:"department" gorm:"size:120;index"`
	Position      string    `json:"position" gorm:"size:120"`
	Phone         string    `json:"phone" gorm:"size:32"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

type UserFilter struct {
	Department string
	Search     string
}
