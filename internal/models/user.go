package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
	RoleWebmaster = "webmaster"
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Email    string    `json:"email" gorm:"unique;not null"`
	Password string    `json:"-" gorm:"not null"`

	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role" gorm:"not null;default:'volunteer'"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Running score, maintained transactionally alongside points entries.
	PointsTotal int `json:"points_total" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Badges        []VolunteerBadge `json:"badges,omitempty" gorm:"foreignKey:VolunteerID"`
	Signups       []EventSignup    `json:"signups,omitempty" gorm:"foreignKey:UserID"`
	Assignments   []TaskAssignment `json:"assignments,omitempty" gorm:"foreignKey:VolunteerID"`
	Notifications []Notification   `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleWebmaster
}

func (u *User) IsVolunteer() bool {
	return u.Role == RoleVolunteer
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
