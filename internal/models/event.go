package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
)

const (
	SignupStatusRegistered = "registered"
	SignupStatusAttended   = "attended"
	SignupStatusCancelled  = "cancelled"
)

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" gorm:"not null"`
	EndsAt      time.Time `json:"ends_at" gorm:"not null"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tasks   []Task        `json:"tasks,omitempty" gorm:"foreignKey:EventID"`
	Signups []EventSignup `json:"signups,omitempty" gorm:"foreignKey:EventID"`
}

// Status is derived from the schedule window, never persisted.
func (e *Event) Status(now time.Time) string {
	switch {
	case now.Before(e.StartsAt):
		return EventStatusUpcoming
	case now.After(e.EndsAt):
		return EventStatusCompleted
	default:
		return EventStatusOngoing
	}
}

type EventSignup struct {
	ID      uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_signup"`
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_signup"`
	Status  string    `json:"status" gorm:"not null;default:'registered'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
