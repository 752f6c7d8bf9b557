package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	TaskStatusOpen      = "open"
	TaskStatusAssigned  = "assigned"
	TaskStatusCompleted = "completed"
)

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	EventID     uuid.UUID  `json:"event_id" gorm:"type:uuid;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"not null;default:'open'"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Event       Event            `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Assignments []TaskAssignment `json:"assignments,omitempty" gorm:"foreignKey:TaskID"`
}
