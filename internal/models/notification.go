package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	NotificationTypeAssignment   = "task_assignment"
	NotificationTypeReassignment = "task_reassignment"
	NotificationTypeReminder     = "task_reminder"
	NotificationTypeBadge        = "badge_awarded"
)

type Notification struct {
	ID           uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	AssignmentID *uuid.UUID `json:"assignment_id,omitempty" gorm:"type:uuid"`
	Title        string     `json:"title" gorm:"not null"`
	Message      string     `json:"message"`
	Type         string     `json:"type" gorm:"not null"`
	IsRead       bool       `json:"is_read" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User       User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Assignment *TaskAssignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
}
