package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	AssignmentStatusPending   = "pending"
	AssignmentStatusAccepted  = "accepted"
	AssignmentStatusRejected  = "rejected"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusExpired   = "expired"
)

const (
	NotifyStatusPending   = "pending"
	NotifyStatusSent      = "sent"
	NotifyStatusResponded = "responded"
	NotifyStatusExpired   = "expired"
)

// TaskAssignment links one volunteer to one task within one event.
// The triple carries a unique index so concurrent create calls cannot
// produce duplicate rows; the insert conflict signals the update path.
type TaskAssignment struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID      uuid.UUID `json:"task_id" gorm:"type:uuid;not null;uniqueIndex:idx_assignment_triple"`
	VolunteerID uuid.UUID `json:"volunteer_id" gorm:"type:uuid;not null;uniqueIndex:idx_assignment_triple"`
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_assignment_triple"`

	Status             string     `json:"status" gorm:"not null;default:'pending'"`
	NotificationStatus string     `json:"notification_status" gorm:"not null;default:'pending'"`
	EmailSent          bool       `json:"email_sent" gorm:"default:false"`
	ReminderSent       bool       `json:"reminder_sent" gorm:"default:false"`
	ResponseDeadline   time.Time  `json:"response_deadline"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Task      Task  `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Volunteer User  `json:"volunteer,omitempty" gorm:"foreignKey:VolunteerID"`
	Event     Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

func (a *TaskAssignment) IsPastDeadline(now time.Time) bool {
	return a.Status == AssignmentStatusPending && now.After(a.ResponseDeadline)
}
