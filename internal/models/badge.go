package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	BadgeCriteriaFirstLogin    = "first-login"
	BadgeCriteriaFirstTask     = "first-task"
	BadgeCriteriaFiveTasks     = "five-tasks"
	BadgeCriteriaFirstEvent    = "first-event"
	BadgeCriteriaCommunityHero = "community-hero"
)

type Badge struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"unique;not null"`
	Description string    `json:"description"`
	Criteria    string    `json:"criteria" gorm:"unique;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VolunteerBadge is granted once per (volunteer, badge) pair; the unique
// index makes the award idempotent at the store rather than by
// check-then-insert in application code.
type VolunteerBadge struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	VolunteerID uuid.UUID `json:"volunteer_id" gorm:"type:uuid;not null;uniqueIndex:idx_volunteer_badge"`
	BadgeID     uuid.UUID `json:"badge_id" gorm:"type:uuid;not null;uniqueIndex:idx_volunteer_badge"`
	AwardedAt   time.Time `json:"awarded_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Volunteer User  `json:"volunteer,omitempty" gorm:"foreignKey:VolunteerID"`
	Badge     Badge `json:"badge,omitempty" gorm:"foreignKey:BadgeID"`
}

type PointsEntry struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	VolunteerID uuid.UUID `json:"volunteer_id" gorm:"type:uuid;not null;index"`
	Points      int       `json:"points" gorm:"not null"`
	Reason      string    `json:"reason" gorm:"not null"`
	ReferenceID uuid.UUID `json:"reference_id" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at"`
}
