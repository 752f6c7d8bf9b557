package services

import (
	"errors"
	"log"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSignupNotFound  = errors.New("signup not found")
	ErrAlreadySignedUp = errors.New("already signed up for this event")
)

type EventService interface {
	CreateEvent(db *gorm.DB, event models.Event) error
	GetEventByID(db *gorm.DB, id uuid.UUID) (models.Event, error)
	GetEvents(db *gorm.DB) ([]models.Event, error)
	UpdateEvent(db *gorm.DB, id uuid.UUID, updated models.Event) error
	DeleteEvent(db *gorm.DB, id uuid.UUID) error
	SignUp(db *gorm.DB, eventID, userID uuid.UUID) (*models.EventSignup, error)
	MarkAttendance(db *gorm.DB, eventID, userID uuid.UUID) error
}

type EventServiceImpl struct {
	badgeService BadgeService
}

func NewEventService(badgeService BadgeService) *EventServiceImpl {
	return &EventServiceImpl{badgeService: badgeService}
}

func (s *EventServiceImpl) CreateEvent(db *gorm.DB, event models.Event) error {
	return db.Create(&event).Error
}

func (s *EventServiceImpl) GetEventByID(db *gorm.DB, id uuid.UUID) (models.Event, error) {
	var event models.Event
	err := db.Preload("Tasks").First(&event, "id = ?", id).Error
	return event, err
}

func (s *EventServiceImpl) GetEvents(db *gorm.DB) ([]models.Event, error) {
	var events []models.Event
	err := db.Order("starts_at").Find(&events).Error
	return events, err
}

func (s *EventServiceImpl) UpdateEvent(db *gorm.DB, id uuid.UUID, updated models.Event) error {
	result := db.Model(&models.Event{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       updated.Title,
		"description": updated.Description,
		"location":    updated.Location,
		"starts_at":   updated.StartsAt,
		"ends_at":     updated.EndsAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *EventServiceImpl) DeleteEvent(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tasks []models.Task
		if err := tx.Where("event_id = ?", id).Find(&tasks).Error; err != nil {
			return err
		}
		for _, task := range tasks {
			if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventSignup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", id).Error
	})
}

// SignUp registers a volunteer for an event; the unique (event, user)
// index absorbs duplicate submissions.
func (s *EventServiceImpl) SignUp(db *gorm.DB, eventID, userID uuid.UUID) (*models.EventSignup, error) {
	var event models.Event
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	signup := models.EventSignup{
		ID:      uuid.Must(uuid.NewV4()),
		EventID: eventID,
		UserID:  userID,
		Status:  models.SignupStatusRegistered,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&signup)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadySignedUp
	}

	return &signup, nil
}

// MarkAttendance flips a signup to attended and grants attendance points
// in the same transaction. Re-marking an attended signup is a no-op.
func (s *EventServiceImpl) MarkAttendance(db *gorm.DB, eventID, userID uuid.UUID) error {
	var signup models.EventSignup
	err := db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&signup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSignupNotFound
		}
		return err
	}

	if signup.Status == models.SignupStatusAttended {
		return nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&signup).Update("status", models.SignupStatusAttended).Error; err != nil {
			return err
		}

		entry := models.PointsEntry{
			ID:          uuid.Must(uuid.NewV4()),
			VolunteerID: userID,
			Points:      PointsPerAttendedEvent,
			Reason:      "event_attended",
			ReferenceID: eventID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("points_total", gorm.Expr("points_total + ?", PointsPerAttendedEvent)).Error
	})
	if err != nil {
		return err
	}

	if s.badgeService != nil {
		if err := s.badgeService.CheckEventBadges(db, userID); err != nil {
			log.Printf("event badge check failed for volunteer %s: %v", userID, err)
		}
	}

	return nil
}
