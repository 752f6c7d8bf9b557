package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"volunteer-hub/backend/internal/mailer"
	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrVolunteerNotFound  = errors.New("volunteer not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentExpired  = errors.New("assignment response deadline has passed")
	ErrInvalidDecision    = errors.New("decision must be accept or reject")
)

const PointsPerCompletedTask = 10

type AssignmentService interface {
	CreateOrUpdateAssignment(db *gorm.DB, taskID, volunteerID, eventID uuid.UUID) (*models.TaskAssignment, error)
	RespondToAssignment(db *gorm.DB, assignmentID, volunteerID uuid.UUID, decision string) error
	CompleteAssignment(db *gorm.DB, assignmentID uuid.UUID) error
	GetAssignmentByID(db *gorm.DB, id uuid.UUID) (models.TaskAssignment, error)
	GetAssignmentsByVolunteer(db *gorm.DB, volunteerID uuid.UUID) ([]models.TaskAssignment, error)
	ExpireOverdueAssignments(db *gorm.DB, now time.Time) (int64, error)
}

type AssignmentServiceImpl struct {
	mailer           mailer.Mailer
	badgeService     BadgeService
	responseDeadline time.Duration
}

func NewAssignmentService(m mailer.Mailer, badgeService BadgeService, responseDeadline time.Duration) *AssignmentServiceImpl {
	if responseDeadline <= 0 {
		responseDeadline = 24 * time.Hour
	}
	return &AssignmentServiceImpl{
		mailer:           m,
		badgeService:     badgeService,
		responseDeadline: responseDeadline,
	}
}

// CreateOrUpdateAssignment assigns a volunteer to a task within an event.
// An existing assignment for the triple is reset to pending with a fresh
// response deadline; calling twice is a re-assign, not a no-op. The email
// send is attempted after the records are persisted and never fails the
// assignment.
func (s *AssignmentServiceImpl) CreateOrUpdateAssignment(db *gorm.DB, taskID, volunteerID, eventID uuid.UUID) (*models.TaskAssignment, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	var volunteer models.User
	if err := db.First(&volunteer, "id = ?", volunteerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, err
	}

	// Signup membership is checked but not enforced; a missing signup
	// only produces a warning.
	var signupCount int64
	err := db.Model(&models.EventSignup{}).
		Where("event_id = ? AND user_id = ? AND status <> ?", eventID, volunteerID, models.SignupStatusCancelled).
		Count(&signupCount).Error
	if err == nil && signupCount == 0 {
		log.Printf("volunteer %s has no signup for event %s, assigning anyway", volunteerID, eventID)
	}

	var event models.Event
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	deadline := time.Now().Add(s.responseDeadline)

	var assignment models.TaskAssignment
	reassigned := false
	err = db.Where("task_id = ? AND volunteer_id = ? AND event_id = ?", taskID, volunteerID, eventID).
		First(&assignment).Error

	switch {
	case err == nil:
		reassigned = true
		if err := s.resetAssignment(db, &assignment, deadline, &task, &volunteer); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.TaskAssignment{
			ID:                 uuid.Must(uuid.NewV4()),
			TaskID:             taskID,
			VolunteerID:        volunteerID,
			EventID:            eventID,
			Status:             models.AssignmentStatusPending,
			NotificationStatus: models.NotifyStatusPending,
			ResponseDeadline:   deadline,
		}
		if err := db.Create(&assignment).Error; err != nil {
			// The unique index on the triple turns a lost check-then-act
			// race into a duplicate-key error; switch to the update path.
			if isDuplicateKeyError(err) {
				if err := db.Where("task_id = ? AND volunteer_id = ? AND event_id = ?", taskID, volunteerID, eventID).
					First(&assignment).Error; err != nil {
					return nil, err
				}
				if err := s.resetAssignment(db, &assignment, deadline, &task, &volunteer); err != nil {
					return nil, err
				}
				reassigned = true
				break
			}
			return nil, err
		}

		notification := assignmentNotification(&assignment, &task, false)
		if err := db.Create(&notification).Error; err != nil {
			return nil, err
		}

		if task.Status == models.TaskStatusOpen {
			if err := db.Model(&task).Update("status", models.TaskStatusAssigned).Error; err != nil {
				log.Printf("failed to mark task %s assigned: %v", task.ID, err)
			}
		}
	default:
		return nil, err
	}

	s.deliverAssignmentEmail(db, &assignment, &task, &volunteer, reassigned)

	return &assignment, nil
}

func (s *AssignmentServiceImpl) resetAssignment(db *gorm.DB, assignment *models.TaskAssignment, deadline time.Time, task *models.Task, volunteer *models.User) error {
	updates := map[string]interface{}{
		"status":              models.AssignmentStatusPending,
		"notification_status": models.NotifyStatusPending,
		"email_sent":          false,
		"response_deadline":   deadline,
		"responded_at":        nil,
	}
	if err := db.Model(assignment).Updates(updates).Error; err != nil {
		return err
	}
	assignment.Status = models.AssignmentStatusPending
	assignment.NotificationStatus = models.NotifyStatusPending
	assignment.EmailSent = false
	assignment.ResponseDeadline = deadline
	assignment.RespondedAt = nil

	notification := assignmentNotification(assignment, task, true)
	return db.Create(&notification).Error
}

func assignmentNotification(assignment *models.TaskAssignment, task *models.Task, reassigned bool) models.Notification {
	title := "New task assigned: " + task.Title
	notifType := models.NotificationTypeAssignment
	if reassigned {
		title = "Task re-assigned: " + task.Title
		notifType = models.NotificationTypeReassignment
	}
	assignmentID := assignment.ID
	return models.Notification{
		ID:           uuid.Must(uuid.NewV4()),
		UserID:       assignment.VolunteerID,
		AssignmentID: &assignmentID,
		Title:        title,
		Message:      "Please accept or reject before " + assignment.ResponseDeadline.Format(time.RFC1123),
		Type:         notifType,
	}
}

// deliverAssignmentEmail is best effort; a failed send leaves the
// assignment pending with email_sent=false.
func (s *AssignmentServiceImpl) deliverAssignmentEmail(db *gorm.DB, assignment *models.TaskAssignment, task *models.Task, volunteer *models.User, reassigned bool) {
	if s.mailer == nil {
		return
	}

	templateID := mailer.TemplateTaskAssigned
	if reassigned {
		templateID = mailer.TemplateTaskReassigned
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	params := map[string]string{
		"volunteer_name":    volunteer.FullName(),
		"task_title":        task.Title,
		"task_description":  task.Description,
		"response_deadline": assignment.ResponseDeadline.Format(time.RFC1123),
	}

	if err := s.mailer.Send(ctx, volunteer.Email, templateID, params); err != nil {
		log.Printf("failed to send assignment email to %s: %v", volunteer.Email, err)
		return
	}

	updates := map[string]interface{}{
		"email_sent":          true,
		"notification_status": models.NotifyStatusSent,
	}
	if err := db.Model(assignment).Updates(updates).Error; err != nil {
		log.Printf("failed to mark assignment %s email sent: %v", assignment.ID, err)
		return
	}
	assignment.EmailSent = true
	assignment.NotificationStatus = models.NotifyStatusSent
}

// RespondToAssignment records a volunteer's accept or reject for a
// pending assignment. Responses are accepted whether or not the original
// email went out.
func (s *AssignmentServiceImpl) RespondToAssignment(db *gorm.DB, assignmentID, volunteerID uuid.UUID, decision string) error {
	if decision != "accept" && decision != "reject" {
		return ErrInvalidDecision
	}

	var assignment models.TaskAssignment
	err := db.Where("id = ? AND volunteer_id = ?", assignmentID, volunteerID).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if assignment.IsPastDeadline(time.Now()) {
		return ErrAssignmentExpired
	}

	status := models.AssignmentStatusAccepted
	if decision == "reject" {
		status = models.AssignmentStatusRejected
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":              status,
			"notification_status": models.NotifyStatusResponded,
			"responded_at":        now,
		}
		if err := tx.Model(&assignment).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Model(&models.Notification{}).
			Where("assignment_id = ? AND user_id = ?", assignment.ID, volunteerID).
			Update("is_read", true).Error
	})
}

// CompleteAssignment marks an accepted assignment (and its task) done and
// grants completion points in the same transaction.
func (s *AssignmentServiceImpl) CompleteAssignment(db *gorm.DB, assignmentID uuid.UUID) error {
	var assignment models.TaskAssignment
	if err := db.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&assignment).Update("status", models.AssignmentStatusCompleted).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("id = ?", assignment.TaskID).
			Update("status", models.TaskStatusCompleted).Error; err != nil {
			return err
		}

		entry := models.PointsEntry{
			ID:          uuid.Must(uuid.NewV4()),
			VolunteerID: assignment.VolunteerID,
			Points:      PointsPerCompletedTask,
			Reason:      "task_completed",
			ReferenceID: assignment.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", assignment.VolunteerID).
			Update("points_total", gorm.Expr("points_total + ?", PointsPerCompletedTask)).Error
	})
	if err != nil {
		return err
	}

	if s.badgeService != nil {
		// Badge checks are best-effort side paths.
		if err := s.badgeService.CheckTaskBadges(db, assignment.VolunteerID); err != nil {
			log.Printf("badge check failed for volunteer %s: %v", assignment.VolunteerID, err)
		}
	}

	return nil
}

func (s *AssignmentServiceImpl) GetAssignmentByID(db *gorm.DB, id uuid.UUID) (models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	err := db.Preload("Task").First(&assignment, "id = ?", id).Error
	return assignment, err
}

func (s *AssignmentServiceImpl) GetAssignmentsByVolunteer(db *gorm.DB, volunteerID uuid.UUID) ([]models.TaskAssignment, error) {
	var assignments []models.TaskAssignment
	err := db.Preload("Task").
		Where("volunteer_id = ?", volunteerID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// ExpireOverdueAssignments flips pending assignments whose response
// deadline has passed; run periodically by the worker sweep.
func (s *AssignmentServiceImpl) ExpireOverdueAssignments(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.TaskAssignment{}).
		Where("status = ? AND response_deadline < ?", models.AssignmentStatusPending, now).
		Updates(map[string]interface{}{
			"status":              models.AssignmentStatusExpired,
			"notification_status": models.NotifyStatusExpired,
		})
	return result.RowsAffected, result.Error
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
