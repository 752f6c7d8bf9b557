package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"volunteer-hub/backend/internal/mailer"
	"volunteer-hub/backend/internal/models"
	"volunteer-hub/backend/internal/services"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Handlers owns the background job implementations. It is wired into a
// Worker at startup via RegisterAll.
type Handlers struct {
	db             *gorm.DB
	mailer         mailer.Mailer
	assignments    services.AssignmentService
	reminderWindow time.Duration
}

func NewHandlers(db *gorm.DB, m mailer.Mailer, assignments services.AssignmentService, reminderWindow time.Duration) *Handlers {
	if reminderWindow <= 0 {
		reminderWindow = 6 * time.Hour
	}
	return &Handlers{
		db:             db,
		mailer:         m,
		assignments:    assignments,
		reminderWindow: reminderWindow,
	}
}

func (h *Handlers) RegisterAll(w *Worker) {
	w.RegisterHandler(JobTypeEmailNotification, h.HandleEmailNotification)
	w.RegisterHandler(JobTypeAssignmentExpiry, h.HandleAssignmentExpiry)
	w.RegisterHandler(JobTypeTaskReminder, h.HandleTaskReminder)
}

// HandleEmailNotification sends one templated email. Payload keys:
// "to", "template_id", "params".
func (h *Handlers) HandleEmailNotification(ctx context.Context, job *Job) error {
	to, _ := job.Payload["to"].(string)
	templateID, _ := job.Payload["template_id"].(string)
	if to == "" || templateID == "" {
		// Malformed payloads are unfixable by retrying.
		log.Printf("Dropping email job %s with missing to/template_id", job.ID)
		return nil
	}

	params := make(map[string]string)
	if raw, ok := job.Payload["params"].(map[string]interface{}); ok {
		for k, v := range raw {
			params[k] = fmt.Sprintf("%v", v)
		}
	}

	return h.mailer.Send(ctx, to, templateID, params)
}

// HandleAssignmentExpiry sweeps pending assignments past their response
// deadline into the expired state.
func (h *Handlers) HandleAssignmentExpiry(ctx context.Context, job *Job) error {
	expired, err := h.assignments.ExpireOverdueAssignments(h.db.WithContext(ctx), time.Now())
	if err != nil {
		return fmt.Errorf("failed to expire assignments: %w", err)
	}
	if expired > 0 {
		log.Printf("Expired %d overdue assignments", expired)
	}
	return nil
}

// HandleTaskReminder nudges volunteers whose pending assignment deadline
// falls inside the reminder window. Each assignment gets at most one
// reminder.
func (h *Handlers) HandleTaskReminder(ctx context.Context, job *Job) error {
	now := time.Now()
	cutoff := now.Add(h.reminderWindow)

	var due []models.TaskAssignment
	err := h.db.WithContext(ctx).
		Preload("Task").
		Preload("Volunteer").
		Where("status = ? AND reminder_sent = ? AND response_deadline > ? AND response_deadline <= ?",
			models.AssignmentStatusPending, false, now, cutoff).
		Find(&due).Error
	if err != nil {
		return fmt.Errorf("failed to load assignments due for reminder: %w", err)
	}

	for i := range due {
		a := &due[i]
		if err := h.remind(ctx, a); err != nil {
			log.Printf("Reminder for assignment %s failed: %v", a.ID, err)
		}
	}

	return nil
}

func (h *Handlers) remind(ctx context.Context, a *models.TaskAssignment) error {
	params := map[string]string{
		"volunteer_name": a.Volunteer.FullName(),
		"task_title":     a.Task.Title,
		"deadline":       a.ResponseDeadline.Format(time.RFC1123),
	}

	if err := h.mailer.Send(ctx, a.Volunteer.Email, mailer.TemplateTaskReminder, params); err != nil {
		return err
	}

	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TaskAssignment{}).
			Where("id = ?", a.ID).
			Update("reminder_sent", true).Error; err != nil {
			return err
		}

		assignmentID := a.ID
		notification := models.Notification{
			ID:           uuid.Must(uuid.NewV4()),
			UserID:       a.VolunteerID,
			AssignmentID: &assignmentID,
			Title:        "Task response reminder",
			Message:      fmt.Sprintf("Your response for task '%s' is due by %s", a.Task.Title, a.ResponseDeadline.Format(time.RFC1123)),
			Type:         models.NotificationTypeReminder,
		}
		return tx.Create(&notification).Error
	})
}

// Scheduler enqueues the recurring sweep jobs on a fixed interval so
// deadline enforcement does not depend on request traffic.
type Scheduler struct {
	queue    *JobQueue
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(queue *JobQueue, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		queue:    queue,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if err := s.queue.Enqueue(QueueSweeps, JobTypeAssignmentExpiry, nil); err != nil {
					log.Printf("Failed to enqueue expiry sweep: %v", err)
				}
				if err := s.queue.Enqueue(QueueSweeps, JobTypeTaskReminder, nil); err != nil {
					log.Printf("Failed to enqueue reminder sweep: %v", err)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
