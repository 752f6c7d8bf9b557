package services

import (
	"strconv"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(db *gorm.DB, task models.Task) error
	GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error)
	GetTasksByEvent(db *gorm.DB, eventID uuid.UUID) ([]models.Task, error)
	GetTasksPaginated(db *gorm.DB, sortBy, order, page, pageSize string) ([]models.Task, int64, error)
	UpdateTask(db *gorm.DB, id uuid.UUID, updated models.Task) error
	DeleteTask(db *gorm.DB, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task models.Task) error {
	return db.Create(&task).Error
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.First(&task, "id = ?", id).Error
	return task, err
}

func (s *TaskServiceImpl) GetTasksByEvent(db *gorm.DB, eventID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Where("event_id = ?", eventID).Order("created_at").Find(&tasks).Error
	return tasks, err
}

func (s *TaskServiceImpl) GetTasksPaginated(db *gorm.DB, sortBy, order, page, pageSize string) ([]models.Task, int64, error) {
	allowedSort := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"title":      true,
		"status":     true,
		"deadline":   true,
	}
	if !allowedSort[sortBy] {
		sortBy = "created_at"
	}
	if order != "asc" {
		order = "desc"
	}

	pageNum, err := strconv.Atoi(page)
	if err != nil || pageNum < 1 {
		pageNum = 1
	}
	size, err := strconv.Atoi(pageSize)
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	var total int64
	if err := db.Model(&models.Task{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err = db.Order(sortBy + " " + order).
		Offset((pageNum - 1) * size).
		Limit(size).
		Find(&tasks).Error
	return tasks, total, err
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id uuid.UUID, updated models.Task) error {
	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if updated.Title != "" {
		updates["title"] = updated.Title
	}
	if updated.Description != "" {
		updates["description"] = updated.Description
	}
	if updated.Status != "" {
		updates["status"] = updated.Status
	}
	if updated.Deadline != nil {
		updates["deadline"] = updated.Deadline
	}
	if len(updates) == 0 {
		return nil
	}

	return db.Model(&task).Updates(updates).Error
}

// DeleteTask removes a task and its assignments; the cascade is best
// effort inside one transaction.
func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}
