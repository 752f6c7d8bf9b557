package services

import (
	"errors"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	GetNotifications(db *gorm.DB, userID uuid.UUID) ([]models.Notification, error)
	GetUnreadCount(db *gorm.DB, userID uuid.UUID) (int64, error)
	MarkRead(db *gorm.DB, notificationID, userID uuid.UUID) error
	MarkAllRead(db *gorm.DB, userID uuid.UUID) error
}

type NotificationServiceImpl struct{}

func NewNotificationService() *NotificationServiceImpl {
	return &NotificationServiceImpl{}
}

func (s *NotificationServiceImpl) GetNotifications(db *gorm.DB, userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationServiceImpl) GetUnreadCount(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead only succeeds for the recipient; other users see NotFound.
func (s *NotificationServiceImpl) MarkRead(db *gorm.DB, notificationID, userID uuid.UUID) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(db *gorm.DB, userID uuid.UUID) error {
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
