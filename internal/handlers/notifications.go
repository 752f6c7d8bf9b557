package handlers

import (
	"errors"
	"net/http"

	"volunteer-hub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db                  *gorm.DB
	notificationService services.NotificationService
}

func NewNotificationHandler(db *gorm.DB, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{db: db, notificationService: notificationService}
}

func (h *NotificationHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return uuid.FromStringOrNil(userIDStr), true
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.GetNotifications(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	notificationID := uuid.FromStringOrNil(c.Param("id"))

	err := h.notificationService.MarkRead(h.db, notificationID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(h.db, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked read"})
}
