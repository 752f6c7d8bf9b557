package handlers

import (
	"errors"
	"net/http"
	"time"

	"volunteer-hub/backend/internal/models"
	"volunteer-hub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type EventHandler struct {
	db           *gorm.DB
	eventService services.EventService
}

func NewEventHandler(db *gorm.DB, eventService services.EventService) *EventHandler {
	return &EventHandler{db: db, eventService: eventService}
}

type eventInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, _ := userIDInterface.(string)

	var input eventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !input.EndsAt.After(input.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ends_at must be after starts_at"})
		return
	}

	event := models.Event{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		CreatedBy:   uuid.FromStringOrNil(userIDStr),
	}

	if err := h.eventService.CreateEvent(h.db, event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to create event",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.eventService.GetEvents(h.db)
	if err != nil {
		handleEventError(c, err)
		return
	}

	now := time.Now()
	response := make([]gin.H, 0, len(events))
	for _, event := range events {
		response = append(response, gin.H{
			"id":          event.ID,
			"title":       event.Title,
			"description": event.Description,
			"location":    event.Location,
			"starts_at":   event.StartsAt,
			"ends_at":     event.EndsAt,
			"status":      event.Status(now),
		})
	}

	c.JSON(http.StatusOK, response)
}

func (h *EventHandler) GetEventByID(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))
	event, err := h.eventService.GetEventByID(h.db, id)
	if err != nil {
		handleEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          event.ID,
		"title":       event.Title,
		"description": event.Description,
		"location":    event.Location,
		"starts_at":   event.StartsAt,
		"ends_at":     event.EndsAt,
		"status":      event.Status(time.Now()),
		"tasks":       event.Tasks,
	})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	var input eventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := models.Event{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}
	if err := h.eventService.UpdateEvent(h.db, id, updated); err != nil {
		handleEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event updated successfully"})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.eventService.DeleteEvent(h.db, id); err != nil {
		handleEventError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *EventHandler) SignUp(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, _ := userIDInterface.(string)

	eventID := uuid.FromStringOrNil(c.Param("id"))

	signup, err := h.eventService.SignUp(h.db, eventID, uuid.FromStringOrNil(userIDStr))
	if err != nil {
		if errors.Is(err, services.ErrAlreadySignedUp) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		handleEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, signup)
}

type attendanceRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *EventHandler) MarkAttendance(c *gin.Context) {
	eventID := uuid.FromStringOrNil(c.Param("id"))

	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.eventService.MarkAttendance(h.db, eventID, uuid.FromStringOrNil(req.UserID))
	if err != nil {
		if errors.Is(err, services.ErrSignupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		handleEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attendance recorded"})
}

func handleEventError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, services.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event request"})
	}
}
