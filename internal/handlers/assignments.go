package handlers

import (
	"errors"
	"net/http"

	"volunteer-hub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type AssignmentHandler struct {
	db                *gorm.DB
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(db *gorm.DB, assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{db: db, assignmentService: assignmentService}
}

type AssignRequest struct {
	TaskID      string `json:"task_id" binding:"required"`
	VolunteerID string `json:"volunteer_id" binding:"required"`
	EventID     string `json:"event_id" binding:"required"`
}

type RespondRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// Assign creates or re-issues an assignment for a (task, volunteer,
// event) triple. Admin only; re-issuing resets the response window.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID := uuid.FromStringOrNil(req.TaskID)
	volunteerID := uuid.FromStringOrNil(req.VolunteerID)
	eventID := uuid.FromStringOrNil(req.EventID)
	if taskID == uuid.Nil || volunteerID == uuid.Nil || eventID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_id, volunteer_id, and event_id must be valid UUIDs"})
		return
	}

	assignment, err := h.assignmentService.CreateOrUpdateAssignment(h.db, taskID, volunteerID, eventID)
	if err != nil {
		handleAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// Respond records the authenticated volunteer's accept or reject.
func (h *AssignmentHandler) Respond(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	assignmentID := uuid.FromStringOrNil(c.Param("id"))

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.assignmentService.RespondToAssignment(h.db, assignmentID, uuid.FromStringOrNil(userIDStr), req.Decision)
	if err != nil {
		handleAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "response recorded"})
}

func (h *AssignmentHandler) Complete(c *gin.Context) {
	assignmentID := uuid.FromStringOrNil(c.Param("id"))

	if err := h.assignmentService.CompleteAssignment(h.db, assignmentID); err != nil {
		handleAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "assignment completed"})
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignmentID := uuid.FromStringOrNil(c.Param("id"))

	assignment, err := h.assignmentService.GetAssignmentByID(h.db, assignmentID)
	if err != nil {
		handleAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// GetMyAssignments lists the authenticated volunteer's assignments.
func (h *AssignmentHandler) GetMyAssignments(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	assignments, err := h.assignmentService.GetAssignmentsByVolunteer(h.db, uuid.FromStringOrNil(userIDStr))
	if err != nil {
		handleAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrVolunteerNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAssignmentExpired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process assignment request",
		})
	}
}
