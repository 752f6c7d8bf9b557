package handlers

import (
	"errors"
	"net/http"

	"volunteer-hub/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

func userProfilePayload(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"phone":        user.Phone,
		"role":         user.Role,
		"is_active":    user.IsActive,
		"points_total": user.PointsTotal,
		"created_at":   user.CreatedAt,
		"updated_at":   user.UpdatedAt,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, _ := userIDInterface.(string)

	var user models.User
	err := h.db.First(&user, "id = ?", uuid.FromStringOrNil(userIDStr)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user profile"})
		return
	}

	c.JSON(http.StatusOK, userProfilePayload(&user))
}

// GetVolunteers lists active volunteers for the admin dashboard.
func (h *UserHandler) GetVolunteers(c *gin.Context) {
	var volunteers []models.User
	err := h.db.Where("role = ? AND is_active = ?", models.RoleVolunteer, true).
		Order("created_at").
		Find(&volunteers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get volunteers"})
		return
	}

	response := make([]gin.H, 0, len(volunteers))
	for i := range volunteers {
		response = append(response, userProfilePayload(&volunteers[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	targetID := uuid.FromStringOrNil(c.Param("user_id"))
	if targetID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var user models.User
	err := h.db.First(&user, "id = ?", targetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user profile"})
		return
	}

	c.JSON(http.StatusOK, userProfilePayload(&user))
}

func (h *UserHandler) DeactivateUser(c *gin.Context) {
	targetID := uuid.FromStringOrNil(c.Param("user_id"))
	if targetID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	result := h.db.Model(&models.User{}).Where("id = ?", targetID).Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
