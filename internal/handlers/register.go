package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"volunteer-hub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterHandler struct {
	db              *gorm.DB
	registerService services.RegisterService
}

func NewRegisterHandler(db *gorm.DB, registerService services.RegisterService) *RegisterHandler {
	return &RegisterHandler{db: db, registerService: registerService}
}

type RegistrationResponse struct {
	Message string                 `json:"message"`
	User    RegistrationUserDetail `json:"user"`
}

type RegistrationUserDetail struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
	Role      string `json:"role"`
}

func (h *RegisterHandler) Registration(c *gin.Context) {
	var req services.RegistrationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.validateRegistrationRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": err.Error(),
		})
		return
	}

	user, err := h.registerService.RegisterVolunteer(h.db, req)
	if err != nil {
		log.Printf("❌ Registration error: %v", err)

		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Registration failed",
				"details": "An account with this email already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Registration failed",
			"details": "An unexpected error occurred. Please try again later.",
		})
		return
	}

	response := RegistrationResponse{
		Message: "Welcome to Volunteer Hub! Your account has been created successfully.",
		User: RegistrationUserDetail{
			ID:        user.ID.String(),
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsActive:  user.IsActive,
			Role:      user.Role,
		},
	}

	c.JSON(http.StatusCreated, response)
}

func (h *RegisterHandler) validateRegistrationRequest(req *services.RegistrationRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)

	if len(req.FirstName) == 0 {
		return errors.New("first name is required")
	}
	if len(req.LastName) == 0 {
		return errors.New("last name is required")
	}

	return h.validatePassword(req.Password)
}

func (h *RegisterHandler) validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= '0' && char <= '9':
			hasDigit = true
		}
	}

	var missing []string
	if !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "number")
	}

	if len(missing) > 0 {
		return errors.New("password must contain at least one " + strings.Join(missing, ", "))
	}

	return nil
}
