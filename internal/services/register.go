package services

import (
	"errors"
	"time"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already exists")

type RegistrationRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,min=1,max=50"`
	LastName  string `json:"last_name" binding:"required,min=1,max=50"`
	Phone     string `json:"phone,omitempty" binding:"max=20"`
}

type RegisterService interface {
	RegisterVolunteer(db *gorm.DB, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct {
	bcryptCost int
}

func NewRegisterService(bcryptCost int) *RegisterServiceImpl {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &RegisterServiceImpl{bcryptCost: bcryptCost}
}

func (s *RegisterServiceImpl) RegisterVolunteer(db *gorm.DB, req RegistrationRequest) (*models.User, error) {
	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:        uuid.Must(uuid.NewV4()),
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleVolunteer,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
