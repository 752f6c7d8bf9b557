package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var donationTypes = map[string]bool{
	"oneTime":   true,
	"monthly":   true,
	"quarterly": true,
	"annual":    true,
}

var donationPurposes = map[string]bool{
	"education":   true,
	"health":      true,
	"environment": true,
	"community":   true,
	"general":     true,
}

var paymentMethods = map[string]bool{
	"upi":        true,
	"card":       true,
	"netbanking": true,
	"wallet":     true,
}

type DonationPersonalInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type DonationRequest struct {
	Amount        float64              `json:"amount"`
	Type          string               `json:"type"`
	Purpose       string               `json:"purpose"`
	PaymentMethod string               `json:"paymentMethod"`
	PersonalInfo  DonationPersonalInfo `json:"personalInfo"`
	Message       string               `json:"message,omitempty"`
}

// ValidationErrors carries the full field error list so the handler can
// return every problem at once.
type ValidationErrors struct {
	Errors []string
}

func (e *ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

type DonationService interface {
	CreateDonation(db *gorm.DB, req DonationRequest) (*models.Donation, error)
	GetDonations(db *gorm.DB) ([]models.Donation, error)
}

type DonationServiceImpl struct{}

func NewDonationService() *DonationServiceImpl {
	return &DonationServiceImpl{}
}

func validateDonation(req DonationRequest) error {
	var errs []string

	if req.Amount <= 0 {
		errs = append(errs, "amount must be greater than zero")
	}
	if !donationTypes[req.Type] {
		errs = append(errs, "type must be one of oneTime, monthly, quarterly, annual")
	}
	if !donationPurposes[req.Purpose] {
		errs = append(errs, "purpose must be one of education, health, environment, community, general")
	}
	if !paymentMethods[req.PaymentMethod] {
		errs = append(errs, "paymentMethod must be one of upi, card, netbanking, wallet")
	}
	if strings.TrimSpace(req.PersonalInfo.Name) == "" {
		errs = append(errs, "personalInfo.name is required")
	}
	email := strings.TrimSpace(req.PersonalInfo.Email)
	if email == "" {
		errs = append(errs, "personalInfo.email is required")
	} else if !strings.Contains(email, "@") {
		errs = append(errs, "personalInfo.email is not a valid email address")
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// GenerateTransactionID produces ids of the form TX-<epoch>-<0..999>.
func GenerateTransactionID(now time.Time) string {
	return fmt.Sprintf("TX-%d-%d", now.Unix(), rand.Intn(1000))
}

func (s *DonationServiceImpl) CreateDonation(db *gorm.DB, req DonationRequest) (*models.Donation, error) {
	if err := validateDonation(req); err != nil {
		return nil, err
	}

	donation := models.Donation{
		ID:            uuid.Must(uuid.NewV4()),
		DonorName:     strings.TrimSpace(req.PersonalInfo.Name),
		DonorEmail:    strings.ToLower(strings.TrimSpace(req.PersonalInfo.Email)),
		DonorPhone:    strings.TrimSpace(req.PersonalInfo.Phone),
		Amount:        req.Amount,
		DonationType:  req.Type,
		Purpose:       req.Purpose,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusCompleted,
		TransactionID: GenerateTransactionID(time.Now()),
		Message:       req.Message,
	}

	if err := db.Create(&donation).Error; err != nil {
		return nil, err
	}

	return &donation, nil
}

func (s *DonationServiceImpl) GetDonations(db *gorm.DB) ([]models.Donation, error) {
	var donations []models.Donation
	err := db.Order("created_at").Find(&donations).Error
	return donations, err
}
