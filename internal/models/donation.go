package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	PaymentStatusCompleted = "completed"
)

type Donation struct {
	ID            uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	DonorName     string    `json:"donor_name" gorm:"not null"`
	DonorEmail    string    `json:"donor_email" gorm:"not null"`
	DonorPhone    string    `json:"donor_phone"`
	Amount        float64   `json:"amount" gorm:"not null"`
	DonationType  string    `json:"donation_type" gorm:"not null"`
	Purpose       string    `json:"purpose" gorm:"not null"`
	PaymentMethod string    `json:"payment_method" gorm:"not null"`
	PaymentStatus string    `json:"payment_status" gorm:"not null;default:'completed'"`
	TransactionID string    `json:"transaction_id" gorm:"unique;not null"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
