package handlers

import (
	"errors"
	"net/http"

	"volunteer-hub/backend/internal/mailer"
	"volunteer-hub/backend/internal/services"
	"volunteer-hub/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DonationHandler struct {
	db              *gorm.DB
	donationService services.DonationService
	jobQueue        *worker.JobQueue
}

func NewDonationHandler(db *gorm.DB, donationService services.DonationService, jobQueue *worker.JobQueue) *DonationHandler {
	return &DonationHandler{db: db, donationService: donationService, jobQueue: jobQueue}
}

func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req services.DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	donation, err := h.donationService.CreateDonation(h.db, req)
	if err != nil {
		var verrs *services.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation_failed",
				"errors": verrs.Errors,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "donation_failed",
			"details": err.Error(),
		})
		return
	}

	// Receipt email is best effort; a full queue never fails the donation.
	if h.jobQueue != nil {
		_ = h.jobQueue.Enqueue(worker.QueueEmails, worker.JobTypeEmailNotification, map[string]interface{}{
			"to":          donation.DonorEmail,
			"template_id": mailer.TemplateDonationReceipt,
			"params": map[string]interface{}{
				"donor_name":     donation.DonorName,
				"amount":         donation.Amount,
				"transaction_id": donation.TransactionID,
			},
		})
	}

	c.JSON(http.StatusCreated, donation)
}

func (h *DonationHandler) GetDonations(c *gin.Context) {
	donations, err := h.donationService.GetDonations(h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list donations"})
		return
	}
	c.JSON(http.StatusOK, donations)
}
