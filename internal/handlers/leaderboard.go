package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"volunteer-hub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type LeaderboardHandler struct {
	db            *gorm.DB
	pointsService services.PointsService
	badgeService  services.BadgeService
}

func NewLeaderboardHandler(db *gorm.DB, pointsService services.PointsService, badgeService services.BadgeService) *LeaderboardHandler {
	return &LeaderboardHandler{db: db, pointsService: pointsService, badgeService: badgeService}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries, err := h.pointsService.GetLeaderboard(h.db, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

func (h *LeaderboardHandler) GetMyRank(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, _ := userIDInterface.(string)

	rank, err := h.pointsService.GetVolunteerRank(h.db, uuid.FromStringOrNil(userIDStr))
	if err != nil {
		if errors.Is(err, services.ErrVolunteerNotRanked) {
			c.JSON(http.StatusNotFound, gin.H{"error": "volunteer not present in leaderboard"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute rank"})
		return
	}

	c.JSON(http.StatusOK, rank)
}

func (h *LeaderboardHandler) GetMyBadges(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDStr, _ := userIDInterface.(string)

	badges, err := h.badgeService.GetVolunteerBadges(h.db, uuid.FromStringOrNil(userIDStr))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list badges"})
		return
	}

	c.JSON(http.StatusOK, badges)
}

type awardBadgeRequest struct {
	VolunteerID string `json:"volunteer_id" binding:"required"`
	BadgeID     string `json:"badge_id" binding:"required"`
}

// AwardBadge is an admin operation; the grant is idempotent.
func (h *LeaderboardHandler) AwardBadge(c *gin.Context) {
	var req awardBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	awarded, err := h.badgeService.AwardBadge(h.db,
		uuid.FromStringOrNil(req.VolunteerID),
		uuid.FromStringOrNil(req.BadgeID))
	if err != nil {
		if errors.Is(err, services.ErrBadgeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "badge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to award badge"})
		return
	}

	if awarded {
		// Points changed; drop any cached standings right away rather
		// than waiting out the TTL.
		if inv, ok := h.pointsService.(leaderboardInvalidator); ok {
			inv.InvalidateLeaderboard()
		}
	}

	c.JSON(http.StatusOK, gin.H{"awarded": awarded})
}

type leaderboardInvalidator interface {
	InvalidateLeaderboard()
}
