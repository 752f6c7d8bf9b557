package services

import (
	"errors"
	"time"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBadgeNotFound = errors.New("badge not found")

const PointsPerBadge = 50

// CommunityHeroPoints is the lifetime points total that earns the
// community-hero badge.
const CommunityHeroPoints = 500

type BadgeService interface {
	AwardBadge(db *gorm.DB, volunteerID, badgeID uuid.UUID) (bool, error)
	AwardBadgeByCriteria(db *gorm.DB, volunteerID uuid.UUID, criteria string) (bool, error)
	GetVolunteerBadges(db *gorm.DB, volunteerID uuid.UUID) ([]models.VolunteerBadge, error)
	CheckTaskBadges(db *gorm.DB, volunteerID uuid.UUID) error
	CheckEventBadges(db *gorm.DB, volunteerID uuid.UUID) error
}

type BadgeServiceImpl struct{}

func NewBadgeService() *BadgeServiceImpl {
	return &BadgeServiceImpl{}
}

// AwardBadge grants a badge once per (volunteer, badge) pair. The unique
// index plus ON CONFLICT DO NOTHING makes the grant idempotent under
// concurrent callers; points are only credited when a row was inserted.
func (s *BadgeServiceImpl) AwardBadge(db *gorm.DB, volunteerID, badgeID uuid.UUID) (bool, error) {
	var badge models.Badge
	if err := db.First(&badge, "id = ?", badgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrBadgeNotFound
		}
		return false, err
	}

	award := models.VolunteerBadge{
		ID:          uuid.Must(uuid.NewV4()),
		VolunteerID: volunteerID,
		BadgeID:     badgeID,
		AwardedAt:   time.Now(),
	}

	awarded := false
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "volunteer_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).Create(&award)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		awarded = true

		entry := models.PointsEntry{
			ID:          uuid.Must(uuid.NewV4()),
			VolunteerID: volunteerID,
			Points:      PointsPerBadge,
			Reason:      "badge_awarded",
			ReferenceID: badgeID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", volunteerID).
			Update("points_total", gorm.Expr("points_total + ?", PointsPerBadge)).Error; err != nil {
			return err
		}

		notification := models.Notification{
			ID:      uuid.Must(uuid.NewV4()),
			UserID:  volunteerID,
			Title:   "Badge earned: " + badge.Name,
			Message: badge.Description,
			Type:    models.NotificationTypeBadge,
		}
		return tx.Create(&notification).Error
	})

	return awarded, err
}

func (s *BadgeServiceImpl) AwardBadgeByCriteria(db *gorm.DB, volunteerID uuid.UUID, criteria string) (bool, error) {
	var badge models.Badge
	if err := db.Where("criteria = ?", criteria).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrBadgeNotFound
		}
		return false, err
	}
	return s.AwardBadge(db, volunteerID, badge.ID)
}

func (s *BadgeServiceImpl) GetVolunteerBadges(db *gorm.DB, volunteerID uuid.UUID) ([]models.VolunteerBadge, error) {
	var badges []models.VolunteerBadge
	err := db.Preload("Badge").
		Where("volunteer_id = ?", volunteerID).
		Order("awarded_at").
		Find(&badges).Error
	return badges, err
}

// CheckTaskBadges awards task-count badges the volunteer now qualifies
// for; awards already held are skipped by the idempotent grant.
func (s *BadgeServiceImpl) CheckTaskBadges(db *gorm.DB, volunteerID uuid.UUID) error {
	var completed int64
	err := db.Model(&models.TaskAssignment{}).
		Where("volunteer_id = ? AND status = ?", volunteerID, models.AssignmentStatusCompleted).
		Count(&completed).Error
	if err != nil {
		return err
	}

	if completed >= 1 {
		if _, err := s.AwardBadgeByCriteria(db, volunteerID, models.BadgeCriteriaFirstTask); err != nil && !errors.Is(err, ErrBadgeNotFound) {
			return err
		}
	}
	if completed >= 5 {
		if _, err := s.AwardBadgeByCriteria(db, volunteerID, models.BadgeCriteriaFiveTasks); err != nil && !errors.Is(err, ErrBadgeNotFound) {
			return err
		}
	}

	return s.checkPointsBadges(db, volunteerID)
}

func (s *BadgeServiceImpl) CheckEventBadges(db *gorm.DB, volunteerID uuid.UUID) error {
	var attended int64
	err := db.Model(&models.EventSignup{}).
		Where("user_id = ? AND status = ?", volunteerID, models.SignupStatusAttended).
		Count(&attended).Error
	if err != nil {
		return err
	}

	if attended >= 1 {
		if _, err := s.AwardBadgeByCriteria(db, volunteerID, models.BadgeCriteriaFirstEvent); err != nil && !errors.Is(err, ErrBadgeNotFound) {
			return err
		}
	}

	return s.checkPointsBadges(db, volunteerID)
}

// checkPointsBadges awards the community-hero badge once a volunteer's
// running points total reaches the threshold. The badge's own 50 points
// land after the check; the next check picks the total up again, and the
// idempotent grant keeps that from looping.
func (s *BadgeServiceImpl) checkPointsBadges(db *gorm.DB, volunteerID uuid.UUID) error {
	var user models.User
	if err := db.First(&user, "id = ?", volunteerID).Error; err != nil {
		return err
	}

	if user.PointsTotal >= CommunityHeroPoints {
		if _, err := s.AwardBadgeByCriteria(db, volunteerID, models.BadgeCriteriaCommunityHero); err != nil && !errors.Is(err, ErrBadgeNotFound) {
			return err
		}
	}

	return nil
}
