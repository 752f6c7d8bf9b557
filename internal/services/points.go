package services

import (
	"errors"
	"log"
	"sort"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrVolunteerNotRanked = errors.New("volunteer not present in leaderboard")

const PointsPerAttendedEvent = 20

type LeaderboardEntry struct {
	VolunteerID uuid.UUID `json:"volunteer_id"`
	Name        string    `json:"name"`
	TotalPoints int       `json:"total_points"`
	BadgeCount  int       `json:"badge_count"`
	Rank        int       `json:"rank"`
}

type VolunteerRank struct {
	VolunteerID uuid.UUID `json:"volunteer_id"`
	Rank        int       `json:"rank"`
	Points      int       `json:"points"`
}

type PointsService interface {
	GetLeaderboard(db *gorm.DB, limit int) ([]LeaderboardEntry, error)
	GetVolunteerRank(db *gorm.DB, volunteerID uuid.UUID) (VolunteerRank, error)
}

type PointsServiceImpl struct{}

func NewPointsService() *PointsServiceImpl {
	return &PointsServiceImpl{}
}

// GetLeaderboard recomputes scores from assignment, signup, and badge
// counts: completed*10 + attended*20 + badges*50. A failing per-volunteer
// query degrades that volunteer to a badge-only estimate; the call itself
// never fails wholesale once the volunteer list is loaded. Ties keep the
// volunteer list order (stable sort, no explicit tie-break rule).
func (s *PointsServiceImpl) GetLeaderboard(db *gorm.DB, limit int) ([]LeaderboardEntry, error) {
	var volunteers []models.User
	err := db.Where("role = ? AND is_active = ?", models.RoleVolunteer, true).
		Order("created_at").
		Find(&volunteers).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(volunteers))
	for _, v := range volunteers {
		entries = append(entries, s.scoreVolunteer(db, v))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

func (s *PointsServiceImpl) scoreVolunteer(db *gorm.DB, v models.User) LeaderboardEntry {
	entry := LeaderboardEntry{
		VolunteerID: v.ID,
		Name:        v.FullName(),
	}

	var badgeCount int64
	if err := db.Model(&models.VolunteerBadge{}).
		Where("volunteer_id = ?", v.ID).
		Count(&badgeCount).Error; err != nil {
		log.Printf("badge count failed for volunteer %s: %v", v.ID, err)
		badgeCount = 0
	}
	entry.BadgeCount = int(badgeCount)

	var completed int64
	err := db.Model(&models.TaskAssignment{}).
		Where("volunteer_id = ? AND status = ?", v.ID, models.AssignmentStatusCompleted).
		Count(&completed).Error
	if err != nil {
		log.Printf("task count failed for volunteer %s, using badge-only estimate: %v", v.ID, err)
		entry.TotalPoints = entry.BadgeCount * PointsPerBadge
		return entry
	}

	var attended int64
	err = db.Model(&models.EventSignup{}).
		Where("user_id = ? AND status = ?", v.ID, models.SignupStatusAttended).
		Count(&attended).Error
	if err != nil {
		log.Printf("signup count failed for volunteer %s, using badge-only estimate: %v", v.ID, err)
		entry.TotalPoints = entry.BadgeCount * PointsPerBadge
		return entry
	}

	entry.TotalPoints = int(completed)*PointsPerCompletedTask +
		int(attended)*PointsPerAttendedEvent +
		entry.BadgeCount*PointsPerBadge
	return entry
}

func (s *PointsServiceImpl) GetVolunteerRank(db *gorm.DB, volunteerID uuid.UUID) (VolunteerRank, error) {
	entries, err := s.GetLeaderboard(db, 0)
	if err != nil {
		return VolunteerRank{}, err
	}

	for _, entry := range entries {
		if entry.VolunteerID == volunteerID {
			return VolunteerRank{
				VolunteerID: volunteerID,
				Rank:        entry.Rank,
				Points:      entry.TotalPoints,
			}, nil
		}
	}

	return VolunteerRank{}, ErrVolunteerNotRanked
}
