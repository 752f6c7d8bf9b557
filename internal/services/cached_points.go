package services

import (
	"fmt"
	"time"

	"volunteer-hub/backend/internal/cache"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const leaderboardTTL = time.Minute

// CachedPointsService fronts the leaderboard recompute with redis. Cache
// failures fall through to the database; the cache is never authoritative.
type CachedPointsService struct {
	pointsService PointsService
	cache         cache.Cache
}

func NewCachedPointsService(pointsService PointsService, cacheInstance cache.Cache) *CachedPointsService {
	return &CachedPointsService{
		pointsService: pointsService,
		cache:         cacheInstance,
	}
}

func (s *CachedPointsService) GetLeaderboard(db *gorm.DB, limit int) ([]LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:%d", limit)

	var cached []LeaderboardEntry
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	}

	entries, err := s.pointsService.GetLeaderboard(db, limit)
	if err != nil {
		return entries, err
	}

	s.cache.Set(cacheKey, entries, leaderboardTTL)

	return entries, nil
}

func (s *CachedPointsService) GetVolunteerRank(db *gorm.DB, volunteerID uuid.UUID) (VolunteerRank, error) {
	cacheKey := fmt.Sprintf("rank:%s", volunteerID.String())

	var cached VolunteerRank
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	}

	rank, err := s.pointsService.GetVolunteerRank(db, volunteerID)
	if err != nil {
		return rank, err
	}

	s.cache.Set(cacheKey, rank, leaderboardTTL)

	return rank, nil
}

// InvalidateLeaderboard drops cached standings after a scoring event.
func (s *CachedPointsService) InvalidateLeaderboard() {
	s.cache.DeletePattern("leaderboard:*")
	s.cache.DeletePattern("rank:*")
}

var _ PointsService = (*CachedPointsService)(nil)
