package services_test

import (
	"testing"
	"time"

	"volunteer-hub/backend/internal/database"
	"volunteer-hub/backend/internal/models"
	"volunteer-hub/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type PointsServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.PointsServiceImpl

	event models.Event
	task  models.Task
}

func (suite *PointsServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))
	suite.Require().NoError(database.SeedBadges(db))
	suite.db = db

	suite.service = services.NewPointsService()

	suite.event = models.Event{
		ID:       uuid.Must(uuid.NewV4()),
		Title:    "Food Drive",
		StartsAt: time.Now().Add(-2 * time.Hour),
		EndsAt:   time.Now().Add(2 * time.Hour),
	}
	suite.Require().NoError(db.Create(&suite.event).Error)

	suite.task = models.Task{
		ID:      uuid.Must(uuid.NewV4()),
		EventID: suite.event.ID,
		Title:   "Sort donations",
	}
	suite.Require().NoError(db.Create(&suite.task).Error)
}

func (suite *PointsServiceTestSuite) createVolunteer(email string, createdAt time.Time) models.User {
	v := models.User{
		ID:        uuid.Must(uuid.NewV4()),
		Email:     email,
		Password:  "$2a$10$abcdefghijklmnopqrstuv",
		FirstName: email,
		Role:      models.RoleVolunteer,
		IsActive:  true,
		CreatedAt: createdAt,
	}
	suite.Require().NoError(suite.db.Create(&v).Error)
	return v
}

func (suite *PointsServiceTestSuite) completeTasks(volunteerID uuid.UUID, count int) {
	for i := 0; i < count; i++ {
		task := models.Task{
			ID:      uuid.Must(uuid.NewV4()),
			EventID: suite.event.ID,
			Title:   "Task",
			Status:  models.TaskStatusCompleted,
		}
		suite.Require().NoError(suite.db.Create(&task).Error)

		assignment := models.TaskAssignment{
			ID:          uuid.Must(uuid.NewV4()),
			TaskID:      task.ID,
			VolunteerID: volunteerID,
			EventID:     suite.event.ID,
			Status:      models.AssignmentStatusCompleted,
		}
		suite.Require().NoError(suite.db.Create(&assignment).Error)
	}
}

func (suite *PointsServiceTestSuite) attendEvent(volunteerID uuid.UUID) {
	signup := models.EventSignup{
		ID:      uuid.Must(uuid.NewV4()),
		EventID: suite.event.ID,
		UserID:  volunteerID,
		Status:  models.SignupStatusAttended,
	}
	suite.Require().NoError(suite.db.Create(&signup).Error)
}

func (suite *PointsServiceTestSuite) awardBadge(volunteerID uuid.UUID, criteria string) {
	var badge models.Badge
	suite.Require().NoError(suite.db.Where("criteria = ?", criteria).First(&badge).Error)

	award := models.VolunteerBadge{
		ID:          uuid.Must(uuid.NewV4()),
		VolunteerID: volunteerID,
		BadgeID:     badge.ID,
		AwardedAt:   time.Now(),
	}
	suite.Require().NoError(suite.db.Create(&award).Error)
}

func (suite *PointsServiceTestSuite) TestLeaderboardScoring() {
	base := time.Now().Add(-time.Hour)
	top := suite.createVolunteer("top@example.com", base)
	middle := suite.createVolunteer("middle@example.com", base.Add(time.Minute))
	bottom := suite.createVolunteer("bottom@example.com", base.Add(2*time.Minute))

	// 2 completed tasks + 1 attended event + 1 badge = 20 + 20 + 50 = 90.
	suite.completeTasks(top.ID, 2)
	suite.attendEvent(top.ID)
	suite.awardBadge(top.ID, models.BadgeCriteriaFirstTask)

	suite.completeTasks(middle.ID, 1)

	entries, err := suite.service.GetLeaderboard(suite.db, 10)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)

	suite.Equal(top.ID, entries[0].VolunteerID)
	suite.Equal(90, entries[0].TotalPoints)
	suite.Equal(1, entries[0].BadgeCount)
	suite.Equal(1, entries[0].Rank)

	suite.Equal(middle.ID, entries[1].VolunteerID)
	suite.Equal(10, entries[1].TotalPoints)
	suite.Equal(2, entries[1].Rank)

	suite.Equal(bottom.ID, entries[2].VolunteerID)
	suite.Equal(0, entries[2].TotalPoints)
	suite.Equal(3, entries[2].Rank)
}

func (suite *PointsServiceTestSuite) TestLeaderboardLimit() {
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		suite.createVolunteer(string(rune('a'+i))+"@example.com", base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := suite.service.GetLeaderboard(suite.db, 3)
	suite.Require().NoError(err)
	suite.Len(entries, 3)
}

func (suite *PointsServiceTestSuite) TestLeaderboardExcludesInactiveAndAdmins() {
	base := time.Now().Add(-time.Hour)
	active := suite.createVolunteer("active@example.com", base)

	inactive := suite.createVolunteer("inactive@example.com", base)
	suite.Require().NoError(suite.db.Model(&inactive).Update("is_active", false).Error)

	admin := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    "admin@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	suite.Require().NoError(suite.db.Create(&admin).Error)

	entries, err := suite.service.GetLeaderboard(suite.db, 10)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(active.ID, entries[0].VolunteerID)
}

func (suite *PointsServiceTestSuite) TestGetVolunteerRank() {
	base := time.Now().Add(-time.Hour)
	first := suite.createVolunteer("first@example.com", base)
	second := suite.createVolunteer("second@example.com", base.Add(time.Minute))

	suite.completeTasks(first.ID, 3)

	rank, err := suite.service.GetVolunteerRank(suite.db, second.ID)
	suite.Require().NoError(err)
	suite.Equal(2, rank.Rank)
	suite.Equal(0, rank.Points)

	rank, err = suite.service.GetVolunteerRank(suite.db, first.ID)
	suite.Require().NoError(err)
	suite.Equal(1, rank.Rank)
	suite.Equal(30, rank.Points)
}

func (suite *PointsServiceTestSuite) TestGetVolunteerRankUnknown() {
	_, err := suite.service.GetVolunteerRank(suite.db, uuid.Must(uuid.NewV4()))
	suite.ErrorIs(err, services.ErrVolunteerNotRanked)
}

func TestPointsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PointsServiceTestSuite))
}
