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

type EventServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.EventServiceImpl

	volunteer models.User
	event     models.Event
}

func (suite *EventServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))
	suite.Require().NoError(database.SeedBadges(db))
	suite.db = db

	suite.service = services.NewEventService(services.NewBadgeService())

	suite.volunteer = models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    "vol@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Role:     models.RoleVolunteer,
		IsActive: true,
	}
	suite.Require().NoError(db.Create(&suite.volunteer).Error)

	suite.event = models.Event{
		ID:       uuid.Must(uuid.NewV4()),
		Title:    "Tree Planting",
		StartsAt: time.Now().Add(24 * time.Hour),
		EndsAt:   time.Now().Add(30 * time.Hour),
	}
	suite.Require().NoError(db.Create(&suite.event).Error)
}

func (suite *EventServiceTestSuite) TestSignUp() {
	signup, err := suite.service.SignUp(suite.db, suite.event.ID, suite.volunteer.ID)
	suite.Require().NoError(err)
	suite.Equal(models.SignupStatusRegistered, signup.Status)
}

func (suite *EventServiceTestSuite) TestSignUpTwice() {
	_, err := suite.service.SignUp(suite.db, suite.event.ID, suite.volunteer.ID)
	suite.Require().NoError(err)

	_, err = suite.service.SignUp(suite.db, suite.event.ID, suite.volunteer.ID)
	suite.ErrorIs(err, services.ErrAlreadySignedUp)

	var count int64
	suite.db.Model(&models.EventSignup{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *EventServiceTestSuite) TestSignUpUnknownEvent() {
	_, err := suite.service.SignUp(suite.db, uuid.Must(uuid.NewV4()), suite.volunteer.ID)
	suite.ErrorIs(err, services.ErrEventNotFound)
}

func (suite *EventServiceTestSuite) TestMarkAttendanceGrantsPoints() {
	_, err := suite.service.SignUp(suite.db, suite.event.ID, suite.volunteer.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.MarkAttendance(suite.db, suite.event.ID, suite.volunteer.ID))

	var signup models.EventSignup
	suite.db.Where("event_id = ? AND user_id = ?", suite.event.ID, suite.volunteer.ID).First(&signup)
	suite.Equal(models.SignupStatusAttended, signup.Status)

	// Attendance points plus the first-event badge credit.
	var user models.User
	suite.db.First(&user, "id = ?", suite.volunteer.ID)
	suite.Equal(services.PointsPerAttendedEvent+services.PointsPerBadge, user.PointsTotal)
}

func (suite *EventServiceTestSuite) TestMarkAttendanceTwiceIsNoOp() {
	_, err := suite.service.SignUp(suite.db, suite.event.ID, suite.volunteer.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.MarkAttendance(suite.db, suite.event.ID, suite.volunteer.ID))
	suite.Require().NoError(suite.service.MarkAttendance(suite.db, suite.event.ID, suite.volunteer.ID))

	var entryCount int64
	suite.db.Model(&models.PointsEntry{}).
		Where("volunteer_id = ? AND reason = ?", suite.volunteer.ID, "event_attended").
		Count(&entryCount)
	suite.Equal(int64(1), entryCount)
}

func (suite *EventServiceTestSuite) TestMarkAttendanceWithoutSignup() {
	err := suite.service.MarkAttendance(suite.db, suite.event.ID, suite.volunteer.ID)
	suite.ErrorIs(err, services.ErrSignupNotFound)
}

func (suite *EventServiceTestSuite) TestDeleteEventCascades() {
	task := models.Task{
		ID:      uuid.Must(uuid.NewV4()),
		EventID: suite.event.ID,
		Title:   "Dig holes",
	}
	suite.Require().NoError(suite.db.Create(&task).Error)

	assignment := models.TaskAssignment{
		ID:          uuid.Must(uuid.NewV4()),
		TaskID:      task.ID,
		VolunteerID: suite.volunteer.ID,
		EventID:     suite.event.ID,
		Status:      models.AssignmentStatusPending,
	}
	suite.Require().NoError(suite.db.Create(&assignment).Error)

	_, err := suite.service.SignUp(suite.db, suite.event.ID, suite.volunteer.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteEvent(suite.db, suite.event.ID))

	var taskCount, assignmentCount, signupCount, eventCount int64
	suite.db.Model(&models.Task{}).Count(&taskCount)
	suite.db.Model(&models.TaskAssignment{}).Count(&assignmentCount)
	suite.db.Model(&models.EventSignup{}).Count(&signupCount)
	suite.db.Model(&models.Event{}).Count(&eventCount)

	suite.Equal(int64(0), taskCount)
	suite.Equal(int64(0), assignmentCount)
	suite.Equal(int64(0), signupCount)
	suite.Equal(int64(0), eventCount)
}

func (suite *EventServiceTestSuite) TestUpdateUnknownEvent() {
	err := suite.service.UpdateEvent(suite.db, uuid.Must(uuid.NewV4()), models.Event{Title: "Renamed"})
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}

func TestEventDerivedStatus(t *testing.T) {
	now := time.Now()
	event := models.Event{
		StartsAt: now.Add(time.Hour),
		EndsAt:   now.Add(2 * time.Hour),
	}

	if got := event.Status(now); got != models.EventStatusUpcoming {
		t.Errorf("Expected upcoming, got %s", got)
	}
	if got := event.Status(now.Add(90 * time.Minute)); got != models.EventStatusOngoing {
		t.Errorf("Expected ongoing, got %s", got)
	}
	if got := event.Status(now.Add(3 * time.Hour)); got != models.EventStatusCompleted {
		t.Errorf("Expected completed, got %s", got)
	}
}
