package database

import (
	"fmt"
	"time"

	"volunteer-hub/backend/internal/config"
	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Event{},
		&models.EventSignup{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Notification{},
		&models.Badge{},
		&models.VolunteerBadge{},
		&models.PointsEntry{},
		&models.Donation{},
	)
}

// SeedBadges inserts the badge catalog if missing; safe to run on every start.
func SeedBadges(db *gorm.DB) error {
	badges := []models.Badge{
		{Name: "Welcome Aboard", Description: "Logged in for the first time", Criteria: models.BadgeCriteriaFirstLogin},
		{Name: "First Steps", Description: "Completed a first task", Criteria: models.BadgeCriteriaFirstTask},
		{Name: "Task Master", Description: "Completed five tasks", Criteria: models.BadgeCriteriaFiveTasks},
		{Name: "Event Goer", Description: "Attended a first event", Criteria: models.BadgeCriteriaFirstEvent},
		{Name: "Community Hero", Description: "Earned 500 points", Criteria: models.BadgeCriteriaCommunityHero},
	}

	for _, badge := range badges {
		var existing models.Badge
		err := db.Where("criteria = ?", badge.Criteria).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		badge.ID = uuid.Must(uuid.NewV4())
		badge.CreatedAt = time.Now()
		badge.UpdatedAt = time.Now()
		if err := db.Create(&badge).Error; err != nil {
			return err
		}
	}

	return nil
}
