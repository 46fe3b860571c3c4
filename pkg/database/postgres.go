package database

import (
	"log"
	"time"

	"github.com/brightdesk/portal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.Taxonomy{},
		&models.Post{},
		&models.Team{},
		&models.TeamMember{},
		&models.Thread{},
		&models.ThreadReply{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Feedback{},
		&models.KPI{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Unique index: one registration per (event, user), whatever the state
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_registration_event_user
		ON registrations (event_id, user_id)
	`)

	return db
}
