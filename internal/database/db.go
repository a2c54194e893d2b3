package database

import (
	"gaportal/internal/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection opens the gateway's own postgres database and migrates its tables.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.Session{},
		&model.AuditLog{},
	)
	if err != nil {
		log.WithError(err).Warn("failed to auto-migrate portal tables")
	}

	return db, nil
}
