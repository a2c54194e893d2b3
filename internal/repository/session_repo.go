package repository

import (
	"context"
	"errors"
	"time"

	"gaportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSessionNotFound is returned when no live session matches a key.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists portal sessions keyed by the hash of the browser's session id.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByKeyHash(ctx context.Context, keyHash string) (*model.Session, error)
	DeleteByKeyHash(ctx context.Context, keyHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns the postgres backed SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return GetDB(ctx, r.db).Create(session).Error
}

func (r *sessionRepository) FindByKeyHash(ctx context.Context, keyHash string) (*model.Session, error) {
	var session model.Session
	err := GetDB(ctx, r.db).First(&session, "key_hash = ?", keyHash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByKeyHash(ctx context.Context, keyHash string) error {
	return GetDB(ctx, r.db).Where("key_hash = ?", keyHash).Delete(&model.Session{}).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Where("expires_at < ?", now).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
