package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"gaportal/internal/model"

	"github.com/google/uuid"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

// NewMemorySessionRepository keeps sessions in process memory. Sessions do not survive a restart.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: map[string]model.Session{}}
}

func (r *memorySessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.KeyHash] = *session
	return nil
}

func (r *memorySessionRepository) FindByKeyHash(ctx context.Context, keyHash string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[keyHash]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (r *memorySessionRepository) DeleteByKeyHash(ctx context.Context, keyHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, keyHash)
	return nil
}

func (r *memorySessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for key, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, key)
			removed++
		}
	}
	return removed, nil
}

type memoryAuditRepository struct {
	mu   sync.RWMutex
	logs []model.AuditLog
}

func NewMemoryAuditRepository() AuditRepository {
	return &memoryAuditRepository{}
}

func (r *memoryAuditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *memoryAuditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	r.mu.RLock()
	sorted := make([]model.AuditLog, len(r.logs))
	copy(sorted, r.logs)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	total := int64(len(sorted))
	offset := (page - 1) * limit
	if offset >= len(sorted) {
		return []model.AuditLog{}, total, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], total, nil
}
