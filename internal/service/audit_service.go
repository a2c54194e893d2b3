package service

import (
	"context"
	"encoding/json"

	"gaportal/internal/model"
	"gaportal/internal/repository"

	log "github.com/sirupsen/logrus"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	Record(ctx context.Context, actor Actor, action, entityID, entityName string, details interface{}) error
	GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Record appends one entry to the gateway's trail of mutations.
func (s *auditService) Record(ctx context.Context, actor Actor, action, entityID, entityName string, details interface{}) error {
	entry := &model.AuditLog{
		UserID:     actor.userID(),
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
	}
	if actor.User != nil {
		entry.UserName = actor.User.DisplayName()
		entry.Role = string(actor.User.Role)
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err == nil {
			entry.Details = string(raw)
		}
	}
	return s.repo.Log(ctx, entry)
}

// GetAuditLogs returns one page of the trail, newest first.
func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := l.UserName
		if username == "" {
			username = "System"
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     l.UserID,
			Username:   username,
			Role:       l.Role,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}

// audit records a page action without failing it; the backend already accepted the change.
func audit(ctx context.Context, s AuditService, actor Actor, action, entityID, entityName string, details interface{}) {
	if s == nil {
		return
	}
	if err := s.Record(ctx, actor, action, entityID, entityName, details); err != nil {
		log.WithError(err).WithField("action", action).Warn("failed to write audit log")
	}
}
