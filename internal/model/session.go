package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the persisted login of one browser: the backend user and its bearer token.
// The row is keyed by the hash of the session id handed to the browser, never the id itself.
type Session struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KeyHash       string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	UserID        string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	UserName      string    `gorm:"type:varchar(255)" json:"user_name"`
	UserEmail     string    `gorm:"type:varchar(255)" json:"user_email"`
	Role          string    `gorm:"type:varchar(20);not null" json:"role"`
	UpstreamToken string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// User rebuilds the backend identity stored with the session.
func (s *Session) User() *User {
	return &User{
		ID:    ID(s.UserID),
		Name:  s.UserName,
		Email: s.UserEmail,
		Role:  Role(s.Role),
	}
}

// Theme is the portal's cosmetic setting. Only the light theme is shipped.
type Theme struct {
	Theme  string `json:"theme"`
	IsDark bool   `json:"is_dark"`
}

func LightTheme() Theme {
	return Theme{Theme: "light", IsDark: false}
}
