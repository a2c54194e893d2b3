package session

import (
	"context"
	"encoding/hex"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// State is where a browser's session stands when a request comes in.
type State string

const (
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Session is a restored login: the persisted record plus a client bound to its bearer token.
type Session struct {
	Key    string
	Record *model.Session
	Client *apiclient.Client
}

func (s *Session) User() *model.User {
	if s == nil || s.Record == nil {
		return nil
	}
	return s.Record.User()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Manager owns the portal sessions. Each session keeps the user and token returned by the backend.
type Manager struct {
	client   *apiclient.Client
	sessions repository.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(client *apiclient.Client, sessions repository.SessionRepository, ttl time.Duration) *Manager {
	return &Manager{client: client, sessions: sessions, ttl: ttl, now: time.Now}
}

// HashKey is what the stores index sessions by.
func HashKey(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func newKey() string {
	return uuid.NewString() + uuid.NewString()
}

// Grant is what the backend hands out for valid credentials.
type Grant struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Authenticate posts the credentials to the backend. Nothing is stored.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*Grant, error) {
	resp, err := m.client.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var grant Grant
	if err := resp.Decode(&grant); err != nil {
		return nil, err
	}
	if grant.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	if !grant.User.Role.Valid() {
		return nil, errors.Errorf("login response carried unknown role %q", grant.User.Role)
	}
	return &grant, nil
}

// Open persists grant under a new session key.
func (m *Manager) Open(ctx context.Context, grant *Grant) (*Session, error) {
	key := newKey()
	record := &model.Session{
		KeyHash:       HashKey(key),
		UserID:        grant.User.ID.String(),
		UserName:      grant.User.Name,
		UserEmail:     grant.User.Email,
		Role:          string(grant.User.Role),
		UpstreamToken: grant.Token,
		ExpiresAt:     m.now().Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "persist session")
	}
	return &Session{Key: key, Record: record, Client: m.client.WithToken(grant.Token)}, nil
}

// Login authenticates and opens the session in one step.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	grant, err := m.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.Open(ctx, grant)
}

// Restore loads the session stored under key. Unknown, empty and expired keys are anonymous, not errors.
func (m *Manager) Restore(ctx context.Context, key string) (*Session, State, error) {
	if key == "" {
		return nil, StateAnonymous, nil
	}
	record, err := m.sessions.FindByKeyHash(ctx, HashKey(key))
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, StateAnonymous, nil
	}
	if err != nil {
		return nil, StateLoading, errors.Wrap(err, "load session")
	}
	if record.Expired(m.now()) {
		_ = m.sessions.DeleteByKeyHash(ctx, record.KeyHash)
		return nil, StateAnonymous, nil
	}
	return &Session{Key: key, Record: record, Client: m.client.WithToken(record.UpstreamToken)}, StateAuthenticated, nil
}

// Logout tells the backend on a best-effort basis and then always drops the stored session.
// Logging out twice, or without a session, is not an error.
func (m *Manager) Logout(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	keyHash := HashKey(key)
	record, err := m.sessions.FindByKeyHash(ctx, keyHash)
	if err == nil {
		if _, err := m.client.WithToken(record.UpstreamToken).Post(ctx, "/auth/logout", nil); err != nil {
			log.WithError(err).Debug("backend logout failed, ignoring")
		}
	}
	if err := m.sessions.DeleteByKeyHash(ctx, keyHash); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return errors.Wrap(err, "delete session")
	}
	return nil
}

// PurgeExpired drops sessions past their expiry.
func (m *Manager) PurgeExpired(ctx context.Context) {
	removed, err := m.sessions.DeleteExpired(ctx, m.now())
	if err != nil {
		log.WithError(err).Warn("failed to purge expired sessions")
		return
	}
	if removed > 0 {
		log.WithField("removed", removed).Info("purged expired sessions")
	}
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.PurgeExpired(ctx)
		}
	}
}
