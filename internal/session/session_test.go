package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/repository"

	"github.com/stretchr/testify/require"
)

type backend struct {
	*httptest.Server
	logouts atomic.Int32
	role    string
}

func newBackend(t *testing.T) *backend {
	b := &backend{role: "admin"}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			var creds loginRequest
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"user":{"id":7,"name":"Rina","email":"rina@ga.local","role":"` + b.role + `"},"token":"tok-7"}`))
		case "/auth/logout":
			b.logouts.Add(1)
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(b.Close)
	return b
}

func newTestManager(b *backend) (*Manager, repository.SessionRepository) {
	repo := repository.NewMemorySessionRepository()
	return NewManager(apiclient.New(b.URL, time.Second), repo, time.Hour), repo
}

func TestLoginRestoreLogout(t *testing.T) {
	b := newBackend(t)
	m, _ := newTestManager(b)
	ctx := context.Background()

	sess, err := m.Login(ctx, "rina@ga.local", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Key)
	require.Equal(t, "tok-7", sess.Client.Token())
	require.Equal(t, model.RoleAdmin, sess.User().Role)
	require.Equal(t, model.ID("7"), sess.User().ID)

	restored, state, err := m.Restore(ctx, sess.Key)
	require.NoError(t, err)
	require.Equal(t, StateAuthenticated, state)
	require.Equal(t, "Rina", restored.User().Name)
	require.Equal(t, "tok-7", restored.Client.Token())

	require.NoError(t, m.Logout(ctx, sess.Key))
	require.EqualValues(t, 1, b.logouts.Load())

	_, state, err = m.Restore(ctx, sess.Key)
	require.NoError(t, err)
	require.Equal(t, StateAnonymous, state)

	// a second logout neither fails nor reaches the backend
	require.NoError(t, m.Logout(ctx, sess.Key))
	require.EqualValues(t, 1, b.logouts.Load())
	require.NoError(t, m.Logout(ctx, ""))
}

func TestLoginRejected(t *testing.T) {
	b := newBackend(t)
	m, _ := newTestManager(b)

	_, err := m.Login(context.Background(), "rina@ga.local", "wrong")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
	require.Equal(t, "Invalid credentials", apiclient.MessageOr(err, "Login failed"))
}

func TestLoginUnknownRole(t *testing.T) {
	b := newBackend(t)
	b.role = "superuser"
	m, _ := newTestManager(b)

	_, err := m.Login(context.Background(), "rina@ga.local", "secret")
	require.Error(t, err)
}

func TestRestoreExpired(t *testing.T) {
	b := newBackend(t)
	m, repo := newTestManager(b)
	ctx := context.Background()

	sess, err := m.Login(ctx, "rina@ga.local", "secret")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	restored, state, err := m.Restore(ctx, sess.Key)
	require.NoError(t, err)
	require.Nil(t, restored)
	require.Equal(t, StateAnonymous, state)

	_, err = repo.FindByKeyHash(ctx, HashKey(sess.Key))
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestPurgeExpired(t *testing.T) {
	b := newBackend(t)
	m, repo := newTestManager(b)
	ctx := context.Background()

	sess, err := m.Login(ctx, "rina@ga.local", "secret")
	require.NoError(t, err)

	m.PurgeExpired(ctx)
	_, err = repo.FindByKeyHash(ctx, HashKey(sess.Key))
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	m.PurgeExpired(ctx)
	_, err = repo.FindByKeyHash(ctx, HashKey(sess.Key))
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("test-secret")

	token, err := s.Issue("key-1", "user", time.Minute)
	require.NoError(t, err)
	key, err := s.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "key-1", key)

	_, err = NewSigner("other-secret").Parse(token)
	require.Error(t, err)

	expired, err := s.Issue("key-1", "user", -time.Minute)
	require.NoError(t, err)
	_, err = s.Parse(expired)
	require.Error(t, err)

	empty, err := s.Issue("", "user", time.Minute)
	require.NoError(t, err)
	_, err = s.Parse(empty)
	require.Error(t, err)
}

func TestHashKeyIsStable(t *testing.T) {
	require.Equal(t, HashKey("abc"), HashKey("abc"))
	require.NotEqual(t, HashKey("abc"), HashKey("abd"))
	require.Len(t, HashKey("abc"), 64)
}
