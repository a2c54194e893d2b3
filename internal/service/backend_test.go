package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/repository"
)

// call is one request the stub backend received.
type call struct {
	Method string
	Path   string
	Query  string
	Body   string
	Header http.Header
}

// stubBackend answers "METHOD /path" keys with canned JSON and records every call.
// Unknown routes get a JSON 404.
type stubBackend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	calls  []call
}

func newStubBackend(t *testing.T, routes map[string]string) *stubBackend {
	b := &stubBackend{routes: routes, status: map[string]int{}}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.calls = append(b.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(raw), Header: r.Header.Clone()})
		body, ok := b.routes[key]
		status := b.status[key]
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not found"}`))
			return
		}
		if status != 0 {
			w.WriteHeader(status)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *stubBackend) set(key, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key] = body
}

func (b *stubBackend) fail(key string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key] = body
	b.status[key] = status
}

func (b *stubBackend) received() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

// find returns the calls made with method to path.
func (b *stubBackend) find(method, path string) []call {
	var out []call
	for _, c := range b.received() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (b *stubBackend) actor(role model.Role) Actor {
	return Actor{
		User:   &model.User{ID: "7", Name: "Rina", Role: role},
		Client: apiclient.New(b.URL, time.Second).WithToken("tok-7"),
	}
}

func newTestAudit() AuditService {
	return NewAuditService(repository.NewMemoryAuditRepository())
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
