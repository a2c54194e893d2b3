package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/guard"
	"gaportal/internal/model"
	"gaportal/internal/repository"
	"gaportal/internal/session"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// loginAs starts a session for role against a stub backend and returns the cookies plus a signed token.
func loginAs(t *testing.T, role model.Role) (*SessionCookies, string) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":1,"name":"Dewi","role":"` + string(role) + `"},"token":"tok"}`))
	}))
	t.Cleanup(backend.Close)

	manager := session.NewManager(apiclient.New(backend.URL, time.Second), repository.NewMemorySessionRepository(), time.Hour)
	signer := session.NewSigner("test-secret")
	cookies := NewSessionCookies(manager, signer, "portal_session", time.Hour, false)

	sess, err := manager.Login(context.Background(), "dewi@ga.local", "pw")
	require.NoError(t, err)
	token, err := signer.Issue(sess.Key, string(role), time.Hour)
	require.NoError(t, err)
	return cookies, token
}

func newRouter(cookies *SessionCookies) *gin.Engine {
	r := gin.New()
	r.Use(cookies.Restore())
	admin := r.Group("/admin", RequireRole(model.RoleAdmin))
	admin.GET("/users", func(c *gin.Context) { c.String(http.StatusOK, CurrentSession(c).User().Name) })
	admin.POST("/users", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/state", func(c *gin.Context) { c.String(http.StatusOK, string(CurrentState(c))) })
	return r
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	cookies, _ := loginAs(t, model.RoleAdmin)
	r := newRouter(cookies)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, guard.LoginPath, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, guard.LoginPath, body.Redirect)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, string(session.StateAnonymous), w.Body.String())
}

func TestWrongRoleIsSentToDashboard(t *testing.T) {
	cookies, token := loginAs(t, model.RoleUser)
	r := newRouter(cookies)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, guard.DashboardPath, w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, guard.DashboardPath, body.Redirect)
}

func TestAllowedRolePasses(t *testing.T) {
	cookies, token := loginAs(t, model.RoleAdmin)
	r := newRouter(cookies)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Dewi", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, string(session.StateAuthenticated), w.Body.String())
}

func TestTamperedTokenIsAnonymous(t *testing.T) {
	cookies, token := loginAs(t, model.RoleAdmin)
	r := newRouter(cookies)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: token + "x"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, string(session.StateAnonymous), w.Body.String())
}

func TestSetAndClearCookie(t *testing.T) {
	cookies, _ := loginAs(t, model.RoleAdmin)
	sess := &session.Session{Key: "k", Record: &model.Session{Role: "admin"}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	token, err := cookies.Set(c, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	set := w.Result().Cookies()
	require.Len(t, set, 1)
	require.Equal(t, token, set[0].Value)
	require.True(t, set[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, set[0].SameSite)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	cookies.Clear(c)
	set = w.Result().Cookies()
	require.Len(t, set, 1)
	require.Empty(t, set[0].Value)
	require.True(t, set[0].MaxAge < 0)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	r := gin.New()
	r.POST("/auth/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusTooManyRequests, send())

	rl.Reset()
	require.Equal(t, http.StatusOK, send())
}
