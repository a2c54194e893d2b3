package middleware

import (
	"net/http"
	"strings"
	"time"

	"gaportal/internal/guard"
	"gaportal/internal/model"
	"gaportal/internal/session"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	sessionKey  = "session"
	stateKey    = "sessionState"
	rawKeyKey   = "sessionKey"
	userRoleKey = "userRole"
	userIDKey   = "userID"
)

// SessionCookies restores the caller's session on every request and writes the session cookie.
type SessionCookies struct {
	sessions   *session.Manager
	signer     *session.Signer
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionCookies uses SameSite=None and Secure cookies when secure is set (cross-origin production),
// SameSite=Lax otherwise.
func NewSessionCookies(sessions *session.Manager, signer *session.Signer, cookieName string, ttl time.Duration, secure bool) *SessionCookies {
	return &SessionCookies{sessions: sessions, signer: signer, cookieName: cookieName, ttl: ttl, secure: secure}
}

func (s *SessionCookies) sameSite() http.SameSite {
	if s.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Set hands the browser a signed token carrying the session key as an HttpOnly cookie.
// The token is returned as well for clients that send it as a Bearer header instead.
func (s *SessionCookies) Set(c *gin.Context, sess *session.Session) (string, error) {
	token, err := s.signer.Issue(sess.Key, sess.Record.Role, s.ttl)
	if err != nil {
		return "", err
	}
	c.SetSameSite(s.sameSite())
	c.SetCookie(s.cookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
	return token, nil
}

func (s *SessionCookies) Clear(c *gin.Context) {
	c.SetSameSite(s.sameSite())
	c.SetCookie(s.cookieName, "", -1, "/", "", s.secure, true)
}

func (s *SessionCookies) token(c *gin.Context) string {
	if token, err := c.Cookie(s.cookieName); err == nil && token != "" {
		return token
	}
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Restore loads the session before any handler runs. It never aborts; guards decide what to do
// with an anonymous caller.
func (s *SessionCookies) Restore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(stateKey, session.StateLoading)
		key := ""
		if token := s.token(c); token != "" {
			if parsed, err := s.signer.Parse(token); err == nil {
				key = parsed
			}
		}
		sess, state, err := s.sessions.Restore(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).Warn("session restore failed")
			state = session.StateAnonymous
		}
		c.Set(stateKey, state)
		if sess != nil {
			c.Set(sessionKey, sess)
			c.Set(rawKeyKey, key)
			c.Set(userIDKey, sess.Record.UserID)
			c.Set(userRoleKey, sess.Record.Role)
		}
		c.Next()
	}
}

// CurrentSession returns the restored session or nil.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

func CurrentState(c *gin.Context) session.State {
	if v, ok := c.Get(stateKey); ok {
		if state, ok := v.(session.State); ok {
			return state
		}
	}
	return session.StateAnonymous
}

// SessionKey is the raw session key of the caller, needed to log out.
func SessionKey(c *gin.Context) string {
	return c.GetString(rawKeyKey)
}

// RequireRole applies the route guard. Page loads (GET) are redirected, anything else gets 401 or 403
// with the redirect target in the body. No roles means any signed-in user.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := guard.Decide(CurrentSession(c).User(), roles)
		if decision.Allow {
			c.Next()
			return
		}
		Deny(c, decision)
	}
}

// Deny answers a refused guard decision.
func Deny(c *gin.Context, decision guard.Decision) {
	if c.Request.Method == http.MethodGet && !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		c.Redirect(http.StatusFound, decision.Redirect)
		c.Abort()
		return
	}
	if decision.Redirect == guard.LoginPath {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Redirect(http.StatusUnauthorized, "Authentication required", decision.Redirect))
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, response.Redirect(http.StatusForbidden, "Access denied: insufficient permissions", decision.Redirect))
}
