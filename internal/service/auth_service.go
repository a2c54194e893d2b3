package service

import (
	"context"

	"gaportal/internal/guard"
	"gaportal/internal/model"
	"gaportal/internal/repository"
	"gaportal/internal/resource"
	"gaportal/internal/session"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type MeResponse struct {
	User       *model.User   `json:"user"`
	State      session.State `json:"state"`
	Theme      model.Theme   `json:"theme"`
	Navigation []guard.Route `json:"navigation"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*session.Session, error)
	Logout(ctx context.Context, sess *session.Session, key string) error
	Me(sess *session.Session, state session.State) MeResponse
}

type authService struct {
	sessions  *session.Manager
	txManager repository.TransactionManager
	audit     AuditService
}

func NewAuthService(sessions *session.Manager, txManager repository.TransactionManager, audit AuditService) AuthService {
	return &authService{sessions: sessions, txManager: txManager, audit: audit}
}

// Login signs in upstream, then persists the session together with its audit entry.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*session.Session, error) {
	grant, err := s.sessions.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, resource.Fail(err, "Login failed")
	}
	var sess *session.Session
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		sess, err = s.sessions.Open(txCtx, grant)
		if err != nil {
			return err
		}
		user := sess.User()
		return s.audit.Record(txCtx, Actor{User: user}, model.ActionLogin, user.ID.String(), user.DisplayName(), map[string]string{
			"email": req.Email,
		})
	})
	if err != nil {
		return nil, resource.Fail(err, "Login failed")
	}
	return sess, nil
}

// Logout never fails on the backend's account; only a broken session store is reported.
func (s *authService) Logout(ctx context.Context, sess *session.Session, key string) error {
	if sess != nil {
		user := sess.User()
		audit(ctx, s.audit, Actor{User: user}, model.ActionLogout, user.ID.String(), user.DisplayName(), nil)
	}
	if err := s.sessions.Logout(ctx, key); err != nil {
		return err
	}
	if sess != nil && sess.Client != nil {
		sess.Client.ClearAuthToken()
	}
	return nil
}

func (s *authService) Me(sess *session.Session, state session.State) MeResponse {
	user := sess.User()
	nav := guard.Navigation(user)
	if nav == nil {
		nav = []guard.Route{}
	}
	return MeResponse{User: user, State: state, Theme: model.LightTheme(), Navigation: nav}
}
