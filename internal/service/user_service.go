package service

import (
	"context"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"
)

type UserSummary struct {
	ByRole  map[string]int      `json:"by_role"`
	Monthly []model.PeriodCount `json:"monthly"`
}

// UserService manages portal accounts upstream. The gateway never stores users itself.
type UserService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.User]
	Create(ctx context.Context, actor Actor, req model.UserInput) error
	Update(ctx context.Context, actor Actor, id string, req model.UserInput) error
	Delete(ctx context.Context, actor Actor, id string) error
}

type userService struct {
	users *resource.Controller[model.User]
	audit AuditService
}

func NewUserService(audit AuditService) UserService {
	return &userService{
		users: resource.New(resource.Config[model.User]{
			ListPath:     "/users",
			EmptyMessage: "No users found",
			ID:           func(u model.User) string { return u.ID.String() },
			Status:       func(u model.User) string { return string(u.Role) },
			Category:     func(u model.User) string { return u.Department },
			Search: func(u model.User) []string {
				return []string{u.Name, u.Email, u.Department}
			},
		}),
		audit: audit,
	}
}

// List adds the monthly sign-up stats when the backend has them.
func (s *userService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.User] {
	page := s.users.List(ctx, actor.Client, f)
	if page.Error != "" {
		return page
	}
	sum := UserSummary{ByRole: page.Counts, Monthly: []model.PeriodCount{}}
	if stats, err := apiclient.GetJSON[model.UserStats](ctx, actor.Client, "/users/stats/global"); err == nil && stats.Monthly != nil {
		sum.Monthly = stats.Monthly
	}
	page.Summary = sum
	return page
}

func (s *userService) Create(ctx context.Context, actor Actor, req model.UserInput) error {
	if _, err := s.users.Create(ctx, actor.Client, req); err != nil {
		return err
	}
	req.Password = ""
	audit(ctx, s.audit, actor, model.ActionCreateUser, "", req.Name, req)
	return nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id string, req model.UserInput) error {
	if _, err := s.users.Update(ctx, actor.Client, id, req); err != nil {
		return err
	}
	req.Password = ""
	audit(ctx, s.audit, actor, model.ActionUpdateUser, id, req.Name, req)
	return nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.users.Delete(ctx, actor.Client, id); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionDeleteUser, id, "", nil)
	return nil
}
