package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/view"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const dashboardEmpty = "No data yet for the selected period."

type DashboardService interface {
	Build(ctx context.Context, actor Actor) view.Dashboard
}

type dashboardService struct {
	ceiling time.Duration
}

// NewDashboardService builds dashboards that give up waiting for upstream after ceiling.
func NewDashboardService(ceiling time.Duration) DashboardService {
	return &dashboardService{ceiling: ceiling}
}

type cardsResult struct {
	cards []view.StatCard
	err   error
}

// Build fans out the role's stat calls. When they take longer than the ceiling the dashboard is
// returned without cards and with TimedOut set; the pending calls are cancelled.
func (s *dashboardService) Build(ctx context.Context, actor Actor) view.Dashboard {
	d := view.Dashboard{
		Greeting:     "Welcome back, " + actor.User.DisplayName() + "!",
		Role:         string(actor.User.Role),
		Cards:        []view.StatCard{},
		QuickActions: quickActions(actor.User.Role),
	}

	ctx, cancel := context.WithTimeout(ctx, s.ceiling)
	defer cancel()

	done := make(chan cardsResult, 1)
	go func() {
		cards, err := roleCards(ctx, actor)
		done <- cardsResult{cards: cards, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				d.TimedOut = true
				return d
			}
			log.WithError(r.err).WithField("role", d.Role).Warn("dashboard load failed")
			d.Error = apiclient.MessageOr(r.err, "Failed to load")
			return d
		}
		d.Cards = r.cards
	case <-ctx.Done():
		d.TimedOut = true
		return d
	}

	if len(d.Cards) == 0 {
		d.EmptyMessage = dashboardEmpty
	}
	d.Chart = view.ChartOf(d.Cards)
	return d
}

func roleCards(ctx context.Context, actor Actor) ([]view.StatCard, error) {
	switch actor.User.Role {
	case model.RoleUser:
		return userCards(ctx, actor.Client)
	case model.RoleAdmin:
		return adminCards(ctx, actor.Client)
	case model.RoleProcurement:
		return procurementCards(ctx, actor.Client)
	}
	return nil, nil
}

func userCards(ctx context.Context, c *apiclient.Client) ([]view.StatCard, error) {
	var (
		stats    model.TodoStats
		requests []model.ItemRequest
		meetings []model.Meeting
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = apiclient.GetJSON[model.TodoStats](gctx, c, "/todos/stats")
		return err
	})
	g.Go(func() (err error) {
		requests, err = apiclient.GetList[model.ItemRequest](gctx, c, "/requests/mine")
		return err
	})
	g.Go(func() (err error) {
		meetings, err = apiclient.GetList[model.Meeting](gctx, c, "/meetings")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	today := firstPeriod(stats.Daily)
	return []view.StatCard{
		view.Card("My To-Dos", fmt.Sprintf("%d today", today.Total.Int()), fmt.Sprintf("%d completed today", today.Completed.Int()), "check-square", "blue"),
		view.Card("Avg Duration", fmt.Sprintf("%d min", roundMinutes(stats.AvgDurationMinutes)), "Average completion time", "trending-up", "yellow"),
		view.Card("My Requests", len(requests), "Total requests", "package", "green"),
		view.Card("My Meetings", len(meetings), "Scheduled/ongoing", "calendar", "purple"),
	}, nil
}

func adminCards(ctx context.Context, c *apiclient.Client) ([]view.StatCard, error) {
	var (
		users    model.UserStats
		todos    model.TodoStats
		assets   model.AssetStats
		meetings model.MeetingStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = apiclient.GetJSON[model.UserStats](gctx, c, "/users/stats/global")
		return err
	})
	g.Go(func() (err error) {
		todos, err = apiclient.GetJSON[model.TodoStats](gctx, c, "/todos/stats/global")
		return err
	})
	g.Go(func() error {
		assets = optionalAssetStats(gctx, c)
		return nil
	})
	g.Go(func() error {
		var err error
		if meetings, err = apiclient.GetJSON[model.MeetingStats](gctx, c, "/meetings/stats"); err != nil {
			meetings = model.MeetingStats{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []view.StatCard{
		view.Card("New Users (mo)", firstPeriod(users.Monthly).Total.Int(), "This month", "users", "blue"),
		view.Card("Todos Completed (mo)", firstPeriod(todos.Monthly).Completed.Int(), "This month", "alert-circle", "yellow"),
		view.Card("Assets", assets.Total(), "All assets", "building", "green"),
		view.Card("Avg Meeting (min)", roundMinutes(meetings.AvgDurationMinutes), "Average duration", "calendar", "purple"),
	}, nil
}

func procurementCards(ctx context.Context, c *apiclient.Client) ([]view.StatCard, error) {
	var (
		stats  model.ProcurementStats
		assets model.AssetStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = apiclient.GetJSON[model.ProcurementStats](gctx, c, "/procurements/stats")
		return err
	})
	g.Go(func() error {
		assets = optionalAssetStats(gctx, c)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	spend := "0"
	if len(stats.Monthly.Amount) > 0 {
		spend = stats.Monthly.Amount[0].TotalAmount.String()
	}
	return []view.StatCard{
		view.Card("Procurements (mo)", firstPeriod(stats.Monthly.Count).Total.Int(), "This month", "package", "blue"),
		view.Card("Spend (mo)", spend, "Total amount", "trending-up", "purple"),
		view.Card("Assets", assets.Total(), "Managed assets", "building", "green"),
	}, nil
}

// optionalAssetStats treats a failing /assets/stats as "no assets"; older backends lack the endpoint.
func optionalAssetStats(ctx context.Context, c *apiclient.Client) model.AssetStats {
	stats, err := apiclient.GetJSON[model.AssetStats](ctx, c, "/assets/stats")
	if err != nil {
		return model.AssetStats{ByStatus: []model.StatusCount{}}
	}
	return stats
}

func firstPeriod(periods []model.PeriodCount) model.PeriodCount {
	if len(periods) == 0 {
		return model.PeriodCount{}
	}
	return periods[0]
}

func roundMinutes(n model.Number) int {
	return int(math.Round(float64(n)))
}

func quickActions(role model.Role) []view.QuickAction {
	switch role {
	case model.RoleUser:
		return []view.QuickAction{
			{Key: "create-todo", Label: "Create To-Do", Path: "/todos"},
			{Key: "request-item", Label: "Request Item", Path: "/requests"},
			{Key: "book-meeting", Label: "Book Meeting", Path: "/meetings"},
			{Key: "my-assets", Label: "My Assets", Path: "/assets"},
		}
	case model.RoleAdmin:
		return []view.QuickAction{
			{Key: "manage-users", Label: "Manage Users", Path: "/admin/users"},
			{Key: "manage-assets", Label: "Manage Assets", Path: "/admin/assets"},
			{Key: "manage-requests", Label: "Review Requests", Path: "/admin/requests"},
			{Key: "manage-todos", Label: "Review To-Dos", Path: "/admin/todos"},
			{Key: "manage-visitors", Label: "Visitors", Path: "/admin/visitors"},
			{Key: "manage-meetings", Label: "Meetings", Path: "/admin/meetings"},
		}
	case model.RoleProcurement:
		return []view.QuickAction{
			{Key: "procurement-requests", Label: "Procurement Requests", Path: "/procurement/requests"},
			{Key: "procurement-assets", Label: "Asset Follow-up", Path: "/procurement/assets"},
		}
	}
	return []view.QuickAction{}
}
