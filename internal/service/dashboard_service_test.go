package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/view"

	"github.com/stretchr/testify/require"
)

func values(cards []view.StatCard) map[string]string {
	out := map[string]string{}
	for _, c := range cards {
		out[c.Name] = c.Value
	}
	return out
}

func TestUserDashboard(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"GET /todos/stats":   `{"daily":[{"total":5,"completed":2},{"total":3,"completed":3}],"avg_duration_minutes":"42.4"}`,
		"GET /requests/mine": `{"data":[{"id":1},{"id":2},{"id":3}]}`,
		"GET /meetings":      `[{"id":9,"status":"scheduled"}]`,
	})

	d := NewDashboardService(time.Second).Build(context.Background(), b.actor(model.RoleUser))
	require.False(t, d.TimedOut)
	require.Empty(t, d.Error)
	require.Equal(t, "Welcome back, Rina!", d.Greeting)
	require.Len(t, d.Cards, 4)

	require.Equal(t, map[string]string{
		"My To-Dos":    "5 today",
		"Avg Duration": "42 min",
		"My Requests":  "3",
		"My Meetings":  "1",
	}, values(d.Cards))
	require.Equal(t, "2 completed today", d.Cards[0].Description)

	require.NotNil(t, d.Chart)
	require.Equal(t, []int{5, 42, 3, 1}, d.Chart.Values)
	require.Len(t, d.QuickActions, 4)

	for _, c := range b.received() {
		require.Equal(t, "Bearer tok-7", c.Header.Get("Authorization"))
	}
}

func TestAdminDashboardToleratesMissingStats(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"GET /users/stats/global": `{"monthly":[{"total":4}]}`,
		"GET /todos/stats/global": `{"monthly":[{"total":20,"completed":11}]}`,
	})

	d := NewDashboardService(time.Second).Build(context.Background(), b.actor(model.RoleAdmin))
	require.Empty(t, d.Error)
	require.Equal(t, map[string]string{
		"New Users (mo)":       "4",
		"Todos Completed (mo)": "11",
		"Assets":               "0",
		"Avg Meeting (min)":    "0",
	}, values(d.Cards))
}

func TestProcurementDashboard(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"GET /procurements/stats": `{"monthly":{"count":[{"total":6}],"amount":[{"total_amount":"1500000.5"}]}}`,
		"GET /assets/stats":       `{"by_status":[{"status":"received","total":3},{"status":"repairing","total":"2"}]}`,
	})

	d := NewDashboardService(time.Second).Build(context.Background(), b.actor(model.RoleProcurement))
	require.Equal(t, map[string]string{
		"Procurements (mo)": "6",
		"Spend (mo)":        "1500000.5",
		"Assets":            "5",
	}, values(d.Cards))
}

func TestDashboardUpstreamFailure(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"GET /requests/mine": `[]`,
		"GET /meetings":      `[]`,
	})
	b.fail("GET /todos/stats", http.StatusInternalServerError, `{"message":"Stats unavailable"}`)

	d := NewDashboardService(time.Second).Build(context.Background(), b.actor(model.RoleUser))
	require.False(t, d.TimedOut)
	require.Equal(t, "Stats unavailable", d.Error)
	require.Empty(t, d.Cards)
}

func TestDashboardCeiling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	actor := Actor{User: &model.User{ID: "1", Name: "Rina", Role: model.RoleUser}, Client: apiclient.New(srv.URL, 5*time.Second)}
	start := time.Now()
	d := NewDashboardService(50*time.Millisecond).Build(context.Background(), actor)
	require.True(t, d.TimedOut)
	require.Empty(t, d.Cards)
	require.Empty(t, d.Error)
	require.Less(t, time.Since(start), time.Second)
}
