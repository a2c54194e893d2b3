package service

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"gaportal/internal/model"
	"gaportal/internal/resource"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type countingNotifier struct {
	refreshed atomic.Int32
}

func (n *countingNotifier) Refresh() {
	n.refreshed.Add(1)
}

const adminRequests = `{"data":[
	{"id":1,"item_name":"Monitor","status":"pending","estimated_cost":"2500000","category":"IT Equipment"},
	{"id":2,"item_name":"Chair","status":"rejected","estimated_cost":750000,"category":"Office Furniture"}
]}`

func TestApproveNotifiesPipeline(t *testing.T) {
	b := newStubBackend(t, map[string]string{"PATCH /requests/1/approve": `{}`})
	notifier := &countingNotifier{}
	s := NewAdminRequestService(newTestAudit(), notifier)

	require.NoError(t, s.Approve(context.Background(), b.actor(model.RoleAdmin), "1", model.ReviewNote{GANote: "ok"}))
	calls := b.find(http.MethodPatch, "/requests/1/approve")
	require.Len(t, calls, 1)
	require.JSONEq(t, `{"ga_note":"ok"}`, calls[0].Body)
	require.EqualValues(t, 1, notifier.refreshed.Load())
}

func TestSaveNoteRepeatsCurrentDecision(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"GET /requests":             adminRequests,
		"PATCH /requests/1/approve": `{}`,
		"PATCH /requests/2/reject":  `{}`,
	})
	s := NewAdminRequestService(newTestAudit(), nil)
	actor := b.actor(model.RoleAdmin)

	require.NoError(t, s.SaveNote(context.Background(), actor, "2", model.ReviewNote{GANote: "budget"}))
	require.Len(t, b.find(http.MethodPatch, "/requests/2/reject"), 1)

	require.NoError(t, s.SaveNote(context.Background(), actor, "1", model.ReviewNote{GANote: "later"}))
	require.Len(t, b.find(http.MethodPatch, "/requests/1/approve"), 1)

	err := s.SaveNote(context.Background(), actor, "99", model.ReviewNote{})
	var failure *resource.Error
	require.ErrorAs(t, err, &failure)
	require.Equal(t, http.StatusNotFound, failure.Status)
}

func TestRequestSummary(t *testing.T) {
	b := newStubBackend(t, map[string]string{"GET /requests": adminRequests})
	s := NewAdminRequestService(newTestAudit(), nil)

	list := s.List(context.Background(), b.actor(model.RoleAdmin), resource.Filter{Search: "monitor"})
	require.Len(t, list.Rows, 1)
	sum, ok := list.Summary.(RequestSummary)
	require.True(t, ok)
	require.Equal(t, 1, sum.Pending)
	require.Equal(t, 1, sum.Rejected)
	require.True(t, decimal.RequireFromString("3250000").Equal(sum.TotalEstimatedCost))
}
