package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"gaportal/internal/model"
	"gaportal/internal/resource"

	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	userID  string
	message []byte
}

type chanPublisher chan sentMessage

func (p chanPublisher) SendTo(userID string, message []byte) {
	p <- sentMessage{userID: userID, message: message}
}

func TestDisplayStatus(t *testing.T) {
	r := model.ItemRequest{Status: model.RequestProcurement}
	require.Equal(t, model.RequestProcurement, DisplayStatus(r, nil))
	require.Equal(t, model.AssetRepairing, DisplayStatus(r, &model.Asset{Status: model.AssetRepairing}))
	require.Equal(t, model.AssetReceived, DisplayStatus(r, &model.Asset{Status: model.AssetReceived}))
	require.Equal(t, model.RequestProcurement, DisplayStatus(r, &model.Asset{Status: model.AssetNeedsRepair}))
}

func TestBuildPipeline(t *testing.T) {
	requests := []model.ItemRequest{
		{ID: "1", ItemName: "Laptop", Status: model.RequestProcurement},
		{ID: "2", ItemName: "Desk", Status: model.RequestApproved},
		{ID: "3", ItemName: "Phone", Status: model.RequestNotReceived},
	}
	assets := []model.Asset{
		{ID: "a1", RequestItemsID: "3", Status: model.AssetReceived},
		{ID: "a2", Status: model.AssetReceived},
	}

	items := BuildPipeline(requests, assets)
	require.Len(t, items, 2)
	require.Equal(t, model.ID("1"), items[0].ID)
	require.Nil(t, items[0].Asset)
	require.Equal(t, model.RequestProcurement, items[0].DisplayStatus)
	require.Equal(t, model.ID("a1"), items[1].Asset.ID)
	require.Equal(t, model.AssetReceived, items[1].DisplayStatus)

	require.NotNil(t, BuildPipeline(nil, nil))
}

func newPipelineBackend(t *testing.T) *stubBackend {
	return newStubBackend(t, map[string]string{
		"GET /procurements/approved-requests": `[
			{"id":5,"item_name":"Laptop","status":"procurement","estimated_cost":"12000000","category":"IT Equipment","reason":"New hire"},
			{"id":6,"item_name":"Desk","status":"approved","estimated_cost":"900000","category":"Office Furniture"}
		]`,
		"GET /assets":        `[]`,
		"POST /procurements": `{"id":1}`,
	})
}

func TestStartProcurement(t *testing.T) {
	b := newPipelineBackend(t)
	published := make(chanPublisher, 4)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	s := NewProcurementService(newTestAudit(), published, fixedClock(now))
	actor := b.actor(model.RoleProcurement)

	list, err := s.Start(context.Background(), actor, "5")
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	require.Equal(t, model.RequestNotReceived, list.Rows[0].Item.DisplayStatus)

	posts := b.find(http.MethodPost, "/procurements")
	require.Len(t, posts, 1)
	require.JSONEq(t, `{"request_items_id":5,"purchase_date":"2026-03-10","amount":"12000000","notes":"New hire"}`, posts[0].Body)

	select {
	case msg := <-published:
		require.Equal(t, "7", msg.userID)
		var decoded PipelineMessage
		require.NoError(t, json.Unmarshal(msg.message, &decoded))
		require.Equal(t, "pipeline", decoded.Type)
		require.Len(t, decoded.Items, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("reconciled pipeline was not published")
	}
}

func TestStartUnknownRequest(t *testing.T) {
	b := newPipelineBackend(t)
	s := NewProcurementService(newTestAudit(), nil, nil)

	_, err := s.Start(context.Background(), b.actor(model.RoleProcurement), "6")
	var failure *resource.Error
	require.ErrorAs(t, err, &failure)
	require.Equal(t, http.StatusNotFound, failure.Status)
	require.Empty(t, b.find(http.MethodPost, "/procurements"))
}

func TestCompleteIsLocal(t *testing.T) {
	b := newPipelineBackend(t)
	s := NewProcurementService(newTestAudit(), nil, nil)
	actor := b.actor(model.RoleProcurement)

	list, err := s.Complete(context.Background(), actor, "5")
	require.NoError(t, err)
	require.Equal(t, model.RequestCompleted, list.Rows[0].Item.DisplayStatus)
	require.Empty(t, b.find(http.MethodPost, "/procurements"))
	for _, c := range b.received() {
		require.Equal(t, http.MethodGet, c.Method)
	}
}

func TestPipelineFilters(t *testing.T) {
	b := newPipelineBackend(t)
	s := NewProcurementService(newTestAudit(), nil, nil)

	list := s.Pipeline(context.Background(), b.actor(model.RoleProcurement), resource.Filter{Search: "user 7"})
	require.True(t, list.Empty)

	list = s.Pipeline(context.Background(), b.actor(model.RoleProcurement), resource.Filter{Category: "IT Equipment"})
	require.Len(t, list.Rows, 1)
	require.Equal(t, map[string]int{model.RequestProcurement: 1}, list.Counts)
}

func TestPipelineFilterUsesRequestStatus(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"GET /procurements/approved-requests": `[
			{"id":5,"item_name":"Laptop","status":"not_received","category":"IT Equipment"},
			{"id":6,"item_name":"Chair","status":"procurement","category":"Office Furniture"}
		]`,
		"GET /assets": `[{"id":"a1","request_items_id":5,"status":"received"}]`,
	})
	s := NewProcurementService(newTestAudit(), nil, nil)

	list := s.Pipeline(context.Background(), b.actor(model.RoleProcurement), resource.Filter{Status: model.RequestNotReceived})
	require.Len(t, list.Rows, 1)
	require.Equal(t, "Laptop", list.Rows[0].Item.ItemName)
	require.Equal(t, "Received", list.Rows[0].Badge.Label)
	require.Equal(t, "IT Equipment", list.Rows[0].Category.Label)
	require.Equal(t, map[string]int{model.RequestNotReceived: 1, model.RequestProcurement: 1}, list.Counts)
}

func TestPipelineStateLivesOnlyWhileHeld(t *testing.T) {
	b := newPipelineBackend(t)
	s := NewProcurementService(newTestAudit(), nil, nil)
	impl := s.(*procurementService)
	actor := b.actor(model.RoleProcurement)
	users := func() int {
		impl.mu.Lock()
		defer impl.mu.Unlock()
		return len(impl.stores)
	}

	s.Pipeline(context.Background(), actor, resource.Filter{})
	require.Equal(t, 0, users())

	release := s.Hold(actor)
	s.Pipeline(context.Background(), actor, resource.Filter{})
	require.Equal(t, 1, users())
	_, loaded := impl.store(actor).Snapshot()
	require.True(t, loaded)

	release()
	release()
	require.Equal(t, 0, users())
}
