package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/view"

	"github.com/stretchr/testify/require"
)

type item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

func newItemController(listPath string) *Controller[item] {
	return New(Config[item]{
		Kind:         view.KindRequest,
		ListPath:     listPath,
		ItemPath:     "/items",
		EmptyMessage: "No items found",
		LoadFailed:   "Failed to load items",
		ID:           func(i item) string { return i.ID },
		Status:       func(i item) string { return i.Status },
		Category:     func(i item) string { return i.Category },
		Search:       func(i item) []string { return []string{i.Name} },
	})
}

func TestRenderFilters(t *testing.T) {
	c := newItemController("/items")
	items := []item{
		{ID: "1", Name: "Laptop", Status: "pending", Category: "IT Equipment"},
		{ID: "2", Name: "Desk", Status: "approved", Category: "Office Furniture"},
		{ID: "3", Name: "Laptop stand", Status: "approved", Category: "IT Equipment"},
	}

	page := c.Render(items, Filter{Search: "laptop", Status: "all"})
	require.Len(t, page.Rows, 2)
	require.Equal(t, 3, page.Total)
	require.Equal(t, map[string]int{"pending": 1, "approved": 2}, page.Counts)
	require.False(t, page.Empty)

	page = c.Render(items, Filter{Status: "approved", Category: "IT Equipment"})
	require.Len(t, page.Rows, 1)
	require.Equal(t, "3", page.Rows[0].Item.ID)
	require.Equal(t, "Approved", page.Rows[0].Badge.Label)

	page = c.Render(items, Filter{Search: "chair"})
	require.True(t, page.Empty)
	require.Equal(t, "No items found", page.EmptyMessage)
}

func TestListEmptyUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := newItemController("/items")
	page := c.List(context.Background(), apiclient.New(srv.URL, time.Second), Filter{})
	require.True(t, page.Empty)
	require.Equal(t, "No items found", page.EmptyMessage)
	require.Empty(t, page.Error)
}

func TestListFailureShowsBanner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Database unavailable"}`))
	}))
	defer srv.Close()

	c := newItemController("/items")
	page := c.List(context.Background(), apiclient.New(srv.URL, time.Second), Filter{})
	require.Equal(t, "Database unavailable", page.Error)
	require.Empty(t, page.Rows)

	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer plain.Close()
	page = c.List(context.Background(), apiclient.New(plain.URL, time.Second), Filter{})
	require.Equal(t, "Failed to load items", page.Error)
}

func TestMutationsHitItemPaths(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/items/9" && r.Method == http.MethodDelete {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Not yours"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newItemController("/items/mine")
	client := apiclient.New(srv.URL, time.Second)
	ctx := context.Background()

	_, err := c.Create(ctx, client, map[string]string{"name": "Desk"})
	require.NoError(t, err)
	_, err = c.Update(ctx, client, "4", map[string]string{"name": "Chair"})
	require.NoError(t, err)
	_, err = c.Action(ctx, client, "4", "approve", http.MethodPatch, nil)
	require.NoError(t, err)

	err = c.Delete(ctx, client, "9")
	require.Error(t, err)
	var failure *Error
	require.ErrorAs(t, err, &failure)
	require.Equal(t, http.StatusForbidden, failure.Status)
	require.Equal(t, "Not yours", failure.Message)

	require.Equal(t, []string{
		"POST /items",
		"PATCH /items/4",
		"PATCH /items/4/approve",
		"DELETE /items/9",
	}, calls)
}

func TestFailWithoutUpstreamMessage(t *testing.T) {
	err := Fail(context.DeadlineExceeded, "Failed to save")
	var failure *Error
	require.ErrorAs(t, err, &failure)
	require.Equal(t, http.StatusBadGateway, failure.Status)
	require.Equal(t, "Failed to save", failure.Error())
}

func TestFind(t *testing.T) {
	c := newItemController("/items")
	found, ok := c.Find([]item{{ID: "1"}, {ID: "2", Name: "Desk"}}, "2")
	require.True(t, ok)
	require.Equal(t, "Desk", found.Name)

	_, ok = c.Find(nil, "2")
	require.False(t, ok)
}
