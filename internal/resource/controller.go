package resource

import (
	"context"
	"net/http"
	"strings"

	"gaportal/internal/apiclient"
	"gaportal/internal/view"
)

// Config describes one upstream collection and how its page renders it.
type Config[T any] struct {
	Kind view.Kind

	// ListPath is fetched for the page; ItemPath is the base of per-item calls (ItemPath/{id}).
	ListPath string
	ItemPath string

	EmptyMessage string
	LoadFailed   string
	SaveFailed   string
	DeleteFailed string
	ActionFailed string
	UpdateMethod string
	CreatePath   string

	ID       func(T) string
	Status   func(T) string
	Category func(T) string

	// Display is the status the badge shows when it differs from the one filtered and counted.
	Display func(T) string

	// CategoryKind, when set, renders a badge for the item's category.
	CategoryKind view.Kind

	// Files lists the uploads of an item; Link turns their paths into URLs.
	Files func(T) []view.FileLink

	// Keep drops items the page never shows, before counting.
	Keep func(T) bool

	// Search returns the fields the search box matches against.
	Search    func(T) []string
	Summarize func([]T) interface{}
}

// Filter is the page's search box and dropdowns. "" and "all" mean no filter.
type Filter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Category string `form:"category"`
}

// Controller runs the list/create/update/delete cycle every portal page shares.
// It holds no session state; each call gets the caller's client.
type Controller[T any] struct {
	cfg Config[T]
}

func New[T any](cfg Config[T]) *Controller[T] {
	if cfg.ItemPath == "" {
		cfg.ItemPath = cfg.ListPath
	}
	if cfg.CreatePath == "" {
		cfg.CreatePath = cfg.ItemPath
	}
	if cfg.UpdateMethod == "" {
		cfg.UpdateMethod = http.MethodPatch
	}
	if cfg.LoadFailed == "" {
		cfg.LoadFailed = "Failed to load"
	}
	if cfg.SaveFailed == "" {
		cfg.SaveFailed = "Failed to save"
	}
	if cfg.DeleteFailed == "" {
		cfg.DeleteFailed = "Failed to delete"
	}
	if cfg.ActionFailed == "" {
		cfg.ActionFailed = "Action failed"
	}
	return &Controller[T]{cfg: cfg}
}

func (c *Controller[T]) Config() Config[T] {
	return c.cfg
}

// Fetch loads the collection, minus what Keep rejects.
func (c *Controller[T]) Fetch(ctx context.Context, client *apiclient.Client) ([]T, error) {
	items, err := apiclient.GetList[T](ctx, client, c.cfg.ListPath)
	if err != nil || c.cfg.Keep == nil {
		return items, err
	}
	kept := items[:0]
	for _, item := range items {
		if c.cfg.Keep(item) {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// List fetches and renders the page. A failed load is reported in the view, not as an error.
func (c *Controller[T]) List(ctx context.Context, client *apiclient.Client, f Filter) view.List[T] {
	items, err := c.Fetch(ctx, client)
	if err != nil {
		return view.Failed[T](apiclient.MessageOr(err, c.cfg.LoadFailed))
	}
	return c.Link(c.Render(items, f), client)
}

// Render filters items and builds the page. Counts and Summary always cover the unfiltered list.
func (c *Controller[T]) Render(items []T, f Filter) view.List[T] {
	out := view.List[T]{Rows: []view.Row[T]{}, Counts: map[string]int{}, Total: len(items)}
	for _, item := range items {
		status := ""
		if c.cfg.Status != nil {
			status = c.cfg.Status(item)
			out.Counts[status]++
		}
		if !c.matches(item, status, f) {
			continue
		}
		out.Rows = append(out.Rows, c.row(item, status))
	}
	if c.cfg.Summarize != nil {
		out.Summary = c.cfg.Summarize(items)
	}
	if len(out.Rows) == 0 {
		out.Empty = true
		out.EmptyMessage = c.cfg.EmptyMessage
	}
	return out
}

func (c *Controller[T]) row(item T, status string) view.Row[T] {
	if c.cfg.Display != nil {
		status = c.cfg.Display(item)
	}
	row := view.Row[T]{Item: item, Badge: view.Status(c.cfg.Kind, status)}
	if c.cfg.CategoryKind != "" && c.cfg.Category != nil {
		if category := c.cfg.Category(item); category != "" {
			badge := view.Status(c.cfg.CategoryKind, category)
			row.Category = &badge
		}
	}
	if c.cfg.Files != nil {
		for _, file := range c.cfg.Files(item) {
			if file.Path != "" {
				row.Files = append(row.Files, file)
			}
		}
	}
	return row
}

// Link resolves the storage path of every file on the page against client's base URL.
func (c *Controller[T]) Link(page view.List[T], client *apiclient.Client) view.List[T] {
	for i := range page.Rows {
		for j := range page.Rows[i].Files {
			file := &page.Rows[i].Files[j]
			file.URL = client.FileURL(file.Path)
		}
	}
	return page
}

func (c *Controller[T]) matches(item T, status string, f Filter) bool {
	if active(f.Status) && c.cfg.Status != nil && status != f.Status {
		return false
	}
	if active(f.Category) && c.cfg.Category != nil && c.cfg.Category(item) != f.Category {
		return false
	}
	if f.Search == "" || c.cfg.Search == nil {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	for _, field := range c.cfg.Search(item) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func active(v string) bool {
	return v != "" && v != "all"
}

func (c *Controller[T]) Create(ctx context.Context, client *apiclient.Client, body interface{}) (*apiclient.Response, error) {
	resp, err := client.Post(ctx, c.cfg.CreatePath, body)
	if err != nil {
		return nil, Fail(err, c.cfg.SaveFailed)
	}
	return resp, nil
}

func (c *Controller[T]) Update(ctx context.Context, client *apiclient.Client, id string, body interface{}) (*apiclient.Response, error) {
	resp, err := client.Request(ctx, c.itemPath(id), apiclient.Options{Method: c.cfg.UpdateMethod, Body: body})
	if err != nil {
		return nil, Fail(err, c.cfg.SaveFailed)
	}
	return resp, nil
}

func (c *Controller[T]) Delete(ctx context.Context, client *apiclient.Client, id string) error {
	if _, err := client.Delete(ctx, c.itemPath(id)); err != nil {
		return Fail(err, c.cfg.DeleteFailed)
	}
	return nil
}

// Action calls a sub-endpoint of one item, e.g. PATCH /todos/{id}/start.
func (c *Controller[T]) Action(ctx context.Context, client *apiclient.Client, id, action, method string, body interface{}) (*apiclient.Response, error) {
	resp, err := client.Request(ctx, c.itemPath(id)+"/"+action, apiclient.Options{Method: method, Body: body})
	if err != nil {
		return nil, Fail(err, c.cfg.ActionFailed)
	}
	return resp, nil
}

func (c *Controller[T]) itemPath(id string) string {
	return c.cfg.ItemPath + "/" + id
}

// Find returns the item with the given id from a fetched list.
func (c *Controller[T]) Find(items []T, id string) (T, bool) {
	var zero T
	if c.cfg.ID == nil {
		return zero, false
	}
	for _, item := range items {
		if c.cfg.ID(item) == id {
			return item, true
		}
	}
	return zero, false
}
