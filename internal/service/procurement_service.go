package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const purchaseDateLayout = "2006-01-02"

// pipelineStatuses are the request statuses the procurement page follows.
var pipelineStatuses = map[string]bool{
	model.RequestProcurement: true,
	model.RequestNotReceived: true,
	model.RequestCompleted:   true,
}

// DisplayStatus prefers the linked asset's progress over the request's own status.
func DisplayStatus(r model.ItemRequest, asset *model.Asset) string {
	if asset == nil {
		return r.Status
	}
	switch asset.Status {
	case model.AssetReceived, model.AssetRepairing, model.AssetReplacing, model.AssetNotReceived:
		return asset.Status
	}
	return r.Status
}

// BuildPipeline keeps the requests still in procurement and links each to the asset created for it.
func BuildPipeline(requests []model.ItemRequest, assets []model.Asset) []model.PipelineItem {
	byRequest := make(map[model.ID]*model.Asset, len(assets))
	for i := range assets {
		if assets[i].RequestItemsID != "" {
			byRequest[assets[i].RequestItemsID] = &assets[i]
		}
	}
	items := []model.PipelineItem{}
	for _, r := range requests {
		if !pipelineStatuses[r.Status] {
			continue
		}
		asset := byRequest[r.ID]
		items = append(items, model.PipelineItem{ItemRequest: r, Asset: asset, DisplayStatus: DisplayStatus(r, asset)})
	}
	return items
}

// FetchPipeline loads approved requests and assets side by side.
func FetchPipeline(ctx context.Context, client *apiclient.Client) ([]model.PipelineItem, error) {
	var (
		requests []model.ItemRequest
		assets   []model.Asset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		requests, err = apiclient.GetList[model.ItemRequest](gctx, client, "/procurements/approved-requests")
		return err
	})
	g.Go(func() (err error) {
		assets, err = apiclient.GetList[model.Asset](gctx, client, "/assets")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BuildPipeline(requests, assets), nil
}

// RecordRequest is the full procurement form.
type RecordRequest struct {
	RequestItemsID model.ID        `json:"request_items_id" binding:"required"`
	PurchaseDate   string          `json:"purchase_date" binding:"required"`
	ActualCost     decimal.Decimal `json:"actual_cost"`
	Notes          string          `json:"notes"`
}

// PipelineMessage is what a procurement websocket receives.
type PipelineMessage struct {
	Type  string               `json:"type"`
	Items []model.PipelineItem `json:"items"`
}

// Publisher delivers a message to every socket a user has open.
type Publisher interface {
	SendTo(userID string, message []byte)
}

type ProcurementService interface {
	Pipeline(ctx context.Context, actor Actor, f resource.Filter) view.List[model.PipelineItem]
	Snapshot(ctx context.Context, actor Actor) ([]model.PipelineItem, error)
	Start(ctx context.Context, actor Actor, id string) (view.List[model.PipelineItem], error)
	Complete(ctx context.Context, actor Actor, id string) (view.List[model.PipelineItem], error)
	Record(ctx context.Context, actor Actor, req RecordRequest) error
	Records(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Procurement]
	Stats(ctx context.Context, actor Actor) (model.ProcurementStats, error)
	// Hold keeps the user's pipeline state alive until the returned release is called.
	Hold(actor Actor) (release func())
}

// pipelineEntry is one user's pipeline state and the number of sockets holding it.
type pipelineEntry struct {
	store   *resource.Store[[]model.PipelineItem]
	holders int
}

type procurementService struct {
	pipeline  *resource.Controller[model.PipelineItem]
	records   *resource.Controller[model.Procurement]
	audit     AuditService
	publisher Publisher
	now       Clock

	mu     sync.Mutex
	stores map[string]*pipelineEntry
}

func NewProcurementService(audit AuditService, publisher Publisher, now Clock) ProcurementService {
	if now == nil {
		now = time.Now
	}
	return &procurementService{
		pipeline: resource.New(resource.Config[model.PipelineItem]{
			Kind:         view.KindPipeline,
			EmptyMessage: "No requests in the procurement pipeline",
			ID:           func(p model.PipelineItem) string { return p.ID.String() },
			Status:       func(p model.PipelineItem) string { return p.Status },
			Display:      func(p model.PipelineItem) string { return p.DisplayStatus },
			CategoryKind: view.KindCategory,
			Category: func(p model.PipelineItem) string {
				if p.Category == "" {
					return "General"
				}
				return p.Category
			},
			Search: func(p model.PipelineItem) []string {
				return []string{p.ItemName, p.Reason, "User " + p.UserID.String()}
			},
		}),
		records: resource.New(resource.Config[model.Procurement]{
			Kind:         view.KindPipeline,
			ListPath:     "/procurements",
			EmptyMessage: "No procurements recorded",
			SaveFailed:   "Failed to record procurement",
			ID:           func(p model.Procurement) string { return p.ID.String() },
			Status:       func(model.Procurement) string { return model.RequestCompleted },
			Search: func(p model.Procurement) []string {
				if p.Request == nil {
					return []string{p.Notes}
				}
				return []string{p.Request.ItemName, p.Request.Reason, p.Notes}
			},
		}),
		audit:     audit,
		publisher: publisher,
		now:       now,
		stores:    map[string]*pipelineEntry{},
	}
}

func (s *procurementService) entry(key string) *pipelineEntry {
	e, ok := s.stores[key]
	if !ok {
		e = &pipelineEntry{store: resource.NewStore[[]model.PipelineItem]()}
		s.stores[key] = e
	}
	return e
}

func (s *procurementService) store(actor Actor) *resource.Store[[]model.PipelineItem] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry(actor.userID()).store
}

// settle forgets the user's pipeline state once no socket holds it.
func (s *procurementService) settle(actor Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := actor.userID()
	if e, ok := s.stores[key]; ok && e.holders <= 0 {
		delete(s.stores, key)
	}
}

func (s *procurementService) Hold(actor Actor) func() {
	s.mu.Lock()
	s.entry(actor.userID()).holders++
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if e, ok := s.stores[actor.userID()]; ok {
				e.holders--
			}
			s.mu.Unlock()
			s.settle(actor)
		})
	}
}

func (s *procurementService) fetcher(actor Actor) func(context.Context) ([]model.PipelineItem, error) {
	return func(ctx context.Context) ([]model.PipelineItem, error) {
		return FetchPipeline(ctx, actor.Client)
	}
}

// Snapshot loads the pipeline into the user's store and returns what the store holds afterwards.
func (s *procurementService) Snapshot(ctx context.Context, actor Actor) ([]model.PipelineItem, error) {
	items, _, err := s.store(actor).Load(ctx, s.fetcher(actor))
	return items, err
}

func (s *procurementService) Pipeline(ctx context.Context, actor Actor, f resource.Filter) view.List[model.PipelineItem] {
	items, err := s.Snapshot(ctx, actor)
	s.settle(actor)
	if err != nil {
		return view.Failed[model.PipelineItem](apiclient.MessageOr(err, "Failed to load"))
	}
	return s.pipeline.Render(items, f)
}

func (s *procurementService) current(ctx context.Context, actor Actor) ([]model.PipelineItem, error) {
	if items, loaded := s.store(actor).Snapshot(); loaded {
		return items, nil
	}
	return s.Snapshot(ctx, actor)
}

// Start records a one-click purchase from the request's own data: today, its estimated cost, its reason.
// The item shows as not_received at once; a background fetch then replaces the patched pipeline.
func (s *procurementService) Start(ctx context.Context, actor Actor, id string) (view.List[model.PipelineItem], error) {
	defer s.settle(actor)
	items, err := s.current(ctx, actor)
	if err != nil {
		return view.List[model.PipelineItem]{}, resource.Fail(err, "Failed to load")
	}
	item, ok := s.pipeline.Find(items, id)
	if !ok {
		return view.List[model.PipelineItem]{}, &resource.Error{Status: http.StatusNotFound, Message: "Request not found"}
	}

	payload := model.ProcurementInput{
		RequestItemsID: item.ID,
		PurchaseDate:   s.now().Format(purchaseDateLayout),
		Amount:         item.EstimatedCost,
		Notes:          item.Reason,
	}
	if _, err := s.records.Create(ctx, actor.Client, payload); err != nil {
		return view.List[model.PipelineItem]{}, resource.Fail(err, "Failed to start procurement")
	}
	audit(ctx, s.audit, actor, model.ActionProcurement, id, item.ItemName, payload)

	patched := s.patchStatus(ctx, actor, id, model.RequestNotReceived, false)
	return s.pipeline.Render(patched, resource.Filter{}), nil
}

// Complete marks a received item as completed for this user only; nothing is sent upstream.
func (s *procurementService) Complete(ctx context.Context, actor Actor, id string) (view.List[model.PipelineItem], error) {
	defer s.settle(actor)
	items, err := s.current(ctx, actor)
	if err != nil {
		return view.List[model.PipelineItem]{}, resource.Fail(err, "Failed to load")
	}
	if _, ok := s.pipeline.Find(items, id); !ok {
		return view.List[model.PipelineItem]{}, &resource.Error{Status: http.StatusNotFound, Message: "Request not found"}
	}
	patched := s.patchStatus(ctx, actor, id, model.RequestCompleted, true)
	return s.pipeline.Render(patched, resource.Filter{}), nil
}

func (s *procurementService) patchStatus(ctx context.Context, actor Actor, id, status string, forceDisplay bool) []model.PipelineItem {
	st := s.store(actor)
	patched := st.Patch(func(items []model.PipelineItem) []model.PipelineItem {
		out := make([]model.PipelineItem, len(items))
		copy(out, items)
		for i := range out {
			if out[i].ID.String() != id {
				continue
			}
			out[i].Status = status
			if forceDisplay {
				out[i].DisplayStatus = status
			} else {
				out[i].DisplayStatus = DisplayStatus(out[i].ItemRequest, out[i].Asset)
			}
		}
		return out
	})
	st.Reconcile(ctx, s.fetcher(actor), func(items []model.PipelineItem, err error) {
		defer s.settle(actor)
		if err != nil {
			log.WithError(err).Debug("pipeline reconcile failed, keeping patched state")
			return
		}
		s.publish(actor, items)
	})
	return patched
}

func (s *procurementService) publish(actor Actor, items []model.PipelineItem) {
	if s.publisher == nil {
		return
	}
	msg, err := json.Marshal(PipelineMessage{Type: "pipeline", Items: items})
	if err != nil {
		return
	}
	s.publisher.SendTo(actor.userID(), msg)
}

// Record saves a purchase entered through the full form.
func (s *procurementService) Record(ctx context.Context, actor Actor, req RecordRequest) error {
	payload := model.ProcurementInput{
		RequestItemsID: req.RequestItemsID,
		PurchaseDate:   req.PurchaseDate,
		Amount:         req.ActualCost,
		Notes:          req.Notes,
	}
	if _, err := s.records.Create(ctx, actor.Client, payload); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionProcurement, req.RequestItemsID.String(), "", payload)
	return nil
}

func (s *procurementService) Records(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Procurement] {
	return s.records.List(ctx, actor.Client, f)
}

func (s *procurementService) Stats(ctx context.Context, actor Actor) (model.ProcurementStats, error) {
	stats, err := apiclient.GetJSON[model.ProcurementStats](ctx, actor.Client, "/procurements/stats")
	if err != nil {
		return stats, resource.Fail(err, "Failed to load")
	}
	return stats, nil
}
