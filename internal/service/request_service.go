package service

import (
	"context"
	"net/http"

	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"

	"github.com/shopspring/decimal"
)

type RequestSummary struct {
	Pending            int             `json:"pending"`
	Approved           int             `json:"approved"`
	Rejected           int             `json:"rejected"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
}

func summarizeRequests(requests []model.ItemRequest) interface{} {
	sum := RequestSummary{TotalEstimatedCost: decimal.Zero}
	for _, r := range requests {
		switch r.Status {
		case model.RequestPending:
			sum.Pending++
		case model.RequestApproved, model.RequestProcurement:
			sum.Approved++
		case model.RequestRejected:
			sum.Rejected++
		}
		sum.TotalEstimatedCost = sum.TotalEstimatedCost.Add(r.EstimatedCost)
	}
	return sum
}

func requestConfig(listPath, emptyMessage string) resource.Config[model.ItemRequest] {
	return resource.Config[model.ItemRequest]{
		Kind:         view.KindRequest,
		ListPath:     listPath,
		ItemPath:     "/requests",
		EmptyMessage: emptyMessage,
		SaveFailed:   "Failed to submit",
		ID:           func(r model.ItemRequest) string { return r.ID.String() },
		Status:       func(r model.ItemRequest) string { return r.Status },
		Category:     func(r model.ItemRequest) string { return r.Category },
		CategoryKind: view.KindCategory,
		Search: func(r model.ItemRequest) []string {
			return []string{r.ItemName, r.Reason, r.Category, r.User.DisplayName()}
		},
		Summarize: summarizeRequests,
	}
}

type RequestService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.ItemRequest]
	Create(ctx context.Context, actor Actor, req model.ItemRequestInput) error
	Update(ctx context.Context, actor Actor, id string, req model.ItemRequestInput) error
	Delete(ctx context.Context, actor Actor, id string) error
}

type requestService struct {
	requests *resource.Controller[model.ItemRequest]
	audit    AuditService
}

func NewRequestService(audit AuditService) RequestService {
	return &requestService{
		requests: resource.New(requestConfig("/requests/mine", "No requests yet")),
		audit:    audit,
	}
}

func (s *requestService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.ItemRequest] {
	return s.requests.List(ctx, actor.Client, f)
}

func (s *requestService) Create(ctx context.Context, actor Actor, req model.ItemRequestInput) error {
	if _, err := s.requests.Create(ctx, actor.Client, req); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionCreateRequest, "", req.ItemName, req)
	return nil
}

func (s *requestService) Update(ctx context.Context, actor Actor, id string, req model.ItemRequestInput) error {
	if _, err := s.requests.Update(ctx, actor.Client, id, req); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionUpdateRequest, id, req.ItemName, req)
	return nil
}

func (s *requestService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.requests.Delete(ctx, actor.Client, id); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionDeleteRequest, id, "", nil)
	return nil
}

// PipelineNotifier is told when an approval may have moved items into the procurement pipeline.
type PipelineNotifier interface {
	Refresh()
}

type AdminRequestService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.ItemRequest]
	Approve(ctx context.Context, actor Actor, id string, note model.ReviewNote) error
	Reject(ctx context.Context, actor Actor, id string, note model.ReviewNote) error
	SaveNote(ctx context.Context, actor Actor, id string, note model.ReviewNote) error
}

type adminRequestService struct {
	requests *resource.Controller[model.ItemRequest]
	audit    AuditService
	pipeline PipelineNotifier
}

func NewAdminRequestService(audit AuditService, pipeline PipelineNotifier) AdminRequestService {
	return &adminRequestService{
		requests: resource.New(requestConfig("/requests", "No requests found")),
		audit:    audit,
		pipeline: pipeline,
	}
}

func (s *adminRequestService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.ItemRequest] {
	return s.requests.List(ctx, actor.Client, f)
}

// Approve approves the request; upstream creates the asset as part of it.
func (s *adminRequestService) Approve(ctx context.Context, actor Actor, id string, note model.ReviewNote) error {
	if _, err := s.requests.Action(ctx, actor.Client, id, "approve", http.MethodPatch, note); err != nil {
		return resource.Fail(err, "Failed to approve")
	}
	audit(ctx, s.audit, actor, model.ActionApproveItem, id, "", note)
	if s.pipeline != nil {
		s.pipeline.Refresh()
	}
	return nil
}

func (s *adminRequestService) Reject(ctx context.Context, actor Actor, id string, note model.ReviewNote) error {
	if _, err := s.requests.Action(ctx, actor.Client, id, "reject", http.MethodPatch, note); err != nil {
		return resource.Fail(err, "Failed to reject")
	}
	audit(ctx, s.audit, actor, model.ActionRejectItem, id, "", note)
	return nil
}

// SaveNote has no endpoint of its own upstream: it repeats the decision the request already has,
// reject for rejected requests and approve otherwise, with the new note.
func (s *adminRequestService) SaveNote(ctx context.Context, actor Actor, id string, note model.ReviewNote) error {
	items, err := s.requests.Fetch(ctx, actor.Client)
	if err != nil {
		return resource.Fail(err, "Failed to save note")
	}
	current, ok := s.requests.Find(items, id)
	if !ok {
		return &resource.Error{Status: http.StatusNotFound, Message: "Request not found"}
	}
	action := "approve"
	if current.Status == model.RequestRejected {
		action = "reject"
	}
	if _, err := s.requests.Action(ctx, actor.Client, id, action, http.MethodPatch, note); err != nil {
		return resource.Fail(err, "Failed to save note")
	}
	audit(ctx, s.audit, actor, model.ActionRequestNote, id, current.ItemName, note)
	return nil
}
