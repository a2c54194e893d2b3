package service

import (
	"context"
	"net/http"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"
)

func assetConfig(listPath, emptyMessage string) resource.Config[model.Asset] {
	return resource.Config[model.Asset]{
		Kind:         view.KindAsset,
		ListPath:     listPath,
		ItemPath:     "/assets",
		EmptyMessage: emptyMessage,
		LoadFailed:   "Failed to load assets",
		ID:           func(a model.Asset) string { return a.ID.String() },
		Status:       func(a model.Asset) string { return a.Status },
		Category:     func(a model.Asset) string { return a.Category },
		CategoryKind: view.KindCategory,
		Files: func(a model.Asset) []view.FileLink {
			return []view.FileLink{
				{Field: "receipt_proof", Path: a.ReceiptProof},
				{Field: "repair_proof", Path: a.RepairProof},
			}
		},
		Search: func(a model.Asset) []string {
			return []string{a.DisplayName(), a.AssetCode, a.Category}
		},
	}
}

type AssetSummary struct {
	Pending        int `json:"pending"`
	Received       int `json:"received"`
	NeedsAttention int `json:"needs_attention"`
}

// AssetStatusUpdate is the requester's report on an asset. Proofs are optional files.
type AssetStatusUpdate struct {
	Status       string    `form:"status" binding:"required,oneof=received needs_repair needs_replacement"`
	Notes        string    `form:"notes"`
	ReceiptProof *Evidence `form:"-"`
	RepairProof  *Evidence `form:"-"`
}

type AssetService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Asset]
	UpdateStatus(ctx context.Context, actor Actor, id string, req AssetStatusUpdate) error
}

type assetService struct {
	assets *resource.Controller[model.Asset]
	audit  AuditService
}

func NewAssetService(audit AuditService) AssetService {
	cfg := assetConfig("/assets/mine", "No assets found")
	cfg.Summarize = func(assets []model.Asset) interface{} {
		var sum AssetSummary
		for _, a := range assets {
			switch a.Status {
			case model.AssetNotReceived:
				sum.Pending++
			case model.AssetReceived:
				sum.Received++
			case model.AssetNeedsRepair, model.AssetNeedsReplacement:
				sum.NeedsAttention++
			}
		}
		return sum
	}
	return &assetService{assets: resource.New(cfg), audit: audit}
}

func (s *assetService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Asset] {
	return s.assets.List(ctx, actor.Client, f)
}

// UpdateStatus sends the report as multipart, attaching only the proofs that were given.
func (s *assetService) UpdateStatus(ctx context.Context, actor Actor, id string, req AssetStatusUpdate) error {
	form := apiclient.NewForm().Set("status", req.Status).Set("notes", req.Notes)
	if req.ReceiptProof != nil {
		form.AddFile("receipt_proof", req.ReceiptProof.Filename, req.ReceiptProof.Content)
	}
	if req.RepairProof != nil {
		form.AddFile("repair_proof", req.RepairProof.Filename, req.RepairProof.Content)
	}
	if _, err := s.assets.Action(ctx, actor.Client, id, "user-status", http.MethodPatch, form); err != nil {
		return resource.Fail(err, "Failed to update asset status")
	}
	audit(ctx, s.audit, actor, model.ActionAssetStatus, id, "", map[string]string{"status": req.Status, "notes": req.Notes})
	return nil
}

type AdminAssetService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Asset]
	Approve(ctx context.Context, actor Actor, id string) error
	Reject(ctx context.Context, actor Actor, id string) error
}

type adminAssetService struct {
	assets *resource.Controller[model.Asset]
	audit  AuditService
}

func NewAdminAssetService(audit AuditService) AdminAssetService {
	return &adminAssetService{assets: resource.New(assetConfig("/assets", "No assets found")), audit: audit}
}

func (s *adminAssetService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Asset] {
	return s.assets.List(ctx, actor.Client, f)
}

// Approve confirms the requester's receipt.
func (s *adminAssetService) Approve(ctx context.Context, actor Actor, id string) error {
	return s.setStatus(ctx, actor, id, model.AssetReceived, "Failed to approve asset")
}

// Reject sends the asset back for replacement.
func (s *adminAssetService) Reject(ctx context.Context, actor Actor, id string) error {
	return s.setStatus(ctx, actor, id, model.AssetNeedsReplacement, "Failed to reject asset")
}

func (s *adminAssetService) setStatus(ctx context.Context, actor Actor, id, status, fallback string) error {
	body := map[string]string{"status": status}
	if _, err := s.assets.Action(ctx, actor.Client, id, "status", http.MethodPatch, body); err != nil {
		return resource.Fail(err, fallback)
	}
	audit(ctx, s.audit, actor, model.ActionAssetStatus, id, "", body)
	return nil
}

// procurementAssetStatuses are the assets procurement still has work on.
var procurementAssetStatuses = map[string]bool{
	model.AssetProcurement:      true,
	model.AssetRepairing:        true,
	model.AssetReplacing:        true,
	model.AssetNeedsRepair:      true,
	model.AssetNeedsReplacement: true,
}

type ProcurementAssetService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Asset]
	MarkRepairing(ctx context.Context, actor Actor, id string) error
	MarkReplacing(ctx context.Context, actor Actor, id string) error
}

type procurementAssetService struct {
	assets *resource.Controller[model.Asset]
	audit  AuditService
}

func NewProcurementAssetService(audit AuditService) ProcurementAssetService {
	cfg := assetConfig("/assets", "No assets need attention")
	cfg.Keep = func(a model.Asset) bool { return procurementAssetStatuses[a.Status] }
	return &procurementAssetService{assets: resource.New(cfg), audit: audit}
}

func (s *procurementAssetService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Asset] {
	return s.assets.List(ctx, actor.Client, f)
}

func (s *procurementAssetService) MarkRepairing(ctx context.Context, actor Actor, id string) error {
	return s.mark(ctx, actor, id, model.AssetRepairing, "Failed to mark as repaired")
}

func (s *procurementAssetService) MarkReplacing(ctx context.Context, actor Actor, id string) error {
	return s.mark(ctx, actor, id, model.AssetReplacing, "Failed to mark as replaced")
}

func (s *procurementAssetService) mark(ctx context.Context, actor Actor, id, status, fallback string) error {
	body := map[string]string{"status": status}
	if _, err := s.assets.Action(ctx, actor.Client, id, "user-status", http.MethodPost, body); err != nil {
		return resource.Fail(err, fallback)
	}
	audit(ctx, s.audit, actor, model.ActionAssetStatus, id, "", body)
	return nil
}
