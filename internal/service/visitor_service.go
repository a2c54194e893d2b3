package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"gaportal/internal/apiclient"
	xlsexport "gaportal/internal/export/xls"
	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"
	"gaportal/pkg/pagination"
)

// exportPageLimit bounds how many upstream pages one export walks.
const exportPageLimit = 50

type VisitorSummary struct {
	InBuilding int `json:"in_building"`
	Today      int `json:"today"`
	ThisMonth  int `json:"this_month"`
}

// VisitorForm is a registration or an edit. On edit, nil fields and images are left unchanged upstream.
type VisitorForm struct {
	Name      *string
	MeetWith  *string
	Purpose   *string
	Origin    *string
	KTPImage  *Evidence
	FaceImage *Evidence
}

type VisitorService interface {
	List(ctx context.Context, actor Actor, page pagination.Params, f resource.Filter) view.List[model.Visitor]
	Create(ctx context.Context, actor Actor, form VisitorForm) error
	Update(ctx context.Context, actor Actor, id string, form VisitorForm) error
	CheckOut(ctx context.Context, actor Actor, id string) error
	Delete(ctx context.Context, actor Actor, id string) error
	Export(ctx context.Context, actor Actor) (*bytes.Buffer, error)
}

type visitorService struct {
	visitors *resource.Controller[model.Visitor]
	exporter xlsexport.Provider
	audit    AuditService
	now      Clock
}

func NewVisitorService(audit AuditService, exporter xlsexport.Provider, now Clock) VisitorService {
	if now == nil {
		now = time.Now
	}
	s := &visitorService{exporter: exporter, audit: audit, now: now}
	s.visitors = resource.New(resource.Config[model.Visitor]{
		Kind:         view.KindVisitor,
		ListPath:     "/visitors",
		EmptyMessage: "No visitors found",
		SaveFailed:   "Failed to record visitor",
		UpdateMethod: http.MethodPost,
		ID:           func(v model.Visitor) string { return v.ID.String() },
		Status:       func(v model.Visitor) string { return v.State() },
		Files: func(v model.Visitor) []view.FileLink {
			return []view.FileLink{
				{Field: "ktp_image", Path: v.KTPImage},
				{Field: "face_image", Path: v.FaceImage},
			}
		},
		Search: func(v model.Visitor) []string {
			return []string{v.Name, v.Origin, v.Host()}
		},
		Summarize: func(visitors []model.Visitor) interface{} { return s.summarize(visitors) },
	})
	return s
}

func (s *visitorService) summarize(visitors []model.Visitor) VisitorSummary {
	now := s.now()
	var sum VisitorSummary
	for _, v := range visitors {
		if v.State() == model.VisitorCheckedIn {
			sum.InBuilding++
		}
		checkIn, ok := model.ParseTime(v.CheckIn, now.Location())
		if !ok {
			continue
		}
		if sameDay(checkIn, now) {
			sum.Today++
		}
		if sameMonth(checkIn, now) {
			sum.ThisMonth++
		}
	}
	return sum
}

// List shows one upstream page; search and status filter apply within that page.
func (s *visitorService) List(ctx context.Context, actor Actor, p pagination.Params, f resource.Filter) view.List[model.Visitor] {
	page, err := apiclient.GetPage[model.Visitor](ctx, actor.Client, "/visitors?"+p.Query())
	if err != nil {
		return view.Failed[model.Visitor](apiclient.MessageOr(err, "Failed to load"))
	}
	out := s.visitors.Link(s.visitors.Render(page.Data, f), actor.Client)
	out.Page = view.NewPage(page.CurrentPage, page.LastPage, page.PerPage, page.Total)
	return out
}

func (form VisitorForm) encode(creating bool) *apiclient.Form {
	out := apiclient.NewForm()
	if form.Name != nil {
		out.Set("name", *form.Name)
	}
	if form.MeetWith != nil {
		out.Set("meet_with", *form.MeetWith)
	}
	if form.Purpose != nil {
		out.Set("purpose", *form.Purpose)
	}
	if form.Origin != nil && *form.Origin != "" {
		out.Set("origin", *form.Origin)
	}
	if form.KTPImage != nil {
		out.AddFile("ktp_image", form.KTPImage.Filename, form.KTPImage.Content)
	}
	if form.FaceImage != nil {
		out.AddFile("face_image", form.FaceImage.Filename, form.FaceImage.Content)
	}
	if !creating {
		out.Set("_method", http.MethodPatch)
	}
	return out
}

func (form VisitorForm) name() string {
	if form.Name == nil {
		return ""
	}
	return *form.Name
}

func (s *visitorService) Create(ctx context.Context, actor Actor, form VisitorForm) error {
	if _, err := s.visitors.Create(ctx, actor.Client, form.encode(true)); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionCreateVisitor, "", form.name(), nil)
	return nil
}

// Update goes out as a POST carrying _method=PATCH; the backend only reads multipart bodies on POST.
func (s *visitorService) Update(ctx context.Context, actor Actor, id string, form VisitorForm) error {
	if _, err := s.visitors.Update(ctx, actor.Client, id, form.encode(false)); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionUpdateVisitor, id, form.name(), nil)
	return nil
}

func (s *visitorService) CheckOut(ctx context.Context, actor Actor, id string) error {
	if _, err := s.visitors.Action(ctx, actor.Client, id, "check-out", http.MethodPost, nil); err != nil {
		return resource.Fail(err, "Failed to check out")
	}
	audit(ctx, s.audit, actor, model.ActionCheckOut, id, "", nil)
	return nil
}

func (s *visitorService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.visitors.Delete(ctx, actor.Client, id); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionDeleteVisitor, id, "", nil)
	return nil
}

// Export walks every upstream page and writes the visitor log as xlsx.
func (s *visitorService) Export(ctx context.Context, actor Actor) (*bytes.Buffer, error) {
	var all []model.Visitor
	for pageNo := 1; pageNo <= exportPageLimit; pageNo++ {
		p := pagination.New(pageNo, pagination.MaxLimit)
		page, err := apiclient.GetPage[model.Visitor](ctx, actor.Client, "/visitors?"+p.Query())
		if err != nil {
			return nil, resource.Fail(err, "Failed to export visitors")
		}
		all = append(all, page.Data...)
		if page.CurrentPage >= page.LastPage || len(page.Data) == 0 {
			break
		}
	}
	buf, err := s.exporter.ExportVisitors(all)
	if err != nil {
		return nil, fmt.Errorf("export visitors: %w", err)
	}
	audit(ctx, s.audit, actor, model.ActionExportVisitor, "", "", map[string]int{"rows": len(all)})
	return buf, nil
}
