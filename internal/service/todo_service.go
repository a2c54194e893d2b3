package service

import (
	"context"
	"math"
	"net/http"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"
)

// ErrEvidenceRequired stops a todo from being moved to checking by hand; it gets there by uploading evidence.
var ErrEvidenceRequired = resource.Refuse("Please upload evidence to submit for checking.")

type TodoSummary struct {
	CompletedToday     int  `json:"completed_today"`
	CompletedThisMonth int  `json:"completed_this_month"`
	AvgDurationMinutes int  `json:"avg_duration_minutes"`
	AvgRating          *int `json:"avg_rating"`
}

// Evidence is an uploaded proof file.
type Evidence struct {
	Filename string
	Content  []byte
}

type TodoService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Todo]
	Create(ctx context.Context, actor Actor, req model.TodoInput) error
	Update(ctx context.Context, actor Actor, id string, req model.TodoInput) error
	Delete(ctx context.Context, actor Actor, id string) error
	ChangeStatus(ctx context.Context, actor Actor, id, status string) error
	SubmitEvidence(ctx context.Context, actor Actor, id string, file Evidence) error
}

type todoService struct {
	todos *resource.Controller[model.Todo]
	audit AuditService
	now   Clock
}

func todoConfig(listPath string, now Clock) resource.Config[model.Todo] {
	return resource.Config[model.Todo]{
		Kind:         view.KindTodo,
		ListPath:     listPath,
		ItemPath:     "/todos",
		EmptyMessage: "No todos found",
		ID:           func(t model.Todo) string { return t.ID.String() },
		Status:       func(t model.Todo) string { return t.Status },
		Category:     func(t model.Todo) string { return t.Priority },
		Files: func(t model.Todo) []view.FileLink {
			files := make([]view.FileLink, 0, len(t.EvidenceFiles))
			for _, path := range t.EvidenceFiles {
				files = append(files, view.FileLink{Field: "evidence", Path: path})
			}
			return files
		},
		Search: func(t model.Todo) []string {
			return []string{t.Title, t.Description, t.User.DisplayName()}
		},
		Summarize: func(todos []model.Todo) interface{} { return summarizeTodos(todos, now()) },
	}
}

func NewTodoService(audit AuditService, now Clock) TodoService {
	if now == nil {
		now = time.Now
	}
	return &todoService{todos: resource.New(todoConfig("/todos", now)), audit: audit, now: now}
}

func (s *todoService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Todo] {
	return s.todos.List(ctx, actor.Client, f)
}

func (s *todoService) Create(ctx context.Context, actor Actor, req model.TodoInput) error {
	if _, err := s.todos.Create(ctx, actor.Client, req); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionCreateTodo, "", req.Title, req)
	return nil
}

func (s *todoService) Update(ctx context.Context, actor Actor, id string, req model.TodoInput) error {
	if _, err := s.todos.Update(ctx, actor.Client, id, req); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionUpdateTodo, id, req.Title, req)
	return nil
}

func (s *todoService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.todos.Delete(ctx, actor.Client, id); err != nil {
		return err
	}
	audit(ctx, s.audit, actor, model.ActionDeleteTodo, id, "", nil)
	return nil
}

// ChangeStatus starts a todo through /start, refuses checking and patches anything else.
func (s *todoService) ChangeStatus(ctx context.Context, actor Actor, id, status string) error {
	var err error
	switch status {
	case model.TodoChecking:
		return ErrEvidenceRequired
	case model.TodoInProgress:
		_, err = s.todos.Action(ctx, actor.Client, id, "start", http.MethodPatch, nil)
	default:
		_, err = s.todos.Update(ctx, actor.Client, id, map[string]string{"status": status})
	}
	if err != nil {
		return statusFailure(err)
	}
	audit(ctx, s.audit, actor, model.ActionTodoStatus, id, "", map[string]string{"status": status})
	return nil
}

func (s *todoService) SubmitEvidence(ctx context.Context, actor Actor, id string, file Evidence) error {
	form := apiclient.NewForm().AddFile("evidence", file.Filename, file.Content)
	if _, err := s.todos.Action(ctx, actor.Client, id, "submit", http.MethodPost, form); err != nil {
		return resource.Fail(err, "Upload failed")
	}
	audit(ctx, s.audit, actor, model.ActionTodoEvidence, id, file.Filename, nil)
	return nil
}

func statusFailure(err error) error {
	return resource.Fail(err, "Failed to update status")
}

func summarizeTodos(todos []model.Todo, now time.Time) TodoSummary {
	var sum TodoSummary
	var workTotal, ratingTotal float64
	var worked, rated int
	for _, t := range todos {
		if t.Status == model.TodoCompleted {
			if submitted, ok := model.ParseTime(t.SubmittedAt, now.Location()); ok {
				if sameDay(submitted, now) {
					sum.CompletedToday++
				}
				if sameMonth(submitted, now) {
					sum.CompletedThisMonth++
				}
			}
		}
		if t.TotalWorkTime != nil {
			workTotal += *t.TotalWorkTime
			worked++
		}
		if t.Rating != nil {
			ratingTotal += *t.Rating
			rated++
		}
	}
	if worked > 0 {
		sum.AvgDurationMinutes = int(math.Round(workTotal / float64(worked)))
	}
	if rated > 0 {
		avg := int(math.Round(ratingTotal / float64(rated)))
		sum.AvgRating = &avg
	}
	return sum
}

// EvaluateRequest is the admin review form.
type EvaluateRequest struct {
	Action        string `json:"action" binding:"required,oneof=approve rework"`
	Notes         string `json:"notes"`
	WarningPoints int    `json:"warning_points" binding:"min=0"`
	WarningNote   string `json:"warning_note"`
}

type NoteRequest struct {
	Notes string `json:"notes"`
}

type AdminTodoSummary struct {
	CompletedToday int `json:"completed_today"`
	Total          int `json:"total"`
}

type AdminTodoService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Todo]
	Evaluate(ctx context.Context, actor Actor, id string, req EvaluateRequest) error
	SaveNote(ctx context.Context, actor Actor, id string, req NoteRequest) error
}

type adminTodoService struct {
	todos *resource.Controller[model.Todo]
	audit AuditService
}

func NewAdminTodoService(audit AuditService, now Clock) AdminTodoService {
	if now == nil {
		now = time.Now
	}
	cfg := todoConfig("/todos/all", now)
	cfg.Summarize = func(todos []model.Todo) interface{} {
		today := now()
		sum := AdminTodoSummary{Total: len(todos)}
		for _, t := range todos {
			if t.Status != model.TodoCompleted {
				continue
			}
			if submitted, ok := model.ParseTime(t.SubmittedAt, today.Location()); ok && sameDay(submitted, today) {
				sum.CompletedToday++
			}
		}
		return sum
	}
	return &adminTodoService{todos: resource.New(cfg), audit: audit}
}

func (s *adminTodoService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Todo] {
	return s.todos.List(ctx, actor.Client, f)
}

// Evaluate approves a todo or sends it back for rework. Evaluations are always individual.
func (s *adminTodoService) Evaluate(ctx context.Context, actor Actor, id string, req EvaluateRequest) error {
	payload := model.TodoEvaluation{
		Action:        req.Action,
		Type:          "individual",
		Notes:         req.Notes,
		WarningPoints: req.WarningPoints,
		WarningNote:   req.WarningNote,
	}
	if _, err := s.todos.Action(ctx, actor.Client, id, "evaluate", http.MethodPost, payload); err != nil {
		fallback := "Failed to evaluate"
		if req.Action == "approve" {
			fallback = "Failed to approve"
		}
		return resource.Fail(err, fallback)
	}
	audit(ctx, s.audit, actor, model.ActionEvaluateTodo, id, "", payload)
	return nil
}

func (s *adminTodoService) SaveNote(ctx context.Context, actor Actor, id string, req NoteRequest) error {
	if _, err := s.todos.Action(ctx, actor.Client, id, "note", http.MethodPatch, req); err != nil {
		return resource.Fail(err, "Failed to save note")
	}
	audit(ctx, s.audit, actor, model.ActionTodoNote, id, "", req)
	return nil
}
