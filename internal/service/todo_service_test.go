package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"gaportal/internal/model"
	"gaportal/internal/resource"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestChangeStatusToCheckingIsRefused(t *testing.T) {
	b := newStubBackend(t, map[string]string{})
	audit := newTestAudit()
	s := NewTodoService(audit, nil)

	err := s.ChangeStatus(context.Background(), b.actor(model.RoleUser), "1", model.TodoChecking)
	require.ErrorIs(t, err, ErrEvidenceRequired)

	var failure *resource.Error
	require.True(t, errors.As(err, &failure))
	require.Equal(t, http.StatusUnprocessableEntity, failure.Status)
	require.Equal(t, "Please upload evidence to submit for checking.", failure.Message)
	require.Empty(t, b.received())

	logs, total, err := audit.GetAuditLogs(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, logs)
}

func TestChangeStatusRoutes(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"PATCH /todos/1/start": `{"message":"started"}`,
		"PATCH /todos/1":       `{"message":"updated"}`,
	})
	s := NewTodoService(newTestAudit(), nil)
	actor := b.actor(model.RoleUser)

	require.NoError(t, s.ChangeStatus(context.Background(), actor, "1", model.TodoInProgress))
	require.Len(t, b.find(http.MethodPatch, "/todos/1/start"), 1)

	require.NoError(t, s.ChangeStatus(context.Background(), actor, "1", model.TodoCompleted))
	patches := b.find(http.MethodPatch, "/todos/1")
	require.Len(t, patches, 1)
	require.JSONEq(t, `{"status":"completed"}`, patches[0].Body)
}

func TestChangeStatusFailureText(t *testing.T) {
	b := newStubBackend(t, map[string]string{})
	b.fail("PATCH /todos/1", http.StatusInternalServerError, `{}`)
	s := NewTodoService(newTestAudit(), nil)

	err := s.ChangeStatus(context.Background(), b.actor(model.RoleUser), "1", model.TodoNotStarted)
	var failure *resource.Error
	require.True(t, errors.As(err, &failure))
	require.Equal(t, http.StatusInternalServerError, failure.Status)
	require.Equal(t, "Failed to update status", failure.Message)
}

func TestSubmitEvidenceUploadsMultipart(t *testing.T) {
	b := newStubBackend(t, map[string]string{"POST /todos/1/submit": `{"message":"submitted"}`})
	audit := newTestAudit()
	s := NewTodoService(audit, nil)

	err := s.SubmitEvidence(context.Background(), b.actor(model.RoleUser), "1", Evidence{Filename: "proof.png", Content: []byte("png")})
	require.NoError(t, err)

	calls := b.find(http.MethodPost, "/todos/1/submit")
	require.Len(t, calls, 1)
	require.Contains(t, calls[0].Header.Get("Content-Type"), "multipart/form-data")
	require.Contains(t, calls[0].Body, `name="evidence"; filename="proof.png"`)

	logs, _, err := audit.GetAuditLogs(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, model.ActionTodoEvidence, logs[0].Action)
	require.Equal(t, "Rina", logs[0].Username)
}

func TestTodoListSummary(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	b := newStubBackend(t, map[string]string{
		"GET /todos": `{"data":[
			{"id":1,"title":"Order toner","status":"completed","submitted_at":"2026-03-10T09:00:00Z","total_work_time":30,"rating":4},
			{"id":2,"title":"Fix chair","status":"completed","submitted_at":"2026-03-02T09:00:00Z","total_work_time":60,"rating":5},
			{"id":3,"title":"Book venue","status":"in_progress"}
		]}`,
	})
	s := NewTodoService(newTestAudit(), fixedClock(now))

	list := s.List(context.Background(), b.actor(model.RoleUser), resource.Filter{Status: model.TodoCompleted})
	require.Len(t, list.Rows, 2)
	require.Equal(t, 3, list.Total)

	sum, ok := list.Summary.(TodoSummary)
	require.True(t, ok)
	require.Equal(t, 1, sum.CompletedToday)
	require.Equal(t, 2, sum.CompletedThisMonth)
	require.Equal(t, 45, sum.AvgDurationMinutes)
	require.NotNil(t, sum.AvgRating)
	require.Equal(t, 5, *sum.AvgRating)
}
