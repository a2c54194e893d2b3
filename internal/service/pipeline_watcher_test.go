package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"gaportal/internal/model"

	"github.com/stretchr/testify/require"
)

// scriptedProcurement serves Snapshot from a list the test swaps.
type scriptedProcurement struct {
	ProcurementService

	mu    sync.Mutex
	items []model.PipelineItem
}

func (p *scriptedProcurement) Snapshot(ctx context.Context, actor Actor) ([]model.PipelineItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.PipelineItem(nil), p.items...), nil
}

func (p *scriptedProcurement) Hold(Actor) func() {
	return func() {}
}

func (p *scriptedProcurement) setStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = []model.PipelineItem{{ItemRequest: model.ItemRequest{ID: "5", Status: status}, DisplayStatus: status}}
}

func TestWatcherPushesOnlyChanges(t *testing.T) {
	proc := &scriptedProcurement{}
	proc.setStatus(model.RequestProcurement)
	w := NewPipelineWatcher(proc, time.Hour)

	pushed := make(chan []byte, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Watch(ctx, Actor{User: &model.User{ID: "7"}}, func(msg []byte) error {
			pushed <- msg
			return nil
		})
		close(done)
	}()

	first := <-pushed
	var msg PipelineMessage
	require.NoError(t, json.Unmarshal(first, &msg))
	require.Equal(t, model.RequestProcurement, msg.Items[0].DisplayStatus)

	w.Refresh()
	select {
	case <-pushed:
		t.Fatal("unchanged pipeline was pushed again")
	case <-time.After(100 * time.Millisecond):
	}

	proc.setStatus(model.RequestNotReceived)
	w.Refresh()
	select {
	case next := <-pushed:
		require.NoError(t, json.Unmarshal(next, &msg))
		require.Equal(t, model.RequestNotReceived, msg.Items[0].DisplayStatus)
	case <-time.After(2 * time.Second):
		t.Fatal("changed pipeline was not pushed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatcherStopsWhenPushFails(t *testing.T) {
	proc := &scriptedProcurement{}
	proc.setStatus(model.RequestProcurement)
	w := NewPipelineWatcher(proc, time.Hour)

	done := make(chan struct{})
	go func() {
		w.Watch(context.Background(), Actor{}, func([]byte) error { return context.Canceled })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch kept running after a failed push")
	}
}
