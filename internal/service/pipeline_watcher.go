package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// PipelineWatcher polls the procurement pipeline for every open procurement socket and pushes a snapshot
// whenever it changed. Upstream has no push of its own.
type PipelineWatcher struct {
	procurement ProcurementService
	interval    time.Duration

	mu    sync.Mutex
	kicks map[chan struct{}]struct{}
}

func NewPipelineWatcher(procurement ProcurementService, interval time.Duration) *PipelineWatcher {
	return &PipelineWatcher{procurement: procurement, interval: interval, kicks: map[chan struct{}]struct{}{}}
}

// Refresh makes every running watch poll now instead of waiting for its next tick.
func (w *PipelineWatcher) Refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for kick := range w.kicks {
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

// Watch polls for actor until ctx is done or push fails. Poll errors are skipped silently.
func (w *PipelineWatcher) Watch(ctx context.Context, actor Actor, push func([]byte) error) {
	defer w.procurement.Hold(actor)()

	kick := make(chan struct{}, 1)
	w.mu.Lock()
	w.kicks[kick] = struct{}{}
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		delete(w.kicks, kick)
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last []byte
	poll := func() error {
		items, err := w.procurement.Snapshot(ctx, actor)
		if err != nil {
			log.WithError(err).Debug("pipeline poll failed")
			return nil
		}
		msg, err := json.Marshal(PipelineMessage{Type: "pipeline", Items: items})
		if err != nil || bytes.Equal(msg, last) {
			return nil
		}
		last = msg
		return push(msg)
	}

	if err := poll(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-kick:
		}
		if err := poll(); err != nil {
			return
		}
	}
}
