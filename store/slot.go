// Package store keeps the in-memory state of each storage slot and writes it
// back after every change.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cutine-backend/config"
	"cutine-backend/metrics"
	"cutine-backend/storage"
)

const (
	RecordsKey             = "cutine_records"
	ProfileKey             = "cutine_profile"
	RemindersKey           = "cutine_reminders"
	PartnerApplicationsKey = "cutine_partner_applications"
)

var ErrWatchUnsupported = errors.New("store: slot does not publish changes")

// persist writes data under key. Failures are logged and counted but never
// returned: memory stays authoritative and the next mutation rewrites the
// whole document.
func persist(ctx context.Context, slot storage.Slot, log *config.Logger, key string, data []byte) {
	err := slot.Write(ctx, key, data)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrPublish):
		log.Warn("slot change not broadcast", "key", key, "error", err)
	default:
		metrics.SlotWriteFailures.WithLabelValues(key).Inc()
		log.Error("slot write failed", "key", key, "error", err)
	}
}

// watcher runs apply for every change to key made by another client until
// stopped.
type watcher struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (w *watcher) start(ctx context.Context, slot storage.Slot, log *config.Logger, key string, apply func([]byte)) error {
	src, ok := slot.(storage.Watcher)
	if !ok {
		return ErrWatchUnsupported
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return fmt.Errorf("store: already watching %s", key)
	}

	ctx, cancel := context.WithCancel(ctx)
	changes, err := src.Watch(ctx, key)
	if err != nil {
		cancel()
		return err
	}
	w.cancel = cancel
	w.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		for change := range changes {
			apply(change.Value)
			metrics.SlotRefreshes.WithLabelValues(key).Inc()
		}
		log.Debug("slot watch ended", "key", key)
	}(w.done)
	return nil
}

func (w *watcher) stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
