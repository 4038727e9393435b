package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Broadcast is a Slot that announces its own writes on a Bus and reports
// writes made by other Broadcasts sharing the bus. Each instance plays the
// part of one client (tab, process) of a shared slot.
type Broadcast struct {
	Slot
	bus    Bus
	source string
}

func NewBroadcast(slot Slot, bus Bus) *Broadcast {
	return &Broadcast{Slot: slot, bus: bus, source: uuid.New().String()}
}

// Source is the id stamped on this instance's changes.
func (b *Broadcast) Source() string { return b.source }

// Write stores data and then publishes it. A publish failure is reported
// wrapped in ErrPublish; the data itself is already stored at that point.
func (b *Broadcast) Write(ctx context.Context, key string, data []byte) error {
	if err := b.Slot.Write(ctx, key, data); err != nil {
		return err
	}
	if err := b.bus.Publish(ctx, Change{Key: key, Value: data, Source: b.source}); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}

// Watch yields changes to key written by other instances. When the wrapped
// slot can watch itself (FSSlot), its changes are merged with the bus.
func (b *Broadcast) Watch(ctx context.Context, key string) (<-chan Change, error) {
	ctx, cancel := context.WithCancel(ctx)
	in, err := b.bus.Subscribe(ctx, key)
	if err != nil {
		cancel()
		return nil, err
	}
	var local <-chan Change
	if w, ok := b.Slot.(Watcher); ok {
		if local, err = w.Watch(ctx, key); err != nil {
			cancel()
			return nil, err
		}
	}
	out := make(chan Change, subscriberBuffer)
	go func() {
		defer cancel()
		defer close(out)
		for in != nil || local != nil {
			var (
				change Change
				ok     bool
			)
			select {
			case change, ok = <-in:
				if !ok {
					in = nil
					continue
				}
			case change, ok = <-local:
				if !ok {
					local = nil
					continue
				}
			case <-ctx.Done():
				return
			}
			if change.Source == b.source {
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
