package storage

import (
	"context"
	"errors"
	"sync"
)

// MemorySlot keeps documents in process memory.
type MemorySlot struct {
	mu         sync.RWMutex
	data       map[string][]byte
	failWrites error
}

func NewMemorySlot() *MemorySlot { return &MemorySlot{data: make(map[string][]byte)} }

func (s *MemorySlot) Driver() Driver { return DriverMemory }

func (s *MemorySlot) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *MemorySlot) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	b := make([]byte, len(data))
	copy(b, data)
	s.data[key] = b
	return nil
}

// SetFailWrites makes every later Write return err until reset with nil.
func (s *MemorySlot) SetFailWrites(err error) {
	s.mu.Lock()
	s.failWrites = err
	s.mu.Unlock()
}

const subscriberBuffer = 16

var errBusClosed = errors.New("storage: bus closed")

type memorySub struct {
	key string
	ch  chan Change
}

// MemoryBus is an in-process Bus.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[int]*memorySub
	next   int
	closed bool
}

func NewMemoryBus() *MemoryBus { return &MemoryBus{subs: make(map[int]*memorySub)} }

func (b *MemoryBus) Publish(_ context.Context, change Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errBusClosed
	}
	for _, sub := range b.subs {
		if sub.key != change.Key {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			// Slow subscriber: every change carries the full document, so
			// dropping the oldest pending one loses nothing.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- change:
			default:
			}
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, key string) (<-chan Change, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errBusClosed
	}
	id := b.next
	b.next++
	sub := &memorySub{key: key, ch: make(chan Change, subscriberBuffer)}
	b.subs[id] = sub

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}()
	return sub.ch, nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
	return nil
}

// NopBus drops every change. Watchers on it only hear from the slot itself.
type NopBus struct{}

func (NopBus) Publish(context.Context, Change) error { return nil }

func (NopBus) Subscribe(ctx context.Context, _ string) (<-chan Change, error) {
	ch := make(chan Change)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (NopBus) Close() error { return nil }
