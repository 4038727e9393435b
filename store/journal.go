package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"cutine-backend/config"
	"cutine-backend/storage"
)

// Journal is an append-only list of entries kept under one slot key. When
// limit is positive only the newest limit entries are retained.
type Journal[T any] struct {
	mu    sync.Mutex
	slot  storage.Slot
	log   *config.Logger
	key   string
	limit int
}

func NewJournal[T any](slot storage.Slot, key string, limit int, log *config.Logger) *Journal[T] {
	if log == nil {
		log = config.NopLogger()
	}
	return &Journal[T]{slot: slot, log: log.With("journal", key), key: key, limit: limit}
}

// Entries returns the stored entries, oldest first. A missing or corrupt
// document reads as empty.
func (j *Journal[T]) Entries(ctx context.Context) []T {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.readLocked(ctx)
}

func (j *Journal[T]) readLocked(ctx context.Context) []T {
	raw, err := j.slot.Read(ctx, j.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			j.log.Error("failed to read journal", "error", err)
		}
		return []T{}
	}
	var entries []T
	if err := json.Unmarshal(raw, &entries); err != nil {
		j.log.Warn("discarding unreadable journal", "error", err)
		return []T{}
	}
	if entries == nil {
		entries = []T{}
	}
	return entries
}

// Append adds entry and writes the list back. The write is best-effort.
func (j *Journal[T]) Append(ctx context.Context, entry T) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := append(j.readLocked(ctx), entry)
	if j.limit > 0 && len(entries) > j.limit {
		entries = entries[len(entries)-j.limit:]
	}
	data, err := json.Marshal(entries)
	if err != nil {
		j.log.Error("failed to encode journal", "error", err)
		return
	}
	persist(ctx, j.slot, j.log, j.key, data)
}

// Clear empties the journal.
func (j *Journal[T]) Clear(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	persist(ctx, j.slot, j.log, j.key, []byte("[]"))
}
