package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cutine-backend/analytics"
	"cutine-backend/config"
	"cutine-backend/metrics"
	"cutine-backend/models"
	"cutine-backend/storage"
	"cutine-backend/utils"
)

// Summary is the read view of the record history.
type Summary struct {
	Records      []models.CutRecord `json:"records"`
	LastCutDate  *string            `json:"lastCutDate,omitempty"`
	AverageCycle *int               `json:"averageCycle,omitempty"`
}

type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

func WithIDGenerator(newID func() string) Option { return func(o *options) { o.newID = newID } }

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: func() string { return uuid.New().String() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RecordStore owns the haircut history. At most one record exists per date;
// the sorted view is rebuilt lazily after each change.
type RecordStore struct {
	mu      sync.Mutex
	slot    storage.Slot
	log     *config.Logger
	opts    options
	records []models.CutRecord
	sorted  []models.CutRecord
	watch   watcher
}

// NewRecordStore loads the history from slot. A missing or corrupt document
// starts an empty history; duplicates and undated entries are dropped and
// the cleaned history is written back at once.
func NewRecordStore(ctx context.Context, slot storage.Slot, log *config.Logger, opts ...Option) *RecordStore {
	if log == nil {
		log = config.NopLogger()
	}
	s := &RecordStore{
		slot: slot,
		log:  log.With("service", "RecordStore"),
		opts: buildOptions(opts),
	}

	raw, err := slot.Read(ctx, RecordsKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s
	case err != nil:
		s.log.Error("failed to read records", "error", err)
		return s
	}

	var stored []models.CutRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warn("discarding unreadable records", "error", err)
		return s
	}
	clean, changed := dedupe(stored)
	s.records = clean
	if changed {
		s.log.Info("records sanitized", "before", len(stored), "after", len(clean))
		s.persistLocked(ctx)
	}
	return s
}

// dedupe keeps the first record seen for each date and drops records whose
// date is not a valid calendar date.
func dedupe(in []models.CutRecord) ([]models.CutRecord, bool) {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.CutRecord, 0, len(in))
	for _, r := range in {
		if _, err := utils.ParseDate(r.Date); err != nil {
			continue
		}
		if _, dup := seen[r.Date]; dup {
			continue
		}
		seen[r.Date] = struct{}{}
		out = append(out, r)
	}
	return out, len(out) != len(in)
}

func (s *RecordStore) persistLocked(ctx context.Context) {
	records := s.records
	if records == nil {
		records = []models.CutRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		s.log.Error("failed to encode records", "error", err)
		return
	}
	persist(ctx, s.slot, s.log, RecordsKey, data)
}

// changedLocked drops the memoized view and writes the full history.
func (s *RecordStore) changedLocked(ctx context.Context, op string) {
	s.sorted = nil
	metrics.RecordMutations.WithLabelValues(op).Inc()
	s.persistLocked(ctx)
}

func (s *RecordStore) sortedLocked() []models.CutRecord {
	if s.sorted != nil {
		return s.sorted
	}
	view := make([]models.CutRecord, len(s.records))
	copy(view, s.records)
	sort.SliceStable(view, func(i, j int) bool { return view[i].Date > view[j].Date })
	s.sorted = view
	return view
}

func (s *RecordStore) indexOf(pred func(models.CutRecord) bool) int {
	for i, r := range s.records {
		if pred(r) {
			return i
		}
	}
	return -1
}

func mergeString(dst **string, v *string) {
	if v != nil && *v != "" {
		s := *v
		*dst = &s
	}
}

func mergeCost(dst **float64, v *float64) {
	if v != nil && *v >= 0 {
		c := *v
		*dst = &c
	}
}

// AddRecord records a cut on date. If a record already exists on that date
// the supplied non-empty fields are merged into it instead.
func (s *RecordStore) AddRecord(ctx context.Context, date time.Time, fields models.RecordFields) models.CutRecord {
	key := utils.FormatDate(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(func(r models.CutRecord) bool { return r.Date == key }); i >= 0 {
		r := &s.records[i]
		mergeString(&r.Memo, fields.Memo)
		mergeString(&r.SalonName, fields.SalonName)
		mergeCost(&r.Cost, fields.Cost)
		s.changedLocked(ctx, "merge")
		return r.Clone()
	}

	r := models.CutRecord{
		ID:        s.opts.newID(),
		Date:      key,
		CreatedAt: s.opts.now().UTC(),
	}
	mergeString(&r.Memo, fields.Memo)
	mergeString(&r.SalonName, fields.SalonName)
	mergeCost(&r.Cost, fields.Cost)
	s.records = append(s.records, r)
	s.changedLocked(ctx, "add")
	return r.Clone()
}

// ReplaceLatestRecord moves the most recent record to newDate, keeping its
// identity and details. Any other record already on newDate is dropped. With
// no history a bare record is created.
func (s *RecordStore) ReplaceLatestRecord(ctx context.Context, newDate time.Time) models.CutRecord {
	key := utils.FormatDate(newDate)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		r := models.CutRecord{ID: s.opts.newID(), Date: key, CreatedAt: s.opts.now().UTC()}
		s.records = append(s.records, r)
		s.changedLocked(ctx, "add")
		return r.Clone()
	}

	latestID := s.sortedLocked()[0].ID
	kept := s.records[:0]
	var moved models.CutRecord
	for _, r := range s.records {
		switch {
		case r.ID == latestID:
			r.Date = key
			moved = r
		case r.Date == key:
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	s.changedLocked(ctx, "replace_latest")
	return moved.Clone()
}

// RemoveRecord deletes the record with id. It reports false when no such
// record exists, in which case nothing is written.
func (s *RecordStore) RemoveRecord(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(func(r models.CutRecord) bool { return r.ID == id })
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.changedLocked(ctx, "remove")
	return true
}

// Clear deletes every record and writes an empty history.
func (s *RecordStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.changedLocked(ctx, "clear")
}

// UpdateRecord edits memo, salon name and cost of the record with id. A
// supplied empty string clears the field. Date and id never change.
func (s *RecordStore) UpdateRecord(ctx context.Context, id string, fields models.RecordFields) (models.CutRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(func(r models.CutRecord) bool { return r.ID == id })
	if i < 0 {
		return models.CutRecord{}, false
	}
	r := &s.records[i]
	setString(&r.Memo, fields.Memo)
	setString(&r.SalonName, fields.SalonName)
	if fields.Cost != nil && *fields.Cost >= 0 {
		c := *fields.Cost
		r.Cost = &c
	}
	s.changedLocked(ctx, "update")
	return r.Clone(), true
}

func setString(dst **string, v *string) {
	if v == nil {
		return
	}
	if strings.TrimSpace(*v) == "" {
		*dst = nil
		return
	}
	s := *v
	*dst = &s
}

func (s *RecordStore) Record(id string) (models.CutRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(func(r models.CutRecord) bool { return r.ID == id }); i >= 0 {
		return s.records[i].Clone(), true
	}
	return models.CutRecord{}, false
}

// Summary returns the history sorted newest first with its derived values.
func (s *RecordStore) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.sortedLocked()
	out := Summary{Records: make([]models.CutRecord, len(view))}
	for i, r := range view {
		out.Records[i] = r.Clone()
	}
	if len(view) > 0 {
		last := view[0].Date
		out.LastCutDate = &last
	}
	if avg, ok := analytics.AverageCycle(view); ok {
		out.AverageCycle = &avg
	}
	return out
}

// Watch applies history written by other clients of the slot until ctx ends
// or Close is called. Incoming documents are deduplicated in memory only.
func (s *RecordStore) Watch(ctx context.Context) error {
	return s.watch.start(ctx, s.slot, s.log, RecordsKey, s.refresh)
}

func (s *RecordStore) refresh(raw []byte) {
	var incoming []models.CutRecord
	if err := json.Unmarshal(raw, &incoming); err != nil {
		s.log.Warn("ignoring unreadable records change", "error", err)
		return
	}
	clean, _ := dedupe(incoming)

	s.mu.Lock()
	s.records = clean
	s.sorted = nil
	s.mu.Unlock()
	s.log.Debug("records refreshed", "count", len(clean))
}

func (s *RecordStore) Close() {
	s.watch.stop()
}
