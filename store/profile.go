package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cutine-backend/config"
	"cutine-backend/models"
	"cutine-backend/storage"
	"cutine-backend/utils"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrNoProfile      = errors.New("profile not found")
)

// ProfileStore holds the single user profile.
type ProfileStore struct {
	mu      sync.Mutex
	slot    storage.Slot
	log     *config.Logger
	now     func() time.Time
	profile *models.UserProfile
	watch   watcher
}

// NewProfileStore loads the profile from slot. Unreadable content is treated
// as "not onboarded yet".
func NewProfileStore(ctx context.Context, slot storage.Slot, log *config.Logger, opts ...Option) *ProfileStore {
	if log == nil {
		log = config.NopLogger()
	}
	o := buildOptions(opts)
	s := &ProfileStore{slot: slot, log: log.With("service", "ProfileStore"), now: o.now}

	raw, err := slot.Read(ctx, ProfileKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error("failed to read profile", "error", err)
		}
		return s
	}
	s.profile = decodeProfile(raw, s.log)
	return s
}

// clearedProfile is the document written when the profile is reset.
var clearedProfile = []byte("null")

func isCleared(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), clearedProfile)
}

func decodeProfile(raw []byte, log *config.Logger) *models.UserProfile {
	if isCleared(raw) {
		return nil
	}
	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Warn("discarding unreadable profile", "error", err)
		return nil
	}
	if err := normalizeProfile(&p); err != nil {
		log.Warn("discarding invalid profile", "error", err)
		return nil
	}
	return &p
}

// normalizeProfile validates p and puts its notification days and phone
// into canonical form.
func normalizeProfile(p *models.UserProfile) error {
	p.Nickname = strings.TrimSpace(p.Nickname)
	if p.Nickname == "" {
		return fmt.Errorf("%w: nickname is required", ErrInvalidProfile)
	}
	if _, ok := models.HairCycles[p.HairLength]; !ok {
		return fmt.Errorf("%w: unknown hair length %q", ErrInvalidProfile, p.HairLength)
	}
	if p.CutCycleDays <= 0 {
		return fmt.Errorf("%w: cut cycle must be a positive number of days", ErrInvalidProfile)
	}
	days, err := normalizeDays(p.NotificationDays)
	if err != nil {
		return err
	}
	p.NotificationDays = days
	if p.Phone != "" {
		if !utils.ValidatePhone(p.Phone) {
			return fmt.Errorf("%w: invalid phone number", ErrInvalidProfile)
		}
		p.Phone = utils.NormalizePhone(p.Phone)
	}
	return nil
}

func normalizeDays(days []int) ([]int, error) {
	allowed := make(map[int]bool, len(models.NotificationDayOptions))
	for _, d := range models.NotificationDayOptions {
		allowed[d] = true
	}
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !allowed[d] {
			return nil, fmt.Errorf("%w: notification day %d not one of %v", ErrInvalidProfile, d, models.NotificationDayOptions)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

func (s *ProfileStore) Profile() (models.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.UserProfile{}, false
	}
	return cloneProfile(*s.profile), true
}

func cloneProfile(p models.UserProfile) models.UserProfile {
	p.NotificationDays = append([]int(nil), p.NotificationDays...)
	return p
}

// Save validates and stores p. The first creation time is kept when a
// profile already exists.
func (s *ProfileStore) Save(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	if err := normalizeProfile(&p); err != nil {
		return models.UserProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.profile != nil && !s.profile.CreatedAt.IsZero():
		p.CreatedAt = s.profile.CreatedAt
	case p.CreatedAt.IsZero():
		p.CreatedAt = s.now().UTC()
	}
	s.profile = &p
	s.persistLocked(ctx)
	return cloneProfile(p), nil
}

// UpdateNotifications toggles reminders. A nil days keeps the current list.
func (s *ProfileStore) UpdateNotifications(ctx context.Context, enabled bool, days []int) (models.UserProfile, error) {
	var normalized []int
	if days != nil {
		var err error
		if normalized, err = normalizeDays(days); err != nil {
			return models.UserProfile{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.UserProfile{}, ErrNoProfile
	}
	s.profile.NotificationEnabled = enabled
	if days != nil {
		s.profile.NotificationDays = normalized
	}
	s.persistLocked(ctx)
	return cloneProfile(*s.profile), nil
}

func (s *ProfileStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.profile)
	if err != nil {
		s.log.Error("failed to encode profile", "error", err)
		return
	}
	persist(ctx, s.slot, s.log, ProfileKey, data)
}

// Clear forgets the profile. The slot keeps a null document so other
// clients drop theirs too.
func (s *ProfileStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
	s.persistLocked(ctx)
}

// Watch applies profiles saved or cleared by other clients of the slot.
func (s *ProfileStore) Watch(ctx context.Context) error {
	return s.watch.start(ctx, s.slot, s.log, ProfileKey, func(raw []byte) {
		p := decodeProfile(raw, s.log)
		if p == nil && !isCleared(raw) {
			return
		}
		s.mu.Lock()
		s.profile = p
		s.mu.Unlock()
	})
}

func (s *ProfileStore) Close() {
	s.watch.stop()
}
