package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cutine-backend/models"
	"cutine-backend/storage"
)

func validProfile() models.UserProfile {
	return models.UserProfile{
		Nickname:            "  Mina ",
		HairLength:          models.HairMedium,
		CutCycleDays:        42,
		NotificationEnabled: true,
		NotificationDays:    []int{0, 3, 1, 3},
		Phone:               "+82 10-1234-5678",
	}
}

func TestProfileSaveNormalizes(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewProfileStore(ctx, slot, nil, WithClock(func() time.Time { return created }))

	_, ok := s.Profile()
	require.False(t, ok)

	saved, err := s.Save(ctx, validProfile())
	require.NoError(t, err)
	require.Equal(t, "Mina", saved.Nickname)
	require.Equal(t, []int{3, 1, 0}, saved.NotificationDays)
	require.Equal(t, "+821012345678", saved.Phone)
	require.Equal(t, created, saved.CreatedAt)

	reloaded := NewProfileStore(ctx, slot, nil)
	got, ok := reloaded.Profile()
	require.True(t, ok)
	require.Equal(t, saved.Nickname, got.Nickname)
	require.True(t, created.Equal(got.CreatedAt))
}

func TestProfileSaveKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewProfileStore(ctx, storage.NewMemorySlot(), nil, WithClock(func() time.Time { return clock }))

	_, err := s.Save(ctx, validProfile())
	require.NoError(t, err)

	clock = clock.AddDate(0, 1, 0)
	p := validProfile()
	p.CutCycleDays = 30
	saved, err := s.Save(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 30, saved.CutCycleDays)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), saved.CreatedAt)
}

func TestProfileSaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore(ctx, storage.NewMemorySlot(), nil)

	cases := map[string]func(*models.UserProfile){
		"nickname":   func(p *models.UserProfile) { p.Nickname = " " },
		"hairLength": func(p *models.UserProfile) { p.HairLength = "buzz" },
		"cycle":      func(p *models.UserProfile) { p.CutCycleDays = 0 },
		"days":       func(p *models.UserProfile) { p.NotificationDays = []int{5} },
		"phone":      func(p *models.UserProfile) { p.Phone = "call me" },
	}
	for name, mutate := range cases {
		p := validProfile()
		mutate(&p)
		_, err := s.Save(ctx, p)
		require.ErrorIs(t, err, ErrInvalidProfile, name)
	}
	_, ok := s.Profile()
	require.False(t, ok)
}

func TestProfileUpdateNotifications(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore(ctx, storage.NewMemorySlot(), nil)

	_, err := s.UpdateNotifications(ctx, false, nil)
	require.ErrorIs(t, err, ErrNoProfile)

	_, err = s.Save(ctx, validProfile())
	require.NoError(t, err)

	p, err := s.UpdateNotifications(ctx, false, nil)
	require.NoError(t, err)
	require.False(t, p.NotificationEnabled)
	require.Equal(t, []int{3, 1, 0}, p.NotificationDays)

	p, err = s.UpdateNotifications(ctx, true, []int{0, 7})
	require.NoError(t, err)
	require.Equal(t, []int{7, 0}, p.NotificationDays)

	_, err = s.UpdateNotifications(ctx, true, []int{2})
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestProfileCorruptSlotMeansNotOnboarded(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Write(ctx, ProfileKey, []byte(`{"nickname":`)))
	_, ok := NewProfileStore(ctx, slot, nil).Profile()
	require.False(t, ok)

	require.NoError(t, slot.Write(ctx, ProfileKey, []byte(`{"nickname":"x","hairLength":"short","cutCycleDays":-1}`)))
	_, ok = NewProfileStore(ctx, slot, nil).Profile()
	require.False(t, ok)
}

func TestProfileWatch(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	bus := storage.NewMemoryBus()
	a := NewProfileStore(ctx, storage.NewBroadcast(slot, bus), nil)
	b := NewProfileStore(ctx, storage.NewBroadcast(slot, bus), nil)
	require.NoError(t, b.Watch(ctx))
	t.Cleanup(b.Close)

	_, err := a.Save(ctx, validProfile())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		p, ok := b.Profile()
		return ok && p.Nickname == "Mina"
	}, time.Second, 10*time.Millisecond)
}

func TestProfileClearReachesWatchers(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	bus := storage.NewMemoryBus()
	a := NewProfileStore(ctx, storage.NewBroadcast(slot, bus), nil)
	_, err := a.Save(ctx, validProfile())
	require.NoError(t, err)
	b := NewProfileStore(ctx, storage.NewBroadcast(slot, bus), nil)
	_, ok := b.Profile()
	require.True(t, ok)
	require.NoError(t, b.Watch(ctx))
	t.Cleanup(b.Close)

	a.Clear(ctx)
	_, ok = a.Profile()
	require.False(t, ok)
	raw, err := slot.Read(ctx, ProfileKey)
	require.NoError(t, err)
	require.Equal(t, "null", string(raw))
	require.Eventually(t, func() bool {
		_, ok := b.Profile()
		return !ok
	}, time.Second, 10*time.Millisecond)

	_, ok = NewProfileStore(ctx, slot, nil).Profile()
	require.False(t, ok)
}
