package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cutine-backend/config"
	"cutine-backend/models"
	"cutine-backend/storage"
	"cutine-backend/store"
)

type fakeSender struct {
	mu    sync.Mutex
	delay time.Duration
	err   error
	sent  []string
	to    []string
}

func (f *fakeSender) Channel() string { return ChannelSMS }

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, body)
	return nil
}

type reminderFixture struct {
	records  *store.RecordStore
	profiles *store.ProfileStore
	sms      *fakeSender
	svc      *ReminderService
}

func newReminderFixture(t *testing.T, phone string) *reminderFixture {
	t.Helper()
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	f := &reminderFixture{
		records:  store.NewRecordStore(ctx, slot, nil),
		profiles: store.NewProfileStore(ctx, slot, nil),
		sms:      &fakeSender{},
	}
	_, err := f.profiles.Save(ctx, models.UserProfile{
		Nickname:            "Mina",
		HairLength:          models.HairShort,
		CutCycleDays:        30,
		NotificationEnabled: true,
		NotificationDays:    []int{3, 1, 0},
		Phone:               phone,
	})
	require.NoError(t, err)
	f.records.AddRecord(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), models.RecordFields{})
	f.svc = NewReminderService(f.records, f.profiles, slot, config.ReminderConfig{Timezone: "UTC"}, f.sms, nil)
	return f
}

func on(day int) time.Time { return time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC) }

func TestRunDailySendsOncePerDay(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, "+821012345678")

	entry, ok := f.svc.RunDaily(ctx, on(28))
	require.True(t, ok)
	require.Equal(t, 3, entry.Dday)
	require.Equal(t, "D-3", entry.Label)
	require.Equal(t, "sent", entry.Status)
	require.Equal(t, ChannelSMS, entry.Channel)
	require.Equal(t, []string{"Hi Mina! D-3: haircut time is approaching"}, f.sms.sent)
	require.Equal(t, []string{"+821012345678"}, f.sms.to)

	_, ok = f.svc.RunDaily(ctx, on(28))
	require.False(t, ok)
	require.Len(t, f.sms.sent, 1)
	require.Len(t, f.svc.History(ctx), 1)
}

func TestRunDailyConcurrentTriggersSendOnce(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, "+821012345678")
	f.sms.delay = 50 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.svc.RunDaily(ctx, on(28))
		}()
	}
	wg.Wait()

	f.sms.mu.Lock()
	defer f.sms.mu.Unlock()
	require.Len(t, f.sms.sent, 1)
	require.Len(t, f.svc.History(ctx), 1)
}

func TestRunDailySkipsDaysNotSelected(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, "+821012345678")

	_, ok := f.svc.RunDaily(ctx, on(29)) // D-2
	require.False(t, ok)
	_, ok = f.svc.RunDaily(ctx, on(15))
	require.False(t, ok)
	require.Empty(t, f.sms.sent)
	require.Empty(t, f.svc.History(ctx))
}

func TestRunDailyFallsBackToLogWithoutPhone(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, "")

	entry, ok := f.svc.RunDaily(ctx, on(31))
	require.True(t, ok)
	require.Equal(t, "D-Day", entry.Label)
	require.Equal(t, ChannelLog, entry.Channel)
	require.Empty(t, f.sms.sent)
}

func TestRunDailyLogsFailures(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, "+821012345678")
	f.sms.err = errors.New("twilio down")

	entry, ok := f.svc.RunDaily(ctx, on(30))
	require.True(t, ok)
	require.Equal(t, "failed", entry.Status)
	require.Equal(t, "twilio down", entry.ErrorMessage)

	history := f.svc.History(ctx)
	require.Len(t, history, 1)
	require.Equal(t, "failed", history[0].Status)
}

func TestRunDailyRespectsDisabledNotifications(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, "+821012345678")
	_, err := f.profiles.UpdateNotifications(ctx, false, nil)
	require.NoError(t, err)

	_, ok := f.svc.RunDaily(ctx, on(28))
	require.False(t, ok)
}

func TestRunDailyWithoutProfileOrRecords(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	records := store.NewRecordStore(ctx, slot, nil)
	profiles := store.NewProfileStore(ctx, slot, nil)
	svc := NewReminderService(records, profiles, slot, config.ReminderConfig{}, nil, nil)

	_, ok := svc.RunDaily(ctx, on(28))
	require.False(t, ok)

	_, err := profiles.Save(ctx, models.UserProfile{Nickname: "Jun", HairLength: models.HairLong, CutCycleDays: 70, NotificationEnabled: true, NotificationDays: []int{0}})
	require.NoError(t, err)
	_, ok = svc.RunDaily(ctx, on(28))
	require.False(t, ok)
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newReminderFixture(t, "")

	_, ok := f.svc.RunDaily(ctx, on(28))
	require.True(t, ok)
	_, ok = f.svc.RunDaily(ctx, on(30))
	require.True(t, ok)

	history := f.svc.History(ctx)
	require.Len(t, history, 2)
	require.Equal(t, "2024-01-30", history[0].Date)
	require.Equal(t, "2024-01-28", history[1].Date)
}

func TestStartSchedulerRejectsBadSchedule(t *testing.T) {
	f := newReminderFixture(t, "")
	f.svc.schedule = "not a cron line"
	require.Error(t, f.svc.StartScheduler())

	f.svc.schedule = "0 9 * * *"
	require.NoError(t, f.svc.StartScheduler())
	f.svc.StopScheduler()
}
