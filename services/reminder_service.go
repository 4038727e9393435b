// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"cutine-backend/analytics"
	"cutine-backend/config"
	"cutine-backend/metrics"
	"cutine-backend/models"
	"cutine-backend/storage"
	"cutine-backend/store"
	"cutine-backend/utils"
)

// reminderLogLimit caps the stored reminder history.
const reminderLogLimit = 100

type ReminderService struct {
	// runMu serializes RunDaily so the once-per-day check and the append
	// that records it cannot interleave between the cron and HTTP triggers.
	runMu    sync.Mutex
	records  *store.RecordStore
	profiles *store.ProfileStore
	history  *store.Journal[models.ReminderLog]
	sms      Sender
	fallback Sender
	template models.ReminderTemplate
	schedule string
	loc      *time.Location
	now      func() time.Time
	log      *config.Logger
	cron     *cron.Cron
}

type ReminderOption func(*ReminderService)

// WithReminderClock replaces time.Now.
func WithReminderClock(now func() time.Time) ReminderOption {
	return func(s *ReminderService) { s.now = now }
}

// NewReminderService wires the daily check. sms may be nil, in which case
// every reminder goes to the log sender.
func NewReminderService(records *store.RecordStore, profiles *store.ProfileStore, slot storage.Slot, cfg config.ReminderConfig, sms Sender, log *config.Logger, opts ...ReminderOption) *ReminderService {
	if log == nil {
		log = config.NopLogger()
	}
	log = log.With("service", "ReminderService")
	tmpl := models.DefaultReminderTemplate
	if cfg.Template != "" {
		tmpl.Message = cfg.Template
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = "0 9 * * *"
	}
	s := &ReminderService{
		records:  records,
		profiles: profiles,
		history:  store.NewJournal[models.ReminderLog](slot, store.RemindersKey, reminderLogLimit, log),
		sms:      sms,
		fallback: NewLogSender(log),
		template: tmpl,
		schedule: schedule,
		loc:      cfg.Location(),
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartScheduler registers the daily run and starts the cron loop.
func (s *ReminderService) StartScheduler() error {
	s.cron = cron.New(cron.WithLocation(s.loc))
	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.RunDaily(context.Background(), s.now().In(s.loc))
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info("Reminder scheduler started", "schedule", s.schedule, "timezone", s.loc.String())
	return nil
}

// StopScheduler stops the cron loop and waits for a running check.
func (s *ReminderService) StopScheduler() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Today is the current date in the reminder timezone.
func (s *ReminderService) Today() time.Time {
	return s.now().In(s.loc)
}

// History lists logged reminder attempts, newest first.
func (s *ReminderService) History(ctx context.Context) []models.ReminderLog {
	entries := s.history.Entries(ctx)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// ClearHistory empties the reminder log, which also lets today's reminder
// go out again.
func (s *ReminderService) ClearHistory(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.history.Clear(ctx)
}

// RunDaily sends at most one reminder for today. It reports the logged
// attempt, or false when nothing was due.
func (s *ReminderService) RunDaily(ctx context.Context, today time.Time) (models.ReminderLog, bool) {
	day := utils.FormatDate(today)

	profile, ok := s.profiles.Profile()
	if !ok {
		s.log.Debug("no profile, skipping reminders")
		return models.ReminderLog{}, false
	}
	if !profile.NotificationEnabled || !s.template.IsActive {
		return models.ReminderLog{}, false
	}
	summary := s.records.Summary()
	if summary.LastCutDate == nil {
		return models.ReminderLog{}, false
	}
	lastCut, err := utils.ParseDate(*summary.LastCutDate)
	if err != nil {
		s.log.Warn("unreadable last cut date", "date", *summary.LastCutDate)
		return models.ReminderLog{}, false
	}

	dday := analytics.CalculateDday(lastCut, profile.CutCycleDays, today)
	if !profile.NotifiesOn(dday) {
		return models.ReminderLog{}, false
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()
	for _, entry := range s.history.Entries(ctx) {
		if entry.Date == day {
			s.log.Debug("reminder already handled", "date", day)
			return models.ReminderLog{}, false
		}
	}

	status := analytics.GetDdayStatus(dday)
	body := s.render(profile, status)

	sender, to := s.fallback, profile.Nickname
	if s.sms != nil && profile.Phone != "" {
		sender, to = s.sms, profile.Phone
	}

	entry := models.ReminderLog{
		ID:      uuid.New().String(),
		Date:    day,
		Dday:    dday,
		Label:   status.Label,
		Message: body,
		Status:  "sent",
		Channel: sender.Channel(),
		SentAt:  s.now().UTC(),
	}
	if err := sender.Send(ctx, to, body); err != nil {
		s.log.Error("Failed to send reminder", "channel", sender.Channel(), "error", err)
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	}
	metrics.Reminders.WithLabelValues(entry.Status).Inc()
	s.history.Append(ctx, entry)
	return entry, true
}

func (s *ReminderService) render(p models.UserProfile, status analytics.DdayStatus) string {
	msg := strings.ReplaceAll(s.template.Message, "[Nickname]", p.Nickname)
	msg = strings.ReplaceAll(msg, "[Label]", status.Label)
	return strings.ReplaceAll(msg, "[Message]", status.Message)
}
