// models/reminder_log.go
package models

import "time"

// ReminderLog records one reminder attempt.
type ReminderLog struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"` // local day the check ran for
	Dday         int       `json:"dday"`
	Label        string    `json:"label"`
	Message      string    `json:"message"`
	Status       string    `json:"status"` // sent, failed
	ErrorMessage string    `json:"errorMessage,omitempty"`
	Channel      string    `json:"channel"` // sms, log
	SentAt       time.Time `json:"sentAt"`
}

// ReminderTemplate is the body sent to the user. Placeholders: [Nickname],
// [Label], [Message].
type ReminderTemplate struct {
	Message  string `json:"message"`
	IsActive bool   `json:"isActive"`
}

var DefaultReminderTemplate = ReminderTemplate{
	Message:  "Hi [Nickname]! [Label]: [Message]",
	IsActive: true,
}
