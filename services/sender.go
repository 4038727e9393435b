package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"cutine-backend/config"
)

const (
	ChannelSMS = "sms"
	ChannelLog = "log"
)

// Sender delivers one reminder body to a destination.
type Sender interface {
	Channel() string
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends reminders as SMS.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	log    *config.Logger
}

func NewTwilioSender(cfg config.TwilioConfig, log *config.Logger) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from: cfg.PhoneNumber,
		log:  log.With("sender", ChannelSMS),
	}
}

func (s *TwilioSender) Channel() string { return ChannelSMS }

func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid != nil {
		s.log.Info("reminder sms sent", "to", to, "sid", *resp.Sid)
	} else {
		s.log.Info("reminder sms sent, no SID returned", "to", to)
	}
	return nil
}

// LogSender writes reminders to the application log. It stands in when SMS
// is not configured or the profile has no phone number.
type LogSender struct {
	log *config.Logger
}

func NewLogSender(log *config.Logger) *LogSender {
	return &LogSender{log: log.With("sender", ChannelLog)}
}

func (s *LogSender) Channel() string { return ChannelLog }

func (s *LogSender) Send(_ context.Context, to, body string) error {
	s.log.Info("reminder", "to", to, "body", body)
	return nil
}
