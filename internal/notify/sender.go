package notify

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/mail.v2"
)

// EmailConfig holds SMTP configuration for delivering report emails. When
// Enabled is false the sender is a no-op and the composed message is only
// returned to the client for its own mail composer.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	Enabled    bool
}

// EmailSender delivers composed report messages via SMTP.
type EmailSender struct {
	cfg    EmailConfig
	logger zerolog.Logger
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig, logger zerolog.Logger) *EmailSender {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	return &EmailSender{cfg: cfg, logger: logger}
}

// Enabled reports whether SMTP delivery is configured.
func (s *EmailSender) Enabled() bool {
	return s.cfg.Enabled
}

// Send delivers the message to its recipient as plain text.
func (s *EmailSender) Send(msg Message) error {
	if !s.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("failed to send report email")
		return fmt.Errorf("failed to send report email: %w", err)
	}

	s.logger.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("report email sent")
	return nil
}
