package notify

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"resto-suite/internal/config"
	"resto-suite/internal/logger"
)

var ErrMailerNotConfigured = errors.New("email provider credentials are not configured")

// Sender delivers a single HTML email. Satisfied by Mailer and by test fakes.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Mailer sends transactional email over SMTP with a fixed sender identity.
type Mailer struct {
	cfg config.EmailConfig
	log *logger.Logger
}

func NewMailer(cfg config.EmailConfig, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// Send delivers one HTML email. Fails closed when SMTP credentials are
// missing rather than silently dropping the message.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.cfg.SMTPUsername == "" || m.cfg.SMTPPassword == "" {
		m.log.Error("EMAIL", "SMTP credentials missing, refusing to send")
		return ErrMailerNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromAddress, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUsername, m.cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Error("EMAIL", fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return fmt.Errorf("email provider error: %w", err)
	}

	m.log.Info("EMAIL", fmt.Sprintf("Email sent to %s: %s", to, subject))
	return nil
}
