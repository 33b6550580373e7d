package whatsapp

import (
	"fmt"

	"resto-suite/internal/logger"
)

// MessageSender delivers a text reply to a customer phone.
type MessageSender interface {
	SendText(phone, text string) error
}

// LoggingSender records outbound replies in the log instead of calling a
// provider. The real Cloud API transport plugs in behind MessageSender once
// provider credentials exist.
type LoggingSender struct {
	Log *logger.Logger
}

func NewLoggingSender(log *logger.Logger) *LoggingSender {
	return &LoggingSender{Log: log}
}

func (s *LoggingSender) SendText(phone, text string) error {
	s.Log.LogWhatsApp("SEND", phone, fmt.Sprintf("%.120s", text))
	return nil
}
