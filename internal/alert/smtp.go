package alert

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
)

// SMTPConfig holds connection settings for the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender delivers alerts through a plain SMTP submission endpoint,
// authenticating as the user and mailing the alert back to them.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender validates the config and returns an SMTPSender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is empty")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp port must be positive")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("smtp username is empty")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Name returns the backend name.
func (s *SMTPSender) Name() string { return "smtp" }

// Send delivers the alert. SendMail upgrades to TLS via STARTTLS when the
// server advertises it.
func (s *SMTPSender) Send(ctx context.Context, a Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.Username, a.To, a.Subject(), a.Body())

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.Username, []string{a.To}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
