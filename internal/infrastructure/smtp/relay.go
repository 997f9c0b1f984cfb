// Package smtp delivers composed contact messages through an SMTP relay.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
)

// Config describes how to reach the relay. Credentials are optional; when
// Username is empty no SMTP AUTH is attempted.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	TLS      string
	Timeout  time.Duration
}

// Relay sends messages with a fresh connection per call.
type Relay struct {
	cfg Config
}

// NewRelay validates cfg and returns a Relay.
func NewRelay(cfg Config) (*Relay, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if _, err := clientOptions(cfg); err != nil {
		return nil, err
	}
	return &Relay{cfg: cfg}, nil
}

// Send dials the relay and transmits msg. Cancelling ctx aborts the dial
// and the SMTP conversation.
func (r *Relay) Send(ctx context.Context, msg application.OutboundMessage) error {
	m, err := buildMessage(msg)
	if err != nil {
		return err
	}

	opts, err := clientOptions(r.cfg)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(r.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client setup: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", r.cfg.Host, r.cfg.Port, err)
	}
	return nil
}

func clientOptions(cfg Config) ([]mail.Option, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}

	switch strings.ToLower(strings.TrimSpace(cfg.TLS)) {
	case "", "mandatory", "starttls":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case "opportunistic":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case "ssl", "tls":
		opts = append(opts, mail.WithSSL())
	case "none", "plain":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("unknown smtp tls mode %q", cfg.TLS)
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts, nil
}

// buildMessage converts an OutboundMessage into a multipart/alternative mail.
func buildMessage(msg application.OutboundMessage) (*mail.Msg, error) {
	m := mail.NewMsg()

	if name := strings.TrimSpace(msg.From.Name); name != "" {
		if err := m.FromFormat(name, msg.From.Address); err != nil {
			return nil, fmt.Errorf("invalid sender %q: %w", msg.From.Address, err)
		}
	} else if err := m.From(msg.From.Address); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From.Address, err)
	}

	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient %v: %w", msg.To, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", msg.ReplyTo, err)
		}
	}

	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}
	return m, nil
}
