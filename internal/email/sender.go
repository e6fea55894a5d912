// Package email distributes generated statements over SMTP: one send
// per recipient with retry, a courtesy delay between sends, and
// per-recipient outcome reporting.
package email

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// backoffStep is the base of the grow-per-attempt backoff between
// failed delivery attempts.
const backoffStep = 1200 * time.Millisecond

// Message is one outgoing mail with an optional PDF attachment
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// mailDialer is what Send needs from gomail; split out so tests can
// swap the network away.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender delivers messages through a configured SMTP relay
type Sender struct {
	cfg     config.SMTPConfig
	delay   time.Duration
	retries int
	dialer  mailDialer
	sleep   func(time.Duration)
	logger  *zap.Logger
}

// NewSender creates a Sender. Incomplete relay configuration fails
// here, before any send is attempted.
func NewSender(cfg config.SMTPConfig, delay time.Duration, retries int, logger *zap.Logger) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("smtp configuration incomplete: %w", err)
	}
	return &Sender{
		cfg:     cfg,
		delay:   delay,
		retries: retries,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		sleep:   time.Sleep,
		logger:  logger,
	}, nil
}

// Send delivers one message, retrying up to retries extra times with a
// backoff that grows per attempt. On success it pauses for the
// configured delay before returning, as rate-limiting courtesy to the
// relay. The returned error is the last attempt's error.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.User, s.cfg.FromName))
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.AttachmentName != "" && msg.Attachment != nil {
		m.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(msg.Attachment)
			return err
		}))
	}

	attempts := s.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.dialAndSend(ctx, m)
		if err == nil {
			s.logger.Info("Email sent",
				zap.String("to", msg.To),
				zap.Int("attempt", attempt))
			s.sleep(s.delay)
			return nil
		}

		lastErr = err
		s.logger.Warn("Email attempt failed",
			zap.String("to", msg.To),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		if attempt < attempts {
			s.sleep(time.Duration(attempt) * backoffStep)
		}
	}

	return fmt.Errorf("send to %s failed after %d attempts: %w", msg.To, attempts, lastErr)
}

// dialAndSend bounds one delivery attempt by the configured timeout;
// gomail itself has no deadline support.
func (s *Sender) dialAndSend(ctx context.Context, m *gomail.Message) error {
	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("smtp send timed out after %s", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RenderTemplate fills the {nama} and {nip} placeholders of a subject
// or body template.
func RenderTemplate(tpl, nama, nip string) string {
	return strings.NewReplacer("{nama}", nama, "{nip}", nip).Replace(tpl)
}
