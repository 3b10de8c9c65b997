package notify

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Mailer delivers one customer email.
type Mailer interface {
	Send(to, subject, html string) error
}

// Message is an email handed to a Mailer.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Outbox keeps emails in memory instead of sending them.
type Outbox struct {
	mu   sync.Mutex
	sent []Message
}

// Send implements Mailer.
func (o *Outbox) Send(to, subject, html string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, Message{To: to, Subject: subject, HTML: html})
	return nil
}

// Sent returns the emails sent so far, oldest first.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}

// ResendSender delivers email through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds a sender using apiKey and the from address. Outbound
// calls are traced and bounded by timeout (10s when zero).
func NewResendSender(apiKey, from string, timeout time.Duration) *ResendSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &ResendSender{client: resend.NewCustomClient(httpClient, apiKey), from: from}
}

// Send implements Mailer.
func (s *ResendSender) Send(to, subject, html string) error {
	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend: send email: %w", err)
	}
	return nil
}

// LogSender writes emails to the log instead of delivering them. Used when no
// provider is configured.
type LogSender struct {
	Logger zerolog.Logger
}

// Send implements Mailer.
func (s LogSender) Send(to, subject, html string) error {
	s.Logger.Info().Str("to", to).Str("subject", subject).Int("bytes", len(html)).Msg("email not delivered: no provider configured")
	return nil
}
