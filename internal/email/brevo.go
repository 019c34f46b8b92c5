// Package email provides the nurture email bounded context: list
// subscription, transactional sending, open/click tracking and bulk
// campaigns. Delivery goes through Brevo's REST API or plain SMTP,
// selected by configuration.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shibbu04/scaler-apm/platform/config"
)

// Sender delivers one rendered transactional email.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, htmlContent string) error
}

// ContactSubscriber adds a lead to the marketing contact list.
// Implementations return ErrAlreadySubscribed for repeat subscriptions so
// callers can treat them as success.
type ContactSubscriber interface {
	SubscribeContact(ctx context.Context, toEmail string, attributes map[string]string) error
}

// ErrAlreadySubscribed reports that the contact is already on the list.
var ErrAlreadySubscribed = errors.New("contact already subscribed")

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

func (NoopSender) SubscribeContact(ctx context.Context, toEmail string, attributes map[string]string) error {
	return nil
}

// BrevoSender delivers via the Brevo (Sendinblue) REST API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	listID    int64
	client    *http.Client
}

const brevoBaseURL = "https://api.brevo.com/v3"

// NewSender selects the delivery implementation from configuration:
// "brevo", "smtp", or a no-op when email is disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "smtp":
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	case "", "brevo":
		return NewBrevoSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}

func NewBrevoSender(cfg config.EmailConfig) *BrevoSender {
	return &BrevoSender{
		apiKey:    cfg.GetBrevoAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		listID:    cfg.GetBrevoListID(),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

func (b *BrevoSender) Send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	return b.post(ctx, "/smtp/email", payload)
}

type brevoContactRequest struct {
	Email         string            `json:"email"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	ListIDs       []int64           `json:"listIds,omitempty"`
	UpdateEnabled bool              `json:"updateEnabled"`
}

// SubscribeContact adds the lead to the configured Brevo list. A duplicate
// contact maps to ErrAlreadySubscribed.
func (b *BrevoSender) SubscribeContact(ctx context.Context, toEmail string, attributes map[string]string) error {
	payload := brevoContactRequest{
		Email:      toEmail,
		Attributes: attributes,
	}
	if b.listID != 0 {
		payload.ListIDs = []int64{b.listID}
	}

	err := b.post(ctx, "/contacts", payload)
	if err != nil && strings.Contains(err.Error(), "duplicate_parameter") {
		return ErrAlreadySubscribed
	}
	return err
}

func (b *BrevoSender) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("brevo %s: status %d: %s", path, resp.StatusCode, string(detail))
	}
	return nil
}
