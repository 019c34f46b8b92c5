// Package notification reacts to domain events with outward side effects:
// sales-team webhooks and lifecycle emails. Publishing modules never know
// about providers or templates; this module inverts that dependency.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	emailmodule "github.com/shibbu04/scaler-apm/internal/email"
	"github.com/shibbu04/scaler-apm/internal/events"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	"github.com/shibbu04/scaler-apm/platform/config"
	"github.com/shibbu04/scaler-apm/platform/logger"
)

// webhookTimeout bounds the sales webhook call so a slow endpoint never
// blocks event dispatch.
const webhookTimeout = 5 * time.Second

// LeadReader resolves leads for notification payloads.
type LeadReader interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// Module holds the event handlers for outbound notifications.
type Module struct {
	leads  LeadReader
	emails *emailmodule.Service
	cfg    config.NotificationConfig
	log    *logger.Logger
	client *http.Client
}

func New(leads LeadReader, emails *emailmodule.Service, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		leads:  leads,
		emails: emails,
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CallbackRequested{}.EventName(), events.HandlerFunc(m.handleCallbackRequested))
	bus.Subscribe(events.CallBooked{}.EventName(), events.HandlerFunc(m.handleCallBooked))
	bus.Subscribe(events.CallCompleted{}.EventName(), events.HandlerFunc(m.handleCallCompleted))
	bus.Subscribe(events.LeadConverted{}.EventName(), events.HandlerFunc(m.handleLeadConverted))
}

// salesAlert is the webhook payload for high-intent callback requests.
type salesAlert struct {
	Type          string `json:"type"`
	LeadID        string `json:"leadId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CareerGoal    string `json:"careerGoal"`
	LeadScore     int    `json:"leadScore"`
	PreferredTime string `json:"preferredTime"`
	Timezone      string `json:"timezone"`
	Urgency       string `json:"urgency"`
	RequestedAt   string `json:"requestedAt"`
}

// handleCallbackRequested posts the callback details to the sales webhook.
// Delivery is best effort; failures are logged and never bubble up to the
// lead-facing flow.
func (m *Module) handleCallbackRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CallbackRequested)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	webhookURL := m.cfg.GetSalesWebhookURL()
	if webhookURL == "" {
		m.log.Debug("sales webhook not configured, skipping callback alert", "leadId", e.LeadID)
		return nil
	}

	alert := salesAlert{
		Type:          "callback_request",
		LeadID:        e.LeadID.String(),
		Name:          e.FullName,
		Email:         e.Email,
		Phone:         e.Phone,
		CareerGoal:    e.CareerGoal,
		LeadScore:     e.LeadScore,
		PreferredTime: e.PreferredTime,
		Timezone:      e.Timezone,
		Urgency:       e.Urgency,
		RequestedAt:   e.OccurredAt().UTC().Format(time.RFC3339),
	}

	if err := m.postJSON(ctx, webhookURL, alert); err != nil {
		m.log.UpstreamError("sales webhook", "callback alert", err)
		return nil
	}

	m.log.Info("sales team notified of callback request", "leadId", e.LeadID, "urgency", e.Urgency)
	return nil
}

// handleCallBooked sends the booking confirmation email.
func (m *Module) handleCallBooked(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CallBooked)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	lead, err := m.leads.Get(ctx, e.LeadID)
	if err != nil {
		return fmt.Errorf("resolve lead for booking confirmation: %w", err)
	}

	if err := m.emails.SendBookingConfirmation(ctx, lead, e.StartTime, e.Timezone); err != nil {
		m.log.Error("booking confirmation email failed", "leadId", e.LeadID, "error", err)
		return nil
	}

	m.log.Info("booking confirmation sent", "leadId", e.LeadID, "bookingId", e.BookingID)
	return nil
}

// handleCallCompleted sends the post-call follow-up email.
func (m *Module) handleCallCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CallCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	lead, err := m.leads.Get(ctx, e.LeadID)
	if err != nil {
		return fmt.Errorf("resolve lead for follow-up: %w", err)
	}

	if err := m.emails.SendPostCallFollowUp(ctx, lead, e.Outcome); err != nil {
		m.log.Error("post-call follow-up email failed", "leadId", e.LeadID, "error", err)
		return nil
	}

	m.log.Info("post-call follow-up sent", "leadId", e.LeadID, "outcome", e.Outcome)
	return nil
}

// handleLeadConverted records the conversion. Revenue reporting reads it
// from the lead itself, so an audit log line is all that is needed here.
func (m *Module) handleLeadConverted(_ context.Context, event events.Event) error {
	e, ok := event.(events.LeadConverted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.log.Info("lead converted",
		"leadId", e.LeadID,
		"email", e.Email,
		"purchaseId", e.PurchaseID,
		"purchaseAmount", e.PurchaseAmount,
	)
	return nil
}

func (m *Module) postJSON(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, webhookTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
