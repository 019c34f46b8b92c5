// Package calendar implements the booking calendar port against the
// Calendly REST API.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	bookingcal "github.com/shibbu04/scaler-apm/internal/booking/calendar"
	"github.com/shibbu04/scaler-apm/platform/apperr"
	"github.com/shibbu04/scaler-apm/platform/config"
	"github.com/shibbu04/scaler-apm/platform/logger"
)

const defaultBaseURL = "https://api.calendly.com"

// Calendly talks to the Calendly scheduling API.
type Calendly struct {
	http      *http.Client
	baseURL   string
	token     string
	userURI   string
	eventType string
	log       *logger.Logger
}

// NewCalendly builds the Calendly client, or returns nil when no API token
// is configured. Callers treat a nil provider as "booking disabled".
func NewCalendly(cfg config.CalendarConfig, log *logger.Logger) *Calendly {
	if !cfg.IsCalendarEnabled() {
		return nil
	}
	base := cfg.GetCalendlyBaseURL()
	if base == "" {
		base = defaultBaseURL
	}
	return &Calendly{
		http:      &http.Client{Timeout: cfg.GetCalendarTimeout()},
		baseURL:   strings.TrimRight(base, "/"),
		token:     cfg.GetCalendlyAPIToken(),
		userURI:   cfg.GetCalendlyUserURI(),
		eventType: cfg.GetCalendlyEventType(),
		log:       log,
	}
}

// DefaultEventType returns the configured consultation event type.
func (c *Calendly) DefaultEventType() string {
	return c.eventType
}

type scheduleRequest struct {
	EventType        string             `json:"event_type"`
	StartTime        time.Time          `json:"start_time"`
	EndTime          time.Time          `json:"end_time"`
	EventMemberships []eventMembership  `json:"event_memberships,omitempty"`
	Invitees         []invitee          `json:"invitees"`
	QuestionsAnswers []questionAndReply `json:"questions_and_answers,omitempty"`
}

type eventMembership struct {
	User string `json:"user"`
}

type invitee struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type questionAndReply struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type scheduleResponse struct {
	Resource struct {
		URI       string    `json:"uri"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	} `json:"resource"`
}

func (c *Calendly) Schedule(ctx context.Context, params bookingcal.ScheduleParams) (bookingcal.Booking, error) {
	eventType := params.EventType
	if eventType == "" {
		eventType = c.eventType
	}

	body := scheduleRequest{
		EventType: eventType,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Invitees:  []invitee{{Email: params.InviteeEmail, Name: params.InviteeName}},
	}
	if c.userURI != "" {
		body.EventMemberships = []eventMembership{{User: c.userURI}}
	}
	for question, answer := range params.Questions {
		body.QuestionsAnswers = append(body.QuestionsAnswers, questionAndReply{Question: question, Answer: answer})
	}

	var resp scheduleResponse
	if err := c.do(ctx, http.MethodPost, "/scheduled_events", nil, body, &resp); err != nil {
		return bookingcal.Booking{}, err
	}

	id := resp.Resource.URI
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	if id == "" {
		return bookingcal.Booking{}, apperr.Upstream("calendly returned no event uri", 0)
	}
	return bookingcal.Booking{
		ID:        id,
		StartTime: resp.Resource.StartTime,
		EndTime:   resp.Resource.EndTime,
	}, nil
}

type availabilityResponse struct {
	Collection []struct {
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
		Status    string    `json:"status"`
	} `json:"collection"`
}

func (c *Calendly) Availability(ctx context.Context, eventType string, from, to time.Time) ([]bookingcal.Slot, error) {
	if eventType == "" {
		eventType = c.eventType
	}
	query := url.Values{
		"event_type": {eventType},
		"start_time": {from.Format(time.RFC3339)},
		"end_time":   {to.Format(time.RFC3339)},
	}

	var resp availabilityResponse
	if err := c.do(ctx, http.MethodGet, "/event_type_available_times", query, nil, &resp); err != nil {
		return nil, err
	}

	slots := make([]bookingcal.Slot, 0, len(resp.Collection))
	for _, s := range resp.Collection {
		slots = append(slots, bookingcal.Slot{Start: s.StartTime, End: s.EndTime, Status: s.Status})
	}
	return slots, nil
}

func (c *Calendly) Cancel(ctx context.Context, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/scheduled_events/"+url.PathEscape(bookingID), nil, nil, nil)
}

// do runs one authenticated request and decodes the response into out.
// Upstream auth and validation failures keep their status so the handler
// layer can relay 401/422 instead of a blanket 502.
func (c *Calendly) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.UpstreamError("calendly", method+" "+path, err)
		return apperr.Wrap(apperr.KindUpstream, "calendar provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.UpstreamError("calendly", method+" "+path, fmt.Errorf("status %d", resp.StatusCode))
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return apperr.Upstream("calendly authentication failed", http.StatusUnauthorized)
		case http.StatusUnprocessableEntity:
			return apperr.Upstream("invalid booking data or time slot unavailable", http.StatusUnprocessableEntity)
		default:
			return apperr.Upstream(fmt.Sprintf("calendly request failed with status %d", resp.StatusCode), resp.StatusCode)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindUpstream, "malformed calendly response", err)
	}
	return nil
}

var _ bookingcal.Provider = (*Calendly)(nil)
