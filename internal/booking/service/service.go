// Package service coordinates consultation bookings: it books slots with
// the calendar provider, runs the matching lifecycle events on the lead,
// and announces call milestones on the event bus.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/booking/calendar"
	"github.com/shibbu04/scaler-apm/internal/booking/transport"
	"github.com/shibbu04/scaler-apm/internal/events"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	leadrepo "github.com/shibbu04/scaler-apm/internal/leads/repository"
	"github.com/shibbu04/scaler-apm/platform/apperr"
	"github.com/shibbu04/scaler-apm/platform/sanitize"
)

// DefaultUpcomingDays is the window of the upcoming-bookings report.
const DefaultUpcomingDays = 7

// LeadAccess is the slice of the lead service the booking flow needs.
// Bookings never create leads: an unknown email is a hard not-found.
type LeadAccess interface {
	FindByEmail(ctx context.Context, email string) (domain.Lead, error)
	FindByBookingID(ctx context.Context, bookingID string) (domain.Lead, error)
	Ensure(ctx context.Context, params leadrepo.UpsertParams) (domain.Lead, bool, error)
	ApplyLifecycle(ctx context.Context, id uuid.UUID, ev domain.LifecycleEvent) (domain.Lead, error)
	UpcomingCalls(ctx context.Context, from, to time.Time) ([]domain.Lead, error)
}

type Service struct {
	leads    LeadAccess
	provider calendar.Provider
	bus      events.Bus
}

func New(leads LeadAccess, provider calendar.Provider, bus events.Bus) *Service {
	return &Service{leads: leads, provider: provider, bus: bus}
}

// Enabled reports whether a calendar provider is configured.
func (s *Service) Enabled() bool {
	return s.provider != nil
}

func (s *Service) requireProvider() error {
	if s.provider == nil {
		return apperr.Upstream("calendar provider not configured", 0)
	}
	return nil
}

// Schedule books a consultation for an existing lead. The provider call
// happens first; a provider failure surfaces to the caller and the lead is
// left untouched.
func (s *Service) Schedule(ctx context.Context, req transport.ScheduleRequest) (transport.ScheduleResponse, error) {
	if err := s.requireProvider(); err != nil {
		return transport.ScheduleResponse{}, err
	}
	if err := validateSlot(req.StartTime, req.EndTime); err != nil {
		return transport.ScheduleResponse{}, err
	}

	email := req.Email
	if req.GuestEmail != "" {
		email = req.GuestEmail
	}
	lead, err := s.leads.FindByEmail(ctx, email)
	if err != nil {
		return transport.ScheduleResponse{}, err
	}

	inviteeName := req.GuestName
	if inviteeName == "" {
		inviteeName = lead.FullName()
	}
	booking, err := s.provider.Schedule(ctx, calendar.ScheduleParams{
		EventType:    req.EventTypeID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		InviteeEmail: email,
		InviteeName:  inviteeName,
		Questions:    req.AdditionalQuestions,
	})
	if err != nil {
		return transport.ScheduleResponse{}, err
	}

	// Booking questions can enrich the profile before the lifecycle runs.
	if params, any := profileAnswers(lead.Email, req.AdditionalQuestions); any {
		if lead, _, err = s.leads.Ensure(ctx, params); err != nil {
			return transport.ScheduleResponse{}, err
		}
	}

	lead, err = s.leads.ApplyLifecycle(ctx, lead.ID, domain.BookingScheduled{
		BookingID: booking.ID,
		StartTime: req.StartTime,
	})
	if err != nil {
		return transport.ScheduleResponse{}, err
	}

	s.bus.Publish(ctx, events.CallBooked{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Email:     lead.Email,
		FirstName: lead.FirstName,
		BookingID: booking.ID,
		StartTime: req.StartTime,
		Timezone:  req.Timezone,
	})

	return transport.ScheduleResponse{
		Message:          "Booking scheduled successfully",
		BookingID:        booking.ID,
		ScheduledTime:    req.StartTime,
		LeadID:           lead.ID.String(),
		ConfirmationSent: true,
	}, nil
}

// Availability lists the provider's open slots for the window.
func (s *Service) Availability(ctx context.Context, eventType string, from, to time.Time) (transport.AvailabilityResponse, error) {
	if err := s.requireProvider(); err != nil {
		return transport.AvailabilityResponse{}, err
	}
	if !to.After(from) {
		return transport.AvailabilityResponse{}, apperr.Validation("endDate must be after startDate")
	}

	slots, err := s.provider.Availability(ctx, eventType, from, to)
	if err != nil {
		return transport.AvailabilityResponse{}, err
	}

	out := make([]transport.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, transport.SlotResponse{Start: slot.Start, End: slot.End, Status: slot.Status})
	}
	return transport.AvailabilityResponse{
		EventType: eventType,
		DateRange: transport.DateRange{StartDate: from, EndDate: to},
		Slots:     out,
		Timezone:  "UTC",
	}, nil
}

// Reschedule cancels the provider-side event and books the new slot, then
// moves the lead's booking fields over.
func (s *Service) Reschedule(ctx context.Context, req transport.RescheduleRequest) (transport.RescheduleResponse, error) {
	if err := s.requireProvider(); err != nil {
		return transport.RescheduleResponse{}, err
	}
	if err := validateSlot(req.NewStartTime, req.NewEndTime); err != nil {
		return transport.RescheduleResponse{}, err
	}

	lead, err := s.leads.FindByBookingID(ctx, req.BookingID)
	if err != nil {
		return transport.RescheduleResponse{}, err
	}

	if err := s.provider.Cancel(ctx, req.BookingID); err != nil {
		return transport.RescheduleResponse{}, err
	}
	booking, err := s.provider.Schedule(ctx, calendar.ScheduleParams{
		StartTime:    req.NewStartTime,
		EndTime:      req.NewEndTime,
		InviteeEmail: lead.Email,
		InviteeName:  lead.FullName(),
	})
	if err != nil {
		return transport.RescheduleResponse{}, err
	}

	if _, err := s.leads.ApplyLifecycle(ctx, lead.ID, domain.BookingRescheduled{
		BookingID: booking.ID,
		StartTime: req.NewStartTime,
		Reason:    sanitize.Text(req.Reason),
	}); err != nil {
		return transport.RescheduleResponse{}, err
	}

	return transport.RescheduleResponse{
		Message:          "Booking rescheduled successfully",
		NewBookingID:     booking.ID,
		NewScheduledTime: req.NewStartTime,
	}, nil
}

// Cancel drops the provider-side event and reverts the lead to warm.
func (s *Service) Cancel(ctx context.Context, req transport.CancelRequest) (transport.CancelResponse, error) {
	if err := s.requireProvider(); err != nil {
		return transport.CancelResponse{}, err
	}

	lead, err := s.leads.FindByBookingID(ctx, req.BookingID)
	if err != nil {
		return transport.CancelResponse{}, err
	}

	if err := s.provider.Cancel(ctx, req.BookingID); err != nil {
		return transport.CancelResponse{}, err
	}

	if _, err := s.leads.ApplyLifecycle(ctx, lead.ID, domain.BookingCancelled{
		Reason: sanitize.Text(req.Reason),
	}); err != nil {
		return transport.CancelResponse{}, err
	}

	return transport.CancelResponse{
		Message: "Booking cancelled successfully",
		LeadID:  lead.ID.String(),
	}, nil
}

// Complete records the outcome of a finished call and publishes the
// milestone. No provider call is involved; the event already happened.
func (s *Service) Complete(ctx context.Context, req transport.CompleteRequest) (transport.CompleteResponse, error) {
	lead, err := s.leads.FindByBookingID(ctx, req.BookingID)
	if err != nil {
		return transport.CompleteResponse{}, err
	}

	lead, err = s.leads.ApplyLifecycle(ctx, lead.ID, domain.CallOutcomeRecorded{
		Outcome:        domain.CallOutcome(req.Outcome),
		Notes:          sanitize.Text(req.CallNotes),
		NextSteps:      sanitize.Text(req.NextSteps),
		CourseInterest: sanitize.Text(req.CourseInterest),
	})
	if err != nil {
		return transport.CompleteResponse{}, err
	}

	s.bus.Publish(ctx, events.CallCompleted{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		Email:          lead.Email,
		FirstName:      lead.FirstName,
		Outcome:        req.Outcome,
		CourseInterest: lead.CourseInterest,
	})

	return transport.CompleteResponse{
		Message:  "Call marked as completed",
		LeadID:   lead.ID.String(),
		NewStage: string(lead.Stage),
	}, nil
}

// Upcoming lists pending consultations in the next `days` days.
func (s *Service) Upcoming(ctx context.Context, days int) (transport.UpcomingResponse, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	from := time.Now().UTC()
	to := from.AddDate(0, 0, days)

	leads, err := s.leads.UpcomingCalls(ctx, from, to)
	if err != nil {
		return transport.UpcomingResponse{}, err
	}

	bookings := make([]transport.UpcomingBooking, 0, len(leads))
	for _, l := range leads {
		if l.CallScheduled == nil {
			continue
		}
		bookings = append(bookings, transport.UpcomingBooking{
			LeadID:        l.ID.String(),
			Email:         l.Email,
			FirstName:     l.FirstName,
			LastName:      l.LastName,
			Phone:         l.Phone,
			CareerGoal:    string(l.CareerGoal),
			CallScheduled: *l.CallScheduled,
			BookingID:     l.BookingID,
			Notes:         l.Notes,
		})
	}

	return transport.UpcomingResponse{
		Bookings:  bookings,
		Count:     len(bookings),
		DateRange: transport.DateRange{StartDate: from, EndDate: to},
	}, nil
}

// validateSlot rejects past or inverted slots before the provider is hit.
func validateSlot(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.Validation("startTime and endTime are required")
	}
	if !end.After(start) {
		return apperr.Validation("endTime must be after startTime")
	}
	if start.Before(time.Now()) {
		return apperr.Validation("startTime must be in the future")
	}
	return nil
}

// profileAnswers maps the recognised booking questions onto an upsert that
// enriches the lead profile. Unknown questions are ignored.
func profileAnswers(email string, questions map[string]string) (leadrepo.UpsertParams, bool) {
	params := leadrepo.UpsertParams{Email: email}
	any := false

	if goal := domain.CareerGoal(questions["careerGoal"]); goal.Valid() {
		params.CareerGoal = goal
		any = true
	}
	if role := sanitize.Text(questions["currentRole"]); role != "" {
		params.CurrentRole = role
		any = true
	}
	if company := sanitize.Text(questions["company"]); company != "" {
		params.Company = company
		any = true
	}
	return params, any
}
