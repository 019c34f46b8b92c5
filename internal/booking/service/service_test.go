package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/booking/calendar"
	"github.com/shibbu04/scaler-apm/internal/booking/transport"
	"github.com/shibbu04/scaler-apm/internal/events"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	leadrepo "github.com/shibbu04/scaler-apm/internal/leads/repository"
	"github.com/shibbu04/scaler-apm/platform/apperr"
)

type fakeLeads struct {
	lead    domain.Lead
	missing bool
	applied []domain.LifecycleEvent
}

func (f *fakeLeads) FindByEmail(_ context.Context, email string) (domain.Lead, error) {
	if f.missing || !strings.EqualFold(email, f.lead.Email) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return f.lead, nil
}

func (f *fakeLeads) FindByBookingID(_ context.Context, bookingID string) (domain.Lead, error) {
	if f.missing || bookingID != f.lead.BookingID {
		return domain.Lead{}, apperr.NotFound("booking not found")
	}
	return f.lead, nil
}

func (f *fakeLeads) Ensure(_ context.Context, params leadrepo.UpsertParams) (domain.Lead, bool, error) {
	if params.CareerGoal != "" {
		f.lead.CareerGoal = params.CareerGoal
	}
	if params.CurrentRole != "" {
		f.lead.CurrentRole = params.CurrentRole
	}
	if params.Company != "" {
		f.lead.Company = params.Company
	}
	return f.lead, false, nil
}

func (f *fakeLeads) ApplyLifecycle(_ context.Context, id uuid.UUID, ev domain.LifecycleEvent) (domain.Lead, error) {
	if id != f.lead.ID {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	f.applied = append(f.applied, ev)
	f.lead = domain.Apply(f.lead, ev)
	return f.lead, nil
}

func (f *fakeLeads) UpcomingCalls(_ context.Context, _, _ time.Time) ([]domain.Lead, error) {
	if f.lead.CallScheduled == nil || f.lead.CallCompleted {
		return nil, nil
	}
	return []domain.Lead{f.lead}, nil
}

type fakeProvider struct {
	booking   calendar.Booking
	slots     []calendar.Slot
	err       error
	scheduled int
	cancelled []string
}

func (f *fakeProvider) Schedule(_ context.Context, params calendar.ScheduleParams) (calendar.Booking, error) {
	if f.err != nil {
		return calendar.Booking{}, f.err
	}
	f.scheduled++
	b := f.booking
	if b.StartTime.IsZero() {
		b.StartTime = params.StartTime
		b.EndTime = params.EndTime
	}
	return b, nil
}

func (f *fakeProvider) Availability(_ context.Context, _ string, _, _ time.Time) ([]calendar.Slot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

func (f *fakeProvider) Cancel(_ context.Context, bookingID string) error {
	if f.err != nil {
		return f.err
	}
	f.cancelled = append(f.cancelled, bookingID)
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func testLead() domain.Lead {
	return domain.Lead{
		ID:        uuid.New(),
		Email:     "priya@example.com",
		FirstName: "Priya",
		Source:    domain.SourceBlog,
		Stage:     domain.StageWarm,
		IsActive:  true,
	}
}

func TestScheduleBooksAndPromotesLead(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	provider := &fakeProvider{booking: calendar.Booking{ID: "evt_abc"}}
	bus := &recordingBus{}
	svc := New(leads, provider, bus)

	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	resp, err := svc.Schedule(context.Background(), transport.ScheduleRequest{
		Email:     "priya@example.com",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Timezone:  "Asia/Kolkata",
		AdditionalQuestions: map[string]string{
			"careerGoal":  "data-engineering",
			"currentRole": "Analyst",
		},
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	if resp.BookingID != "evt_abc" {
		t.Fatalf("expected booking id evt_abc, got %q", resp.BookingID)
	}
	if leads.lead.Stage != domain.StageHot {
		t.Fatalf("expected hot after scheduling, got %s", leads.lead.Stage)
	}
	if leads.lead.BookingID != "evt_abc" || leads.lead.CallScheduled == nil {
		t.Fatalf("booking fields not set on lead: %+v", leads.lead)
	}
	if leads.lead.CareerGoal != domain.GoalDataEngineering {
		t.Fatalf("expected question answers merged, got %q", leads.lead.CareerGoal)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
	booked, ok := bus.published[0].(events.CallBooked)
	if !ok {
		t.Fatalf("expected CallBooked event, got %T", bus.published[0])
	}
	if booked.BookingID != "evt_abc" || booked.Email != "priya@example.com" {
		t.Fatalf("unexpected event payload: %+v", booked)
	}
}

func TestScheduleUnknownEmailFails(t *testing.T) {
	leads := &fakeLeads{lead: testLead(), missing: true}
	provider := &fakeProvider{booking: calendar.Booking{ID: "evt_abc"}}
	svc := New(leads, provider, &recordingBus{})

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.Schedule(context.Background(), transport.ScheduleRequest{
		Email:     "nobody@example.com",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if provider.scheduled != 0 {
		t.Fatalf("provider must not be called for unknown leads")
	}
}

func TestScheduleRejectsPastSlot(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	provider := &fakeProvider{}
	svc := New(leads, provider, &recordingBus{})

	start := time.Now().Add(-time.Hour)
	_, err := svc.Schedule(context.Background(), transport.ScheduleRequest{
		Email:     "priya@example.com",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if provider.scheduled != 0 {
		t.Fatalf("provider must not be called for invalid slots")
	}
}

func TestScheduleProviderFailureLeavesLeadUntouched(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	provider := &fakeProvider{err: apperr.Upstream("time slot unavailable", 422)}
	svc := New(leads, provider, &recordingBus{})

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.Schedule(context.Background(), transport.ScheduleRequest{
		Email:     "priya@example.com",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(leads.applied) != 0 {
		t.Fatalf("no lifecycle event should run on provider failure")
	}
	if leads.lead.Stage != domain.StageWarm {
		t.Fatalf("lead stage changed on failure: %s", leads.lead.Stage)
	}
}

func TestScheduleWithoutProviderFails(t *testing.T) {
	svc := New(&fakeLeads{lead: testLead()}, nil, &recordingBus{})

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.Schedule(context.Background(), transport.ScheduleRequest{
		Email:     "priya@example.com",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error with no provider, got %v", err)
	}
}

func TestCancelRevertsLeadToWarm(t *testing.T) {
	lead := testLead()
	lead.Stage = domain.StageHot
	lead.BookingID = "evt_abc"
	scheduled := time.Now().Add(24 * time.Hour)
	lead.CallScheduled = &scheduled

	leads := &fakeLeads{lead: lead}
	provider := &fakeProvider{}
	svc := New(leads, provider, &recordingBus{})

	resp, err := svc.Cancel(context.Background(), transport.CancelRequest{
		BookingID: "evt_abc",
		Reason:    "conflict came up",
	})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if len(provider.cancelled) != 1 || provider.cancelled[0] != "evt_abc" {
		t.Fatalf("provider cancel not called: %v", provider.cancelled)
	}
	if leads.lead.Stage != domain.StageWarm {
		t.Fatalf("expected warm after cancel, got %s", leads.lead.Stage)
	}
	if leads.lead.BookingID != "" || leads.lead.CallScheduled != nil {
		t.Fatalf("booking fields not cleared: %+v", leads.lead)
	}
	if !strings.Contains(leads.lead.Notes, "Cancelled: conflict came up") {
		t.Fatalf("cancel reason missing from notes: %q", leads.lead.Notes)
	}
	if resp.LeadID != leads.lead.ID.String() {
		t.Fatalf("unexpected lead id %q", resp.LeadID)
	}
}

func TestRescheduleMovesBooking(t *testing.T) {
	lead := testLead()
	lead.Stage = domain.StageHot
	lead.BookingID = "evt_old"
	scheduled := time.Now().Add(24 * time.Hour)
	lead.CallScheduled = &scheduled

	leads := &fakeLeads{lead: lead}
	provider := &fakeProvider{booking: calendar.Booking{ID: "evt_new"}}
	svc := New(leads, provider, &recordingBus{})

	newStart := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	resp, err := svc.Reschedule(context.Background(), transport.RescheduleRequest{
		BookingID:    "evt_old",
		NewStartTime: newStart,
		NewEndTime:   newStart.Add(30 * time.Minute),
		Reason:       "travel",
	})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}

	if resp.NewBookingID != "evt_new" {
		t.Fatalf("expected new booking id, got %q", resp.NewBookingID)
	}
	if len(provider.cancelled) != 1 || provider.cancelled[0] != "evt_old" {
		t.Fatalf("old booking not cancelled: %v", provider.cancelled)
	}
	if leads.lead.BookingID != "evt_new" {
		t.Fatalf("lead still holds old booking: %q", leads.lead.BookingID)
	}
	if !leads.lead.CallScheduled.Equal(newStart) {
		t.Fatalf("call time not moved: %v", leads.lead.CallScheduled)
	}
	if leads.lead.Stage != domain.StageHot {
		t.Fatalf("reschedule must not downgrade, got %s", leads.lead.Stage)
	}
}

func TestCompleteNotInterestedChurnsLead(t *testing.T) {
	lead := testLead()
	lead.Stage = domain.StageHot
	lead.BookingID = "evt_abc"
	scheduled := time.Now().Add(-time.Hour)
	lead.CallScheduled = &scheduled

	leads := &fakeLeads{lead: lead}
	bus := &recordingBus{}
	svc := New(leads, &fakeProvider{}, bus)

	resp, err := svc.Complete(context.Background(), transport.CompleteRequest{
		BookingID: "evt_abc",
		Outcome:   "not-interested",
		CallNotes: "wants to stay in current role",
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if resp.NewStage != "churned" {
		t.Fatalf("expected churned, got %q", resp.NewStage)
	}
	if !leads.lead.CallCompleted {
		t.Fatalf("call not marked completed")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected CallCompleted event, got %d events", len(bus.published))
	}
	completed, ok := bus.published[0].(events.CallCompleted)
	if !ok || completed.Outcome != "not-interested" {
		t.Fatalf("unexpected event: %+v", bus.published[0])
	}
}

func TestCompleteInterestedRecordsCourse(t *testing.T) {
	lead := testLead()
	lead.BookingID = "evt_abc"

	leads := &fakeLeads{lead: lead}
	svc := New(leads, &fakeProvider{}, &recordingBus{})

	resp, err := svc.Complete(context.Background(), transport.CompleteRequest{
		BookingID:      "evt_abc",
		Outcome:        "interested",
		CourseInterest: "data-engineering-bootcamp",
		NextSteps:      "send syllabus",
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if resp.NewStage != "hot" {
		t.Fatalf("expected hot, got %q", resp.NewStage)
	}
	if leads.lead.CourseInterest != "data-engineering-bootcamp" {
		t.Fatalf("course interest not recorded: %q", leads.lead.CourseInterest)
	}
	if !strings.Contains(leads.lead.Notes, "Next steps: send syllabus") {
		t.Fatalf("next steps missing from notes: %q", leads.lead.Notes)
	}
}

func TestCompleteUnknownBookingFails(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	svc := New(leads, &fakeProvider{}, &recordingBus{})

	_, err := svc.Complete(context.Background(), transport.CompleteRequest{
		BookingID: "evt_nope",
		Outcome:   "interested",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpcomingSkipsCompletedCalls(t *testing.T) {
	lead := testLead()
	scheduled := time.Now().Add(48 * time.Hour)
	lead.CallScheduled = &scheduled
	lead.BookingID = "evt_abc"

	leads := &fakeLeads{lead: lead}
	svc := New(leads, &fakeProvider{}, &recordingBus{})

	resp, err := svc.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if resp.Count != 1 || len(resp.Bookings) != 1 {
		t.Fatalf("expected one booking, got %+v", resp)
	}
	if resp.Bookings[0].BookingID != "evt_abc" {
		t.Fatalf("unexpected booking %+v", resp.Bookings[0])
	}

	leads.lead.CallCompleted = true
	resp, err = svc.Upcoming(context.Background(), 14)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("completed call should not appear, got %+v", resp)
	}
}

func TestAvailabilityPassesThroughSlots(t *testing.T) {
	now := time.Now().UTC()
	provider := &fakeProvider{slots: []calendar.Slot{
		{Start: now.Add(24 * time.Hour), End: now.Add(24*time.Hour + 30*time.Minute), Status: "available"},
	}}
	svc := New(&fakeLeads{lead: testLead()}, provider, &recordingBus{})

	resp, err := svc.Availability(context.Background(), "intro-call", now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if len(resp.Slots) != 1 || resp.Slots[0].Status != "available" {
		t.Fatalf("unexpected slots %+v", resp.Slots)
	}
	if resp.Timezone != "UTC" {
		t.Fatalf("expected UTC timezone, got %q", resp.Timezone)
	}
}

func TestAvailabilityInvertedRangeFails(t *testing.T) {
	svc := New(&fakeLeads{lead: testLead()}, &fakeProvider{}, &recordingBus{})

	now := time.Now()
	_, err := svc.Availability(context.Background(), "", now, now.Add(-time.Hour))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
