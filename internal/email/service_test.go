package email

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/email/transport"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	leadrepo "github.com/shibbu04/scaler-apm/internal/leads/repository"
	leadtransport "github.com/shibbu04/scaler-apm/internal/leads/transport"
	"github.com/shibbu04/scaler-apm/platform/apperr"
	"github.com/shibbu04/scaler-apm/platform/logger"
)

type sentEmail struct {
	To      string
	Subject string
	HTML    string
}

// fakeSender is safe for concurrent use; bulk sends fan out per chunk.
type fakeSender struct {
	mu         sync.Mutex
	sent       []sentEmail
	failFor    map[string]bool
	subErr     error
	subscribed []string
	attrs      map[string]string
}

func (f *fakeSender) Send(_ context.Context, to, subject, html string) error {
	if f.failFor[to] {
		return apperr.Upstream("provider rejected message", 0)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

func (f *fakeSender) SubscribeContact(_ context.Context, to string, attributes map[string]string) error {
	if f.subErr != nil {
		return f.subErr
	}
	f.subscribed = append(f.subscribed, to)
	f.attrs = attributes
	return nil
}

type fakeLeads struct {
	lead    domain.Lead
	missing bool
	applied []domain.LifecycleEvent
	listing []leadtransport.LeadResponse
}

func (f *fakeLeads) FindByEmail(_ context.Context, email string) (domain.Lead, error) {
	if f.missing || !strings.EqualFold(email, f.lead.Email) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return f.lead, nil
}

func (f *fakeLeads) Get(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	if f.missing || id != f.lead.ID {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return f.lead, nil
}

func (f *fakeLeads) ApplyLifecycle(_ context.Context, id uuid.UUID, ev domain.LifecycleEvent) (domain.Lead, error) {
	if id != f.lead.ID {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	f.applied = append(f.applied, ev)
	f.lead = domain.Apply(f.lead, ev)
	return f.lead, nil
}

func (f *fakeLeads) RecordEngagement(_ context.Context, id uuid.UUID, req leadtransport.EmailEngagementRequest) (leadtransport.LeadResponse, error) {
	if id != f.lead.ID {
		return leadtransport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	switch req.Type {
	case "opened":
		f.lead.Engagement.OpenedCount++
		f.lead = domain.Apply(f.lead, domain.EmailOpened{})
	case "clicked":
		f.lead.Engagement.ClickedCount++
		f.lead = domain.Apply(f.lead, domain.EmailClicked{URL: req.URL})
	}
	return leadtransport.LeadResponse{ID: f.lead.ID, Stage: f.lead.Stage}, nil
}

func (f *fakeLeads) List(_ context.Context, params leadrepo.ListParams) (leadtransport.ListLeadsResponse, error) {
	if params.Page > 1 {
		return leadtransport.ListLeadsResponse{Page: params.Page, TotalPages: 1}, nil
	}
	return leadtransport.ListLeadsResponse{
		Leads:      f.listing,
		Total:      len(f.listing),
		Page:       1,
		PerPage:    params.PerPage,
		TotalPages: 1,
	}, nil
}

type testConfig struct{}

func (testConfig) GetAppBaseURL() string      { return "https://app.example.com" }
func (testConfig) GetSalesWebhookURL() string { return "" }

func testLead() domain.Lead {
	return domain.Lead{
		ID:         uuid.New(),
		Email:      "priya@example.com",
		FirstName:  "Priya",
		Source:     domain.SourceBlog,
		CareerGoal: domain.GoalDataEngineering,
		Stage:      domain.StageCold,
		IsActive:   true,
	}
}

func newTestService(leads *fakeLeads, sender *fakeSender) *Service {
	return NewService(leads, sender, testConfig{}, logger.New("test"))
}

func TestSubscribePromotesLeadAndSendsWelcome(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	sender := &fakeSender{}
	svc := newTestService(leads, sender)

	resp, err := svc.Subscribe(context.Background(), transport.SubscribeRequest{
		Email: "priya@example.com",
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if resp.Message != "Successfully subscribed to email sequence" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if resp.LeadID != leads.lead.ID {
		t.Fatalf("expected lead id in response")
	}
	if leads.lead.Stage != domain.StageWarm {
		t.Fatalf("expected warm after subscribing, got %s", leads.lead.Stage)
	}
	if leads.lead.LastTouchpoint != domain.TouchEmail {
		t.Fatalf("expected email touchpoint, got %s", leads.lead.LastTouchpoint)
	}
	if len(sender.subscribed) != 1 || sender.subscribed[0] != "priya@example.com" {
		t.Fatalf("expected contact subscription, got %v", sender.subscribed)
	}
	if sender.attrs["CAREER"] != "data-engineering" {
		t.Fatalf("expected career attribute from lead, got %q", sender.attrs["CAREER"])
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one welcome email, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Subject, "Data Engineering Roadmap") {
		t.Fatalf("unexpected welcome subject %q", sender.sent[0].Subject)
	}
	if !strings.Contains(sender.sent[0].HTML, "Hi Priya") {
		t.Fatalf("welcome body not personalized")
	}
}

func TestSubscribeRepeatIsSuccess(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	sender := &fakeSender{subErr: ErrAlreadySubscribed}
	svc := newTestService(leads, sender)

	resp, err := svc.Subscribe(context.Background(), transport.SubscribeRequest{
		Email: "priya@example.com",
	})
	if err != nil {
		t.Fatalf("repeat subscribe must not fail: %v", err)
	}
	if resp.Message != "Already subscribed" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if len(leads.applied) != 0 {
		t.Fatalf("repeat subscribe must not touch the lead")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("repeat subscribe must not resend the welcome email")
	}
}

func TestSubscribeUnknownLeadFails(t *testing.T) {
	leads := &fakeLeads{lead: testLead(), missing: true}
	sender := &fakeSender{}
	svc := newTestService(leads, sender)

	_, err := svc.Subscribe(context.Background(), transport.SubscribeRequest{
		Email: "nobody@example.com",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if len(sender.subscribed) != 0 {
		t.Fatalf("unknown leads must not reach the provider")
	}
}

func TestSubscribeDefaultsCareerAttribute(t *testing.T) {
	lead := testLead()
	lead.CareerGoal = ""
	leads := &fakeLeads{lead: lead}
	sender := &fakeSender{}
	svc := newTestService(leads, sender)

	if _, err := svc.Subscribe(context.Background(), transport.SubscribeRequest{
		Email: "priya@example.com",
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if sender.attrs["CAREER"] != "general" {
		t.Fatalf("expected general fallback, got %q", sender.attrs["CAREER"])
	}
}

func TestTrackClickRejectsInvalidURL(t *testing.T) {
	svc := newTestService(&fakeLeads{lead: testLead()}, &fakeSender{})

	for _, raw := range []string{"", "javascript:alert(1)", "notaurl", "ftp://files.example.com/x"} {
		if _, err := svc.TrackClick(context.Background(), "priya@example.com", raw); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}

func TestTrackClickRedirectsUnknownLead(t *testing.T) {
	svc := newTestService(&fakeLeads{lead: testLead(), missing: true}, &fakeSender{})

	target, err := svc.TrackClick(context.Background(), "nobody@example.com", "https://scaler.com/courses")
	if err != nil {
		t.Fatalf("unknown lead must still redirect: %v", err)
	}
	if target != "https://scaler.com/courses" {
		t.Fatalf("unexpected redirect target %q", target)
	}
}

func TestTrackClickBookingLinkPromotesToHot(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	svc := newTestService(leads, &fakeSender{})

	if _, err := svc.TrackClick(context.Background(), "priya@example.com", "https://app.example.com/book"); err != nil {
		t.Fatalf("track click failed: %v", err)
	}
	if leads.lead.Stage != domain.StageHot {
		t.Fatalf("expected hot after booking click, got %s", leads.lead.Stage)
	}
	if leads.lead.Engagement.ClickedCount != 1 {
		t.Fatalf("expected click recorded, got %d", leads.lead.Engagement.ClickedCount)
	}
}

func TestTrackOpenRecordsEngagement(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	svc := newTestService(leads, &fakeSender{})

	svc.TrackOpen(context.Background(), "priya@example.com")
	if leads.lead.Engagement.OpenedCount != 1 {
		t.Fatalf("expected open recorded, got %d", leads.lead.Engagement.OpenedCount)
	}
	if leads.lead.LastTouchpoint != domain.TouchEmail {
		t.Fatalf("expected email touchpoint, got %s", leads.lead.LastTouchpoint)
	}
}

func TestSendNurtureRendersEachType(t *testing.T) {
	for _, emailType := range []string{"resource-delivery", "social-proof", "booking-reminder", "final-offer"} {
		leads := &fakeLeads{lead: testLead()}
		sender := &fakeSender{}
		svc := newTestService(leads, sender)

		resp, err := svc.SendNurture(context.Background(), transport.NurtureRequest{
			LeadID:    leads.lead.ID,
			EmailType: emailType,
		})
		if err != nil {
			t.Fatalf("%s: send failed: %v", emailType, err)
		}
		if resp.EmailType != emailType {
			t.Fatalf("%s: unexpected response type %q", emailType, resp.EmailType)
		}
		if len(sender.sent) != 1 {
			t.Fatalf("%s: expected one email, got %d", emailType, len(sender.sent))
		}
		sent := sender.sent[0]
		if sent.Subject == "" || sent.HTML == "" {
			t.Fatalf("%s: empty subject or body", emailType)
		}
		if !strings.Contains(sent.HTML, "Hi Priya") {
			t.Fatalf("%s: body not personalized", emailType)
		}
		if !strings.Contains(sent.HTML, "track-open?email=priya%40example.com") {
			t.Fatalf("%s: tracking pixel missing", emailType)
		}
	}
}

func TestSendNurtureUnknownLeadFails(t *testing.T) {
	svc := newTestService(&fakeLeads{lead: testLead()}, &fakeSender{})

	_, err := svc.SendNurture(context.Background(), transport.NurtureRequest{
		LeadID:    uuid.New(),
		EmailType: "social-proof",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func bulkListing(n int) []leadtransport.LeadResponse {
	out := make([]leadtransport.LeadResponse, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, leadtransport.LeadResponse{
			ID:         uuid.New(),
			Email:      string(rune('a'+i)) + "@example.com",
			FirstName:  "Lead",
			CareerGoal: domain.GoalSoftwareEngineering,
		})
	}
	return out
}

func TestBulkSendCountsFailures(t *testing.T) {
	leads := &fakeLeads{lead: testLead(), listing: bulkListing(3)}
	sender := &fakeSender{failFor: map[string]bool{leads.listing[1].Email: true}}
	svc := newTestService(leads, sender)

	resp, err := svc.BulkSend(context.Background(), transport.BulkSendRequest{
		EmailType: "social-proof",
	})
	if err != nil {
		t.Fatalf("bulk send failed: %v", err)
	}

	stats := resp.Stats
	if stats.TotalTargeted != 3 || stats.SuccessCount != 2 || stats.ErrorCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.SuccessRate != 66.67 {
		t.Fatalf("expected rate 66.67, got %v", stats.SuccessRate)
	}
	if !strings.HasPrefix(resp.CampaignID, "campaign_") {
		t.Fatalf("unexpected campaign id %q", resp.CampaignID)
	}
}

func TestBulkSendTestModeCapsTargets(t *testing.T) {
	leads := &fakeLeads{lead: testLead(), listing: bulkListing(25)}
	sender := &fakeSender{}
	svc := newTestService(leads, sender)

	resp, err := svc.BulkSend(context.Background(), transport.BulkSendRequest{
		EmailType: "final-offer",
		TestMode:  true,
	})
	if err != nil {
		t.Fatalf("bulk send failed: %v", err)
	}
	if resp.Stats.TotalTargeted != 10 || resp.Stats.SuccessCount != 10 {
		t.Fatalf("test mode must cap at 10, got %+v", resp.Stats)
	}
	if resp.Stats.SuccessRate != 100 {
		t.Fatalf("expected rate 100, got %v", resp.Stats.SuccessRate)
	}
}

func TestBulkSendEmptySegment(t *testing.T) {
	leads := &fakeLeads{lead: testLead()}
	svc := newTestService(leads, &fakeSender{})

	resp, err := svc.BulkSend(context.Background(), transport.BulkSendRequest{
		EmailType: "booking-reminder",
	})
	if err != nil {
		t.Fatalf("bulk send failed: %v", err)
	}
	if resp.Stats.TotalTargeted != 0 || resp.Stats.SuccessRate != 0 {
		t.Fatalf("expected empty stats with zero rate, got %+v", resp.Stats)
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(&fakeLeads{lead: testLead()}, sender)

	lead := testLead()
	start := time.Date(2026, time.September, 10, 14, 0, 0, 0, time.UTC)
	if err := svc.SendBookingConfirmation(context.Background(), lead, start, "UTC"); err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	sent := sender.sent[0]
	if !strings.Contains(sent.Subject, "Confirmed, Priya") {
		t.Fatalf("unexpected subject %q", sent.Subject)
	}
	if !strings.Contains(sent.HTML, "30 minutes") || !strings.Contains(sent.HTML, "Data Engineering") {
		t.Fatalf("booking details missing from body")
	}
}

func TestSendPostCallFollowUpIncludesCourse(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(&fakeLeads{lead: testLead()}, sender)

	lead := testLead()
	lead.CourseInterest = "Data Engineering Bootcamp"
	if err := svc.SendPostCallFollowUp(context.Background(), lead, "interested"); err != nil {
		t.Fatalf("follow-up failed: %v", err)
	}
	if !strings.Contains(sender.sent[0].HTML, "Data Engineering Bootcamp") {
		t.Fatalf("course interest missing from body")
	}
}

func TestSuccessRateRounding(t *testing.T) {
	if got := successRate(1, 3); got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := successRate(0, 0); got != 0 {
		t.Fatalf("expected zero sentinel, got %v", got)
	}
}
