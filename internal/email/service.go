package email

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/email/transport"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	leadrepo "github.com/shibbu04/scaler-apm/internal/leads/repository"
	leadtransport "github.com/shibbu04/scaler-apm/internal/leads/transport"
	"github.com/shibbu04/scaler-apm/platform/apperr"
	"github.com/shibbu04/scaler-apm/platform/config"
	"github.com/shibbu04/scaler-apm/platform/logger"
)

const (
	// bulkChunkSize bounds the burst the provider sees per batch.
	bulkChunkSize = 50
	// bulkChunkDelay spaces batches to stay under provider rate limits.
	bulkChunkDelay = time.Second
	// bulkCap bounds a single campaign run.
	bulkCap = 1000
	// bulkTestCap applies instead when testMode is set.
	bulkTestCap = 10
)

// LeadAccess is the slice of the leads service the email module needs.
type LeadAccess interface {
	FindByEmail(ctx context.Context, email string) (domain.Lead, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	ApplyLifecycle(ctx context.Context, id uuid.UUID, ev domain.LifecycleEvent) (domain.Lead, error)
	RecordEngagement(ctx context.Context, id uuid.UUID, req leadtransport.EmailEngagementRequest) (leadtransport.LeadResponse, error)
	List(ctx context.Context, params leadrepo.ListParams) (leadtransport.ListLeadsResponse, error)
}

// Service implements the email sequence operations: list subscription,
// engagement tracking, nurture sends and bulk campaigns.
type Service struct {
	leads  LeadAccess
	sender Sender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

func NewService(leads LeadAccess, sender Sender, cfg config.NotificationConfig, log *logger.Logger) *Service {
	return &Service{leads: leads, sender: sender, cfg: cfg, log: log}
}

// Subscribe adds an existing lead to the mailing list, moves it to the
// email sequence and sends the welcome email. A repeat subscription is
// reported as success. The welcome send is best effort.
func (s *Service) Subscribe(ctx context.Context, req transport.SubscribeRequest) (transport.SubscribeResponse, error) {
	lead, err := s.leads.FindByEmail(ctx, req.Email)
	if err != nil {
		return transport.SubscribeResponse{}, err
	}

	if sub, ok := s.sender.(ContactSubscriber); ok {
		err := sub.SubscribeContact(ctx, lead.Email, contactAttributes(lead, req))
		switch {
		case errors.Is(err, ErrAlreadySubscribed):
			return transport.SubscribeResponse{Message: "Already subscribed", LeadID: lead.ID}, nil
		case err != nil:
			s.log.UpstreamError("email provider", "subscribe contact", err)
			return transport.SubscribeResponse{}, apperr.Wrap(apperr.KindUpstream, "failed to subscribe to email sequence", err)
		}
	}

	lead, err = s.leads.ApplyLifecycle(ctx, lead.ID, domain.Subscribed{})
	if err != nil {
		return transport.SubscribeResponse{}, err
	}

	if err := s.sendWelcome(ctx, lead); err != nil {
		s.log.Error("welcome email send failed", "leadId", lead.ID, "error", err)
	}

	return transport.SubscribeResponse{
		Message: "Successfully subscribed to email sequence",
		LeadID:  lead.ID,
	}, nil
}

// contactAttributes builds the provider contact fields, preferring request
// overrides over the stored lead profile.
func contactAttributes(lead domain.Lead, req transport.SubscribeRequest) map[string]string {
	return map[string]string{
		"FNAME":   firstNonEmpty(req.FirstName, lead.FirstName),
		"LNAME":   firstNonEmpty(req.LastName, lead.LastName),
		"CAREER":  firstNonEmpty(req.CareerGoal, string(lead.CareerGoal), "general"),
		"SOURCE":  firstNonEmpty(req.Source, string(lead.Source)),
		"PHONE":   lead.Phone,
		"COMPANY": lead.Company,
		"ROLE":    lead.CurrentRole,
	}
}

// TrackOpen records an email open. Failures are logged only; the caller
// serves the tracking pixel regardless.
func (s *Service) TrackOpen(ctx context.Context, email string) {
	if email == "" {
		return
	}
	lead, err := s.leads.FindByEmail(ctx, email)
	if err != nil {
		s.log.Debug("open tracked for unknown lead", "email", email)
		return
	}
	req := leadtransport.EmailEngagementRequest{Type: "opened"}
	if _, err := s.leads.RecordEngagement(ctx, lead.ID, req); err != nil {
		s.log.Error("failed to record email open", "leadId", lead.ID, "error", err)
	}
}

// TrackClick records a click and returns the redirect target. The redirect
// happens even when the lead is unknown, so broken tracking never strands
// the reader.
func (s *Service) TrackClick(ctx context.Context, email, rawURL string) (string, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return "", apperr.Validation("invalid redirect url")
	}

	lead, err := s.leads.FindByEmail(ctx, email)
	if err != nil {
		s.log.Debug("click tracked for unknown lead", "email", email)
		return rawURL, nil
	}

	req := leadtransport.EmailEngagementRequest{Type: "clicked", URL: rawURL}
	if _, err := s.leads.RecordEngagement(ctx, lead.ID, req); err != nil {
		s.log.Error("failed to record email click", "leadId", lead.ID, "error", err)
	}
	return rawURL, nil
}

// SendNurture sends one typed nurture email to a lead.
func (s *Service) SendNurture(ctx context.Context, req transport.NurtureRequest) (transport.NurtureResponse, error) {
	lead, err := s.leads.Get(ctx, req.LeadID)
	if err != nil {
		return transport.NurtureResponse{}, err
	}

	subject, html, err := s.renderNurture(req.EmailType, lead)
	if err != nil {
		return transport.NurtureResponse{}, err
	}

	if err := s.sender.Send(ctx, lead.Email, subject, html); err != nil {
		s.log.UpstreamError("email provider", "send nurture", err)
		return transport.NurtureResponse{}, apperr.Wrap(apperr.KindUpstream, "failed to send nurture email", err)
	}

	return transport.NurtureResponse{
		Message:   "Nurture email sent successfully",
		EmailType: req.EmailType,
		LeadID:    lead.ID,
	}, nil
}

// Templates returns the static catalog of sequence emails.
func (s *Service) Templates() transport.TemplatesResponse {
	return transport.TemplatesResponse{
		Templates: map[string]transport.TemplateInfo{
			"welcome": {
				Subject: "🚀 Your {{careerGoal}} Roadmap is Here, {{firstName}}!",
				Preview: "Everything you need to start your journey...",
			},
			"resource-delivery": {
				Subject: "📚 Advanced {{careerGoal}} Resources for {{firstName}}",
				Preview: "Curated material to keep the momentum going...",
			},
			"social-proof": {
				Subject: "How {{firstName}} Can Follow in These Footsteps: Success Stories",
				Preview: "Real success stories from our community...",
			},
			"booking-reminder": {
				Subject: "{{firstName}}, Your Free Career Consultation is Still Available",
				Preview: "Book your slot before they're all taken...",
			},
			"final-offer": {
				Subject: "Last Call: Your Career Breakthrough Awaits, {{firstName}}",
				Preview: "Don't let this opportunity slip away...",
			},
		},
	}
}

// BulkSend runs a segment campaign in rate-limited chunks. Per-lead send
// failures are counted, not fatal.
func (s *Service) BulkSend(ctx context.Context, req transport.BulkSendRequest) (transport.BulkSendResponse, error) {
	limit := bulkCap
	if req.TestMode {
		limit = bulkTestCap
	}

	targets, err := s.collectSegment(ctx, req.Segment, limit)
	if err != nil {
		return transport.BulkSendResponse{}, err
	}

	campaignID := fmt.Sprintf("campaign_%d", time.Now().UnixMilli())
	var success, failed atomic.Int64

	for start := 0; start < len(targets); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(targets) {
			end = len(targets)
		}

		// Sends within a chunk run concurrently; chunks are spaced to stay
		// under the provider's rate limit.
		var wg sync.WaitGroup
		for _, target := range targets[start:end] {
			wg.Add(1)
			go func(target leadtransport.LeadResponse) {
				defer wg.Done()
				lead := domain.Lead{
					ID:         target.ID,
					Email:      target.Email,
					FirstName:  target.FirstName,
					CareerGoal: target.CareerGoal,
				}
				subject, html, err := s.renderNurture(req.EmailType, lead)
				if err == nil {
					err = s.sender.Send(ctx, lead.Email, subject, html)
				}
				if err != nil {
					failed.Add(1)
					s.log.Error("bulk send failed for lead", "campaignId", campaignID, "email", lead.Email, "error", err)
					return
				}
				success.Add(1)
			}(target)
		}
		wg.Wait()

		if end < len(targets) {
			select {
			case <-ctx.Done():
				return transport.BulkSendResponse{}, ctx.Err()
			case <-time.After(bulkChunkDelay):
			}
		}
	}

	return transport.BulkSendResponse{
		Message:    "Bulk email campaign completed",
		CampaignID: campaignID,
		Stats: transport.BulkStats{
			TotalTargeted: len(targets),
			SuccessCount:  int(success.Load()),
			ErrorCount:    int(failed.Load()),
			SuccessRate:   successRate(int(success.Load()), len(targets)),
		},
	}, nil
}

// collectSegment pages through the lead listing until the cap or the last
// page is reached.
func (s *Service) collectSegment(ctx context.Context, seg transport.SegmentCriteria, limit int) ([]leadtransport.LeadResponse, error) {
	var targets []leadtransport.LeadResponse
	for page := 1; len(targets) < limit; page++ {
		resp, err := s.leads.List(ctx, leadrepo.ListParams{
			Stage:      domain.Stage(seg.Stage),
			Source:     domain.Source(seg.Source),
			CareerGoal: domain.CareerGoal(seg.CareerGoal),
			MinScore:   seg.MinScore,
			Page:       page,
			PerPage:    100,
		})
		if err != nil {
			return nil, err
		}
		targets = append(targets, resp.Leads...)
		if page >= resp.TotalPages || len(resp.Leads) == 0 {
			break
		}
	}
	if len(targets) > limit {
		targets = targets[:limit]
	}
	return targets, nil
}

// renderNurture produces the subject and body for one nurture email type.
func (s *Service) renderNurture(emailType string, lead domain.Lead) (subject, html string, err error) {
	first := firstNameOr(lead.FirstName)
	goal := careerTitle(lead.CareerGoal)

	switch emailType {
	case "resource-delivery":
		subject = fmt.Sprintf(subjectResourceDeliveryFmt, goal, first)
		html, err = renderEmailTemplate("resource_delivery.html", resourceDeliveryEmailData{
			baseEmailData: s.baseData(subject, "📚 Keep Building", lead),
			CareerGoal:    goal,
		})
	case "social-proof":
		subject = fmt.Sprintf(subjectSocialProofFmt, first)
		html, err = renderEmailTemplate("social_proof.html", socialProofEmailData{
			baseEmailData: s.baseData(subject, "🌟 Success Stories", lead),
		})
	case "booking-reminder":
		subject = fmt.Sprintf(subjectBookingReminderFmt, first)
		html, err = renderEmailTemplate("booking_reminder.html", bookingReminderEmailData{
			baseEmailData: s.baseData(subject, "📞 Your Consultation Awaits", lead),
		})
	case "final-offer":
		subject = fmt.Sprintf(subjectFinalOfferFmt, first)
		html, err = renderEmailTemplate("final_offer.html", finalOfferEmailData{
			baseEmailData: s.baseData(subject, "⏰ Last Call", lead),
		})
	default:
		return "", "", apperr.Validation("unknown email type")
	}
	return subject, html, err
}

func (s *Service) sendWelcome(ctx context.Context, lead domain.Lead) error {
	goal := careerTitle(lead.CareerGoal)
	subject := fmt.Sprintf(subjectWelcomeFmt, goal, firstNameOr(lead.FirstName))
	html, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: s.baseData(subject, "🚀 Welcome to Your Journey!", lead),
		CareerGoal:    goal,
	})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, lead.Email, subject, html)
}

// SendBookingConfirmation sends the consultation confirmation. Used by the
// notification module when a call is booked.
func (s *Service) SendBookingConfirmation(ctx context.Context, lead domain.Lead, start time.Time, timezone string) error {
	subject := fmt.Sprintf(subjectBookingConfirmationFmt, firstNameOr(lead.FirstName))

	when := start.Format("Monday, January 2, 2006 at 3:04 PM MST")
	if loc, err := time.LoadLocation(timezone); timezone != "" && err == nil {
		when = start.In(loc).Format("Monday, January 2, 2006 at 3:04 PM MST")
	}

	data := bookingConfirmationEmailData{
		baseEmailData: s.baseData(subject, "✅ You're Booked!", lead),
		StartTime:     when,
		Duration:      "30 minutes",
		CareerGoal:    careerTitle(lead.CareerGoal),
	}
	data.CTALabel = ""
	data.CTAURL = ""

	html, err := renderEmailTemplate("booking_confirmation.html", data)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, lead.Email, subject, html)
}

// SendPostCallFollowUp sends the after-call email. Used by the notification
// module when a call outcome is recorded.
func (s *Service) SendPostCallFollowUp(ctx context.Context, lead domain.Lead, outcome string) error {
	subject := fmt.Sprintf(subjectPostCallFollowUpFmt, firstNameOr(lead.FirstName))

	data := postCallFollowUpEmailData{
		baseEmailData:  s.baseData(subject, "🙌 Great Talking With You", lead),
		Outcome:        outcome,
		CourseInterest: lead.CourseInterest,
	}
	if lead.CourseInterest == "" {
		data.CTALabel = ""
		data.CTAURL = ""
	} else {
		data.CTALabel = "🎓 View Enrollment Details"
	}

	html, err := renderEmailTemplate("post_call_followup.html", data)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, lead.Email, subject, html)
}

// baseData fills the shared layout fields, including the booking CTA and
// the open-tracking pixel.
func (s *Service) baseData(title, heading string, lead domain.Lead) baseEmailData {
	base := strings.TrimRight(s.cfg.GetAppBaseURL(), "/")
	return baseEmailData{
		Title:      title,
		Heading:    heading,
		FirstName:  firstNameOr(lead.FirstName),
		CTALabel:   "📞 Book Your Free Career Consultation",
		CTAURL:     base + "/book",
		TrackingPx: base + "/api/email/track-open?email=" + url.QueryEscape(lead.Email),
	}
}

// careerTitle renders the career goal for display in subjects and bodies.
func careerTitle(goal domain.CareerGoal) string {
	switch goal {
	case domain.GoalDataEngineering:
		return "Data Engineering"
	case domain.GoalSoftwareEngineering:
		return "Software Engineering"
	case domain.GoalProductManagement:
		return "Product Management"
	case domain.GoalAIML:
		return "AI/ML"
	default:
		return "Career"
	}
}

func firstNameOr(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func successRate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*100*100) / 100
}
