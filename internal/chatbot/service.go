// Package chatbot provides the conversational lead-qualification bounded
// context: intent classification, AI-or-canned responses and the callback
// funnel.
package chatbot

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/chatbot/intent"
	"github.com/shibbu04/scaler-apm/internal/chatbot/responder"
	"github.com/shibbu04/scaler-apm/internal/chatbot/transport"
	"github.com/shibbu04/scaler-apm/internal/events"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	"github.com/shibbu04/scaler-apm/internal/leads/repository"
	"github.com/shibbu04/scaler-apm/platform/logger"
	"github.com/shibbu04/scaler-apm/platform/phone"
	"github.com/shibbu04/scaler-apm/platform/sanitize"
)

// LeadDirectory is the slice of the leads service the chatbot needs.
type LeadDirectory interface {
	Ensure(ctx context.Context, params repository.UpsertParams) (domain.Lead, bool, error)
	FindByEmail(ctx context.Context, email string) (domain.Lead, error)
	History(ctx context.Context, id uuid.UUID, limit int) ([]domain.Interaction, error)
	RecordExchange(ctx context.Context, id uuid.UUID, in domain.Interaction) (domain.Lead, error)
	ApplyLifecycle(ctx context.Context, id uuid.UUID, ev domain.LifecycleEvent) (domain.Lead, error)
	RecordCallbackRequest(ctx context.Context, id uuid.UUID, note string) (domain.Lead, error)
}

type Service struct {
	leads     LeadDirectory
	responder *responder.Responder
	bus       events.Bus
	botCfg    BotConfig
	log       *logger.Logger
}

func NewService(leads LeadDirectory, r *responder.Responder, bus events.Bus, botCfg BotConfig, log *logger.Logger) *Service {
	return &Service{
		leads:     leads,
		responder: r,
		bus:       bus,
		botCfg:    botCfg,
		log:       log,
	}
}

// Interact handles one widget exchange: it finds or creates the lead,
// classifies the message, produces the reply and records the exchange with
// its lifecycle consequences.
func (s *Service) Interact(ctx context.Context, req transport.InteractRequest) (transport.InteractResponse, error) {
	source := req.Context.Source
	if source == "" {
		source = string(domain.SourceBlog)
	}

	// The name is passed through as-is: a blank one must not clobber a
	// previously collected name, so the anonymous placeholder is applied
	// only when this exchange creates the lead.
	lead, _, err := s.leads.Ensure(ctx, repository.UpsertParams{
		Email:            req.Email,
		FirstName:        sanitize.Text(req.UserInfo.FirstName),
		LastName:         sanitize.Text(req.UserInfo.LastName),
		Phone:            phone.NormalizeE164(req.UserInfo.Phone),
		Source:           domain.Source(source),
		UTMSource:        sanitize.Text(req.Context.UTMSource),
		UTMMedium:        sanitize.Text(req.Context.UTMMedium),
		UTMCampaign:      sanitize.Text(req.Context.UTMCampaign),
		ReferrerURL:      sanitize.Text(req.Context.ReferrerURL),
		ExperienceLevel:  domain.ExperienceLevel(req.UserInfo.ExperienceLevel),
		CurrentRole:      sanitize.Text(req.UserInfo.CurrentRole),
		Company:          sanitize.Text(req.UserInfo.Company),
		DefaultFirstName: "Anonymous",
	})
	if err != nil {
		return transport.InteractResponse{}, err
	}

	message := sanitize.Text(req.Message)
	classified := intent.Classify(message)

	history, err := s.leads.History(ctx, lead.ID, 10)
	if err != nil {
		s.log.DatabaseError("list interactions", err)
		history = nil
	}

	reply := s.responder.Respond(ctx, message, classified, lead, history)

	if _, err := s.leads.RecordExchange(ctx, lead.ID, domain.NewInteraction(message, reply.Text, classified)); err != nil {
		return transport.InteractResponse{}, err
	}

	return transport.InteractResponse{
		Response:  reply.Text,
		Intent:    classified,
		Actions:   reply.Actions,
		LeadID:    lead.ID,
		SessionID: req.SessionID,
	}, nil
}

// CollectInfo upserts the lead with the form data and moves it to at least
// warm. The follow-up message is personalized by career goal.
func (s *Service) CollectInfo(ctx context.Context, req transport.CollectInfoRequest) (transport.CollectInfoResponse, error) {
	firstName := sanitize.Text(req.FirstName)
	if firstName == "" {
		firstName = "Anonymous"
	}

	lead, _, err := s.leads.Ensure(ctx, repository.UpsertParams{
		Email:           req.Email,
		FirstName:       firstName,
		LastName:        sanitize.Text(req.LastName),
		Phone:           phone.NormalizeE164(req.Phone),
		CareerGoal:      domain.CareerGoal(req.CareerGoal),
		ExperienceLevel: domain.ExperienceLevel(req.ExperienceLevel),
		CurrentRole:     sanitize.Text(req.CurrentRole),
		Company:         sanitize.Text(req.Company),
	})
	if err != nil {
		return transport.CollectInfoResponse{}, err
	}

	lead, err = s.leads.ApplyLifecycle(ctx, lead.ID, domain.InfoCollected{})
	if err != nil {
		return transport.CollectInfoResponse{}, err
	}

	return transport.CollectInfoResponse{
		Message:         "Information collected successfully",
		FollowUpMessage: followUpMessage(lead),
		LeadID:          lead.ID,
		NextAction:      "offer_resource_or_call",
	}, nil
}

// RequestCallback flags the lead for a sales callback and notifies the
// sales channel through the event bus.
func (s *Service) RequestCallback(ctx context.Context, req transport.CallbackRequest) (transport.CallbackResponse, error) {
	lead, err := s.leads.FindByEmail(ctx, req.Email)
	if err != nil {
		return transport.CallbackResponse{}, err
	}

	note := fmt.Sprintf("Callback requested - Preferred time: %s, Timezone: %s, Urgency: %s",
		req.PreferredTime, req.Timezone, req.Urgency)

	lead, err = s.leads.RecordCallbackRequest(ctx, lead.ID, note)
	if err != nil {
		return transport.CallbackResponse{}, err
	}

	s.bus.Publish(ctx, events.CallbackRequested{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		Email:         lead.Email,
		FullName:      lead.FullName(),
		Phone:         lead.Phone,
		CareerGoal:    string(lead.CareerGoal),
		LeadScore:     domain.Score(lead),
		PreferredTime: req.PreferredTime,
		Timezone:      req.Timezone,
		Urgency:       req.Urgency,
	})

	return transport.CallbackResponse{
		Message:          "Callback request submitted successfully",
		ExpectedCallback: "within 24 hours",
		LeadID:           lead.ID,
	}, nil
}

// Config returns the static widget configuration.
func (s *Service) Config() BotConfig {
	return s.botCfg
}

// followUpMessage picks the collect-info follow-up line by career goal.
func followUpMessage(lead domain.Lead) string {
	name := lead.FirstName
	if name == "" || name == "Anonymous" {
		name = "there"
	}

	switch lead.CareerGoal {
	case domain.GoalDataEngineering:
		return fmt.Sprintf("Great choice, %s! Data Engineering is one of the hottest fields right now. I'll send you our \"Complete Data Engineering Roadmap\" to your email. Would you like to speak with one of our Data Engineering experts for a free career consultation?", name)
	case domain.GoalSoftwareEngineering:
		return fmt.Sprintf("Excellent, %s! Software Engineering offers amazing opportunities. I'm sending you our \"Software Engineer Career Guide\" right now. Want to chat with a senior engineer about your path forward?", name)
	case domain.GoalAIML:
		return fmt.Sprintf("Fantastic, %s! AI/ML is transforming every industry. Check your email for our \"AI Career Transition Guide\". Ready to discuss your AI journey with an expert?", name)
	default:
		return fmt.Sprintf("Thanks for sharing that information, %s! I'm preparing some personalized resources for you. Would you like to book a free consultation to discuss your career goals in detail?", name)
	}
}
