package transport

import (
	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/chatbot/responder"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

// UserInfo is optional profile data the widget has collected so far.
type UserInfo struct {
	FirstName       string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName        string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,max=20"`
	CurrentRole     string `json:"currentRole,omitempty" validate:"omitempty,max=200"`
	Company         string `json:"company,omitempty" validate:"omitempty,max=200"`
	ExperienceLevel string `json:"experienceLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
}

// PageContext carries attribution for leads created mid-conversation.
type PageContext struct {
	Source      string `json:"source,omitempty" validate:"omitempty,oneof=blog social paid-ad referral direct"`
	UTMSource   string `json:"utmSource,omitempty" validate:"omitempty,max=200"`
	UTMMedium   string `json:"utmMedium,omitempty" validate:"omitempty,max=200"`
	UTMCampaign string `json:"utmCampaign,omitempty" validate:"omitempty,max=200"`
	ReferrerURL string `json:"referrerUrl,omitempty" validate:"omitempty,max=500"`
}

type InteractRequest struct {
	Email     string      `json:"email" validate:"required,email,max=254"`
	Message   string      `json:"message" validate:"required,max=2000"`
	SessionID string      `json:"sessionId,omitempty" validate:"omitempty,max=100"`
	UserInfo  UserInfo    `json:"userInfo"`
	Context   PageContext `json:"context"`
}

type InteractResponse struct {
	Response  string             `json:"response"`
	Intent    domain.Intent      `json:"intent"`
	Actions   []responder.Action `json:"actions"`
	LeadID    uuid.UUID          `json:"leadId"`
	SessionID string             `json:"sessionId,omitempty"`
}

type CollectInfoRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	FirstName       string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName        string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,max=20"`
	CareerGoal      string `json:"careerGoal,omitempty" validate:"omitempty,oneof=data-engineering software-engineering product-management ai-ml other"`
	ExperienceLevel string `json:"experienceLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	CurrentRole     string `json:"currentRole,omitempty" validate:"omitempty,max=200"`
	Company         string `json:"company,omitempty" validate:"omitempty,max=200"`
}

type CollectInfoResponse struct {
	Message         string    `json:"message"`
	FollowUpMessage string    `json:"followUpMessage"`
	LeadID          uuid.UUID `json:"leadId"`
	NextAction      string    `json:"nextAction"`
}

type CallbackRequest struct {
	Email         string `json:"email" validate:"required,email,max=254"`
	PreferredTime string `json:"preferredTime,omitempty" validate:"omitempty,max=100"`
	Timezone      string `json:"timezone,omitempty" validate:"omitempty,max=100"`
	Urgency       string `json:"urgency,omitempty" validate:"omitempty,oneof=low medium high"`
}

type CallbackResponse struct {
	Message          string    `json:"message"`
	ExpectedCallback string    `json:"expectedCallback"`
	LeadID           uuid.UUID `json:"leadId"`
}
