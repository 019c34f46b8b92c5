package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

// Request DTOs

type CaptureLeadRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	FirstName       string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName        string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Source          string `json:"source,omitempty" validate:"omitempty,oneof=blog social paid-ad referral direct"`
	UTMSource       string `json:"utmSource,omitempty" validate:"omitempty,max=200"`
	UTMMedium       string `json:"utmMedium,omitempty" validate:"omitempty,max=200"`
	UTMCampaign     string `json:"utmCampaign,omitempty" validate:"omitempty,max=200"`
	ReferrerURL     string `json:"referrerUrl,omitempty" validate:"omitempty,max=500"`
	CareerGoal      string `json:"careerGoal,omitempty" validate:"omitempty,oneof=data-engineering software-engineering product-management ai-ml other"`
	ExperienceLevel string `json:"experienceLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	CurrentRole     string `json:"currentRole,omitempty" validate:"omitempty,max=200"`
	Company         string `json:"company,omitempty" validate:"omitempty,max=200"`
}

type UpdateLeadRequest struct {
	FirstName       *string   `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName        *string   `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone           *string   `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	CareerGoal      *string   `json:"careerGoal,omitempty" validate:"omitempty,oneof=data-engineering software-engineering product-management ai-ml other"`
	ExperienceLevel *string   `json:"experienceLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	CurrentRole     *string   `json:"currentRole,omitempty" validate:"omitempty,max=200"`
	Company         *string   `json:"company,omitempty" validate:"omitempty,max=200"`
	Stage           *string   `json:"stage,omitempty" validate:"omitempty,oneof=cold warm hot converted churned"`
	Tags            *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Notes           *string   `json:"notes,omitempty" validate:"omitempty,max=5000"`
	AssignedTo      *string   `json:"assignedTo,omitempty" validate:"omitempty,max=200"`

	// Purchase fields record a conversion; purchaseId is required to be
	// present with them. The amount and date default server-side.
	PurchaseID     *string    `json:"purchaseId,omitempty" validate:"omitempty,max=100"`
	PurchaseAmount *float64   `json:"purchaseAmount,omitempty" validate:"omitempty,min=0"`
	PurchaseDate   *time.Time `json:"purchaseDate,omitempty"`
}

type AddInteractionRequest struct {
	Message  string `json:"message" validate:"required,max=2000"`
	Response string `json:"response,omitempty" validate:"omitempty,max=5000"`
	Intent   string `json:"intent,omitempty" validate:"omitempty,max=100"`
}

type EmailEngagementRequest struct {
	Type string `json:"type" validate:"required,oneof=opened clicked"`
	URL  string `json:"url,omitempty" validate:"omitempty,max=500"`
}

// Response DTOs

type LeadResponse struct {
	ID               uuid.UUID              `json:"id"`
	Email            string                 `json:"email"`
	FirstName        string                 `json:"firstName,omitempty"`
	LastName         string                 `json:"lastName,omitempty"`
	FullName         string                 `json:"fullName,omitempty"`
	Phone            string                 `json:"phone,omitempty"`
	Source           domain.Source          `json:"source"`
	UTMSource        string                 `json:"utmSource,omitempty"`
	UTMMedium        string                 `json:"utmMedium,omitempty"`
	UTMCampaign      string                 `json:"utmCampaign,omitempty"`
	ReferrerURL      string                 `json:"referrerUrl,omitempty"`
	CareerGoal       domain.CareerGoal      `json:"careerGoal,omitempty"`
	ExperienceLevel  domain.ExperienceLevel `json:"experienceLevel,omitempty"`
	CurrentRole      string                 `json:"currentRole,omitempty"`
	Company          string                 `json:"company,omitempty"`
	Stage            domain.Stage           `json:"stage"`
	Score            int                    `json:"leadScore"`
	LastTouchpoint   domain.Touchpoint      `json:"lastTouchpoint,omitempty"`
	InteractionCount int                    `json:"interactionCount"`
	EmailEngagement  EngagementResponse     `json:"emailEngagement"`
	BookingID        string                 `json:"bookingId,omitempty"`
	CallScheduled    *time.Time             `json:"callScheduled,omitempty"`
	CallCompleted    bool                   `json:"callCompleted"`
	CallNotes        string                 `json:"callNotes,omitempty"`
	CourseInterest   string                 `json:"courseInterest,omitempty"`
	PurchaseID       string                 `json:"purchaseId,omitempty"`
	PurchaseAmount   float64                `json:"purchaseAmount,omitempty"`
	PurchaseDate     *time.Time             `json:"purchaseDate,omitempty"`
	Tags             []string               `json:"tags,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
	AssignedTo       string                 `json:"assignedTo,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

type EngagementResponse struct {
	OpenedCount  int        `json:"openedCount"`
	ClickedCount int        `json:"clickedCount"`
	LastOpened   *time.Time `json:"lastOpened,omitempty"`
	LastClicked  *time.Time `json:"lastClicked,omitempty"`
}

// LeadDetailResponse adds the chat history to the base representation.
type LeadDetailResponse struct {
	LeadResponse
	Interactions []domain.Interaction `json:"interactions"`
}

type ListLeadsResponse struct {
	Leads      []LeadResponse `json:"leads"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalPages int            `json:"totalPages"`
}

type StatsResponse struct {
	Total          int                  `json:"total"`
	ByStage        map[domain.Stage]int `json:"byStage"`
	AverageScore   float64              `json:"averageScore"`
	AddedToday     int                  `json:"addedToday"`
	AddedThisWeek  int                  `json:"addedThisWeek"`
	ConversionRate float64              `json:"conversionRate"`
}

// ToLeadResponse maps the domain entity to its API representation. Score is
// computed on the way out, never stored.
func ToLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:              l.ID,
		Email:           l.Email,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		FullName:        l.FullName(),
		Phone:           l.Phone,
		Source:          l.Source,
		UTMSource:       l.UTMSource,
		UTMMedium:       l.UTMMedium,
		UTMCampaign:     l.UTMCampaign,
		ReferrerURL:     l.ReferrerURL,
		CareerGoal:      l.CareerGoal,
		ExperienceLevel: l.ExperienceLevel,
		CurrentRole:     l.CurrentRole,
		Company:         l.Company,
		Stage:           l.Stage,
		Score:           domain.Score(l),
		LastTouchpoint:  l.LastTouchpoint,
		InteractionCount: l.InteractionCount,
		EmailEngagement: EngagementResponse{
			OpenedCount:  l.Engagement.OpenedCount,
			ClickedCount: l.Engagement.ClickedCount,
			LastOpened:   l.Engagement.LastOpened,
			LastClicked:  l.Engagement.LastClicked,
		},
		BookingID:      l.BookingID,
		CallScheduled:  l.CallScheduled,
		CallCompleted:  l.CallCompleted,
		CallNotes:      l.CallNotes,
		CourseInterest: l.CourseInterest,
		PurchaseID:     l.PurchaseID,
		PurchaseAmount: l.PurchaseAmount,
		PurchaseDate:   l.PurchaseDate,
		Tags:           l.Tags,
		Notes:          l.Notes,
		AssignedTo:     l.AssignedTo,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
