// Package domain holds the Lead entity and the pure lifecycle rules that
// keep its derived fields (score, stage) consistent with accumulated
// engagement. Nothing in this package touches HTTP or storage.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage is the discrete funnel position of a lead.
type Stage string

const (
	StageCold      Stage = "cold"
	StageWarm      Stage = "warm"
	StageHot       Stage = "hot"
	StageConverted Stage = "converted"
	StageChurned   Stage = "churned"
)

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageCold, StageWarm, StageHot, StageConverted, StageChurned:
		return true
	}
	return false
}

// rank orders the forward funnel stages for no-downgrade comparisons.
// Churned sits outside the forward ordering and is only entered through
// an explicit churn event.
func (s Stage) rank() int {
	switch s {
	case StageCold:
		return 0
	case StageWarm:
		return 1
	case StageHot:
		return 2
	case StageConverted:
		return 3
	}
	return -1
}

// Source identifies the acquisition channel of a lead.
type Source string

const (
	SourceBlog     Source = "blog"
	SourceSocial   Source = "social"
	SourcePaidAd   Source = "paid-ad"
	SourceReferral Source = "referral"
	SourceDirect   Source = "direct"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceBlog, SourceSocial, SourcePaidAd, SourceReferral, SourceDirect:
		return true
	}
	return false
}

// CareerGoal is the lead's self-declared target career track.
type CareerGoal string

const (
	GoalDataEngineering     CareerGoal = "data-engineering"
	GoalSoftwareEngineering CareerGoal = "software-engineering"
	GoalProductManagement   CareerGoal = "product-management"
	GoalAIML                CareerGoal = "ai-ml"
	GoalOther               CareerGoal = "other"
)

// Valid reports whether g is a known career goal.
func (g CareerGoal) Valid() bool {
	switch g {
	case GoalDataEngineering, GoalSoftwareEngineering, GoalProductManagement, GoalAIML, GoalOther:
		return true
	}
	return false
}

// ExperienceLevel is the lead's self-declared experience level.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

// Valid reports whether l is a known experience level.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Touchpoint is the most recent channel through which a lead engaged.
type Touchpoint string

const (
	TouchChatbot       Touchpoint = "chatbot"
	TouchEmail         Touchpoint = "email"
	TouchCallBooked    Touchpoint = "call-booked"
	TouchCallCompleted Touchpoint = "call-completed"
	TouchPurchase      Touchpoint = "purchase"
)

// Intent is the classified purpose of a chatbot user message.
type Intent string

const (
	IntentDataEngineering     Intent = "data_engineering_interest"
	IntentSoftwareEngineering Intent = "software_engineering_interest"
	IntentCareerGuidance      Intent = "career_guidance"
	IntentCourseInterest      Intent = "course_interest"
	IntentPricingInquiry      Intent = "pricing_inquiry"
	IntentBooking             Intent = "booking_intent"
	IntentGoodbye             Intent = "goodbye"
	IntentGeneral             Intent = "general_inquiry"
)

// CallOutcome is the recorded result of a completed consultation call.
type CallOutcome string

const (
	OutcomeInterested    CallOutcome = "interested"
	OutcomeNotReady      CallOutcome = "not-ready"
	OutcomeNotInterested CallOutcome = "not-interested"
)

// Interaction is a single chatbot exchange. The interaction list on a lead
// is append-only and chronological.
type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Intent    Intent    `json:"intent"`
}

// NewInteraction stamps a chat exchange with the current UTC time.
func NewInteraction(message, response string, intent Intent) Interaction {
	return Interaction{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Response:  response,
		Intent:    intent,
	}
}

// EmailEngagement tracks email open/click counters for a lead. The counters
// only ever increase.
type EmailEngagement struct {
	OpenedCount  int        `json:"openedCount"`
	ClickedCount int        `json:"clickedCount"`
	LastOpened   *time.Time `json:"lastOpened,omitempty"`
	LastClicked  *time.Time `json:"lastClicked,omitempty"`
}

// Lead is the central entity: one record per unique email address, tracked
// through the marketing funnel from first contact to purchase.
type Lead struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`

	Source      Source `json:"source"`
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
	ReferrerURL string `json:"referrerUrl,omitempty"`

	CareerGoal      CareerGoal      `json:"careerGoal,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel,omitempty"`
	CurrentRole     string          `json:"currentRole,omitempty"`
	Company         string          `json:"company,omitempty"`

	Stage          Stage      `json:"stage"`
	LastTouchpoint Touchpoint `json:"lastTouchpoint,omitempty"`

	// InteractionCount is maintained by atomic increments alongside the
	// append-only interaction rows so concurrent appends never lose counts.
	InteractionCount int             `json:"interactionCount"`
	Engagement       EmailEngagement `json:"emailEngagement"`

	BookingID      string     `json:"bookingId,omitempty"`
	CallScheduled  *time.Time `json:"callScheduled,omitempty"`
	CallCompleted  bool       `json:"callCompleted"`
	CallNotes      string     `json:"callNotes,omitempty"`
	CourseInterest string     `json:"courseInterest,omitempty"`
	PurchaseID     string     `json:"purchaseId,omitempty"`
	PurchaseAmount float64    `json:"purchaseAmount,omitempty"`
	PurchaseDate   *time.Time `json:"purchaseDate,omitempty"`

	IsActive   bool     `json:"isActive"`
	Tags       []string `json:"tags,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	AssignedTo string   `json:"assignedTo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName is the derived display name: first plus last, trimmed.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}
