// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/shibbu04/scaler-apm/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the funnel.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Email  string    `json:"email"`
	Source string    `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadConverted is published when a lead records a purchase.
type LeadConverted struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	Email          string    `json:"email"`
	PurchaseID     string    `json:"purchaseId"`
	PurchaseAmount float64   `json:"purchaseAmount"`
}

func (e LeadConverted) EventName() string { return "leads.lead.converted" }

// =============================================================================
// Booking Domain Events
// =============================================================================

// CallBooked is published when a consultation call is scheduled.
type CallBooked struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	BookingID string    `json:"bookingId"`
	StartTime time.Time `json:"startTime"`
	Timezone  string    `json:"timezone"`
}

func (e CallBooked) EventName() string { return "booking.call.booked" }

// CallCompleted is published when a consultation call is marked complete.
type CallCompleted struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	Outcome        string    `json:"outcome"`
	CourseInterest string    `json:"courseInterest,omitempty"`
}

func (e CallCompleted) EventName() string { return "booking.call.completed" }

// =============================================================================
// Chatbot Domain Events
// =============================================================================

// CallbackRequested is published when a lead asks for a sales callback.
type CallbackRequested struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	Email         string    `json:"email"`
	FullName      string    `json:"name"`
	Phone         string    `json:"phone"`
	CareerGoal    string    `json:"careerGoal"`
	LeadScore     int       `json:"leadScore"`
	PreferredTime string    `json:"preferredTime"`
	Timezone      string    `json:"timezone"`
	Urgency       string    `json:"urgency"`
}

func (e CallbackRequested) EventName() string { return "chatbot.callback.requested" }
