// Package transport defines the request and response shapes of the
// booking endpoints.
package transport

import "time"

// ScheduleRequest books a consultation slot for an existing lead. The
// guest fields override the lead identity when a booking is made on
// someone's behalf.
type ScheduleRequest struct {
	Email               string            `json:"email" validate:"required,email"`
	EventTypeID         string            `json:"eventTypeUuid"`
	StartTime           time.Time         `json:"startTime" validate:"required"`
	EndTime             time.Time         `json:"endTime" validate:"required"`
	Timezone            string            `json:"timezone"`
	GuestName           string            `json:"guestName"`
	GuestEmail          string            `json:"guestEmail" validate:"omitempty,email"`
	AdditionalQuestions map[string]string `json:"additionalQuestions"`
}

type ScheduleResponse struct {
	Message          string    `json:"message"`
	BookingID        string    `json:"bookingId"`
	ScheduledTime    time.Time `json:"scheduledTime"`
	LeadID           string    `json:"leadId"`
	ConfirmationSent bool      `json:"confirmationSent"`
}

type AvailabilityResponse struct {
	EventType string         `json:"eventType"`
	DateRange DateRange      `json:"dateRange"`
	Slots     []SlotResponse `json:"availableSlots"`
	Timezone  string         `json:"timezone"`
}

type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type SlotResponse struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}

type RescheduleRequest struct {
	BookingID    string    `json:"bookingId" validate:"required"`
	NewStartTime time.Time `json:"newStartTime" validate:"required"`
	NewEndTime   time.Time `json:"newEndTime" validate:"required"`
	Reason       string    `json:"reason"`
}

type RescheduleResponse struct {
	Message          string    `json:"message"`
	NewBookingID     string    `json:"newBookingId"`
	NewScheduledTime time.Time `json:"newScheduledTime"`
}

type CancelRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
	Reason    string `json:"reason"`
}

type CancelResponse struct {
	Message string `json:"message"`
	LeadID  string `json:"leadId"`
}

// CompleteRequest records the outcome of a finished consultation call.
type CompleteRequest struct {
	BookingID      string `json:"bookingId" validate:"required"`
	CallNotes      string `json:"callNotes"`
	Outcome        string `json:"outcome" validate:"required,oneof=interested not-ready not-interested"`
	NextSteps      string `json:"nextSteps"`
	CourseInterest string `json:"courseInterest"`
}

type CompleteResponse struct {
	Message  string `json:"message"`
	LeadID   string `json:"leadId"`
	NewStage string `json:"newStage"`
}

// UpcomingBooking is the sales-facing view of a pending consultation.
type UpcomingBooking struct {
	LeadID        string    `json:"leadId"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	CareerGoal    string    `json:"careerGoal,omitempty"`
	CallScheduled time.Time `json:"callScheduled"`
	BookingID     string    `json:"bookingId"`
	Notes         string    `json:"notes,omitempty"`
}

type UpcomingResponse struct {
	Bookings  []UpcomingBooking `json:"bookings"`
	Count     int               `json:"count"`
	DateRange DateRange         `json:"dateRange"`
}
