// Package calendar defines the scheduling provider port used by the
// booking service. The Calendly implementation lives under
// internal/adapters/calendar.
package calendar

import (
	"context"
	"time"
)

// ScheduleParams describes the consultation slot to book.
type ScheduleParams struct {
	EventType    string
	StartTime    time.Time
	EndTime      time.Time
	InviteeEmail string
	InviteeName  string
	Questions    map[string]string
}

// Booking is a confirmed provider-side event.
type Booking struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
}

// Slot is one open availability window.
type Slot struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}

// Provider is the external scheduling system. A provider failure must
// surface to the caller; bookings are never confirmed locally without a
// provider-side event.
type Provider interface {
	Schedule(ctx context.Context, params ScheduleParams) (Booking, error)
	Availability(ctx context.Context, eventType string, from, to time.Time) ([]Slot, error)
	Cancel(ctx context.Context, bookingID string) error
}
