// Package booking provides the consultation scheduling bounded context
// module: provider-backed booking, availability, rescheduling and call
// outcomes.
package booking

import (
	"github.com/shibbu04/scaler-apm/internal/booking/calendar"
	"github.com/shibbu04/scaler-apm/internal/booking/handler"
	"github.com/shibbu04/scaler-apm/internal/booking/service"
	"github.com/shibbu04/scaler-apm/internal/events"
	apphttp "github.com/shibbu04/scaler-apm/internal/http"
	"github.com/shibbu04/scaler-apm/platform/validator"
)

// Module is the booking bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the booking flow. provider may be nil when no calendar
// integration is configured; scheduling endpoints then report an upstream
// failure instead of confirming bookings locally.
func NewModule(leads service.LeadAccess, provider calendar.Provider, bus events.Bus, val *validator.Validator) *Module {
	svc := service.New(leads, provider, bus)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "booking"
}

// RegisterRoutes mounts booking routes with the strict booking rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/booking")
	group.Use(ctx.BookingRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
