package email

import (
	apphttp "github.com/shibbu04/scaler-apm/internal/http"
	"github.com/shibbu04/scaler-apm/platform/config"
	"github.com/shibbu04/scaler-apm/platform/logger"
	"github.com/shibbu04/scaler-apm/platform/validator"
)

// Module is the email bounded context module implementing http.Module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule wires the email sequence service on top of the configured
// sender.
func NewModule(leads LeadAccess, sender Sender, cfg config.NotificationConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(leads, sender, cfg, log)
	return &Module{service: svc, handler: NewHandler(svc, val)}
}

// Service exposes the email operations for other modules (notifications
// send confirmations and follow-ups through it).
func (m *Module) Service() *Service {
	return m.service
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "email"
}

// RegisterRoutes mounts the email routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/email"))
}

var _ apphttp.Module = (*Module)(nil)
