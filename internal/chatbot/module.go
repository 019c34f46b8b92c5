package chatbot

import (
	"github.com/shibbu04/scaler-apm/internal/chatbot/responder"
	"github.com/shibbu04/scaler-apm/internal/events"
	apphttp "github.com/shibbu04/scaler-apm/internal/http"
	"github.com/shibbu04/scaler-apm/platform/logger"
	"github.com/shibbu04/scaler-apm/platform/validator"
)

// Module is the chatbot bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule wires the chatbot service. completer may be nil when no AI
// provider is configured; every reply then comes from the canned pools.
func NewModule(leads LeadDirectory, completer responder.Completer, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	botCfg, err := LoadBotConfig()
	if err != nil {
		return nil, err
	}

	svc := NewService(leads, responder.New(completer), bus, botCfg, log)
	return &Module{handler: NewHandler(svc, val)}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chatbot"
}

// RegisterRoutes mounts chatbot routes with the conversational rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/chatbot")
	group.Use(ctx.ChatbotRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
