// Package analytics provides the reporting bounded context module: funnel,
// cohort, attribution and per-lead journey endpoints over the lead store.
package analytics

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shibbu04/scaler-apm/internal/analytics/handler"
	"github.com/shibbu04/scaler-apm/internal/analytics/repository"
	"github.com/shibbu04/scaler-apm/internal/analytics/service"
	apphttp "github.com/shibbu04/scaler-apm/internal/http"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the analytics reports. leads supplies the per-lead
// timeline reads.
func NewModule(pool *pgxpool.Pool, leads service.LeadReader) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads)
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts the analytics endpoints under /api/analytics.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/analytics"))
}

var _ apphttp.Module = (*Module)(nil)
