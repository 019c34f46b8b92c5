// Package http provides HTTP server infrastructure including the Module
// interface that all domain modules implement for route registration.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shibbu04/scaler-apm/platform/httpkit"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router context.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// API is the /api route group all modules mount under.
	API *gin.RouterGroup
	// ChatbotRateLimiter caps conversational traffic per IP.
	ChatbotRateLimiter *httpkit.ChatbotRateLimiter
	// BookingRateLimiter is the stricter limiter for booking attempts.
	BookingRateLimiter *httpkit.BookingRateLimiter
}
