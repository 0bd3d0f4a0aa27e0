package http

import (
	"github.com/fasthttp/router"
)

// Router registers relay HTTP routes
type Router struct {
	handler *HealthHandler
}

// NewRouter creates a new relay HTTP router
func NewRouter(handler *HealthHandler) *Router {
	return &Router{handler: handler}
}

// RegisterRoutes registers relay routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/health", r.handler.Handle)
}
