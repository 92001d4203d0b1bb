package router

// setupHealthRoutes registers health check endpoints. Component states come
// from the checker's background loop.
func (r *Router) setupHealthRoutes() {
	healthHandler := r.Container.Health.Handler()

	// Register both health endpoint paths for compatibility
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/health", healthHandler)
}
