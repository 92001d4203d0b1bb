package router

import (
	"os"
	"path/filepath"

	"chatbot-evaluation/backend/pkg/validator"
)

// AddOpenAPIValidation adds OpenAPI validation middleware to the router and
// serves the schema under /api/docs.
func (r *Router) AddOpenAPIValidation(schemaPath string) {
	// Check if schema file exists
	if !fileExists(schemaPath) {
		r.Logger.Warn("OpenAPI schema file not found, skipping validation", "path", schemaPath)
		return
	}

	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		r.Logger.Error("Failed to initialize OpenAPI validator", "error", err.Error())
		return
	}

	r.Engine.Use(v.Middleware())
	r.OpenAPI = v
	r.Logger.Info("OpenAPI validation enabled", "schema", schemaPath)

	schemaFile := filepath.Base(schemaPath)
	r.Engine.StaticFile("/api/docs/"+schemaFile, schemaPath)
	r.Logger.Info("OpenAPI schema available at", "url", "/api/docs/"+schemaFile)
}

// ReloadOpenAPISchema re-reads the schema file. On failure the previous
// document stays in force. It is a no-op when validation is disabled.
func (r *Router) ReloadOpenAPISchema() error {
	if r.OpenAPI == nil {
		return nil
	}
	if err := r.OpenAPI.ReloadSchema(); err != nil {
		return err
	}
	r.Logger.Info("OpenAPI schema reloaded", "schema", r.Config.OpenAPI.SchemaPath)
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
