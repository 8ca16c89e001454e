package router

import (
	"os"
	"path/filepath"

	"chatbot-catalog/backend/pkg/validator"
)

// AddOpenAPIValidation enables request validation against the schema at the
// given path. Missing or broken schemas disable validation instead of
// failing startup.
func (r *Router) AddOpenAPIValidation(schemaPath string) {
	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		r.Logger.Warn("OpenAPI schema file not found, skipping validation", "path", schemaPath)
		return
	}

	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		r.Logger.Error("Failed to initialize OpenAPI validator", "error", err)
		return
	}

	r.Engine.Use(v.Middleware())
	r.Logger.Info("OpenAPI validation enabled", "schema", schemaPath)

	r.Engine.Static("/api/docs", filepath.Dir(schemaPath))
}
