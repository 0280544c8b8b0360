package api

import (
	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/north-cloud/job-tracker/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/telemetry"
)

// RouteOptions configures SetupRoutes.
type RouteOptions struct {
	JWTSecret string
	// MetricsPath is where Prometheus metrics are served. Empty disables the endpoint.
	MetricsPath string
	Telemetry   *telemetry.Provider
}

// SetupRoutes registers the metrics endpoint and the JWT-protected /api/v1 routes.
func SetupRoutes(router *gin.Engine, handler *ApplicationHandler, opts RouteOptions) {
	if opts.Telemetry != nil {
		router.Use(opts.Telemetry.Middleware())
		if opts.MetricsPath != "" {
			router.GET(opts.MetricsPath, gin.WrapH(opts.Telemetry.Handler()))
		}
	}

	v1 := infragin.ProtectedGroup(router, "/api/v1", opts.JWTSecret)

	v1.GET("/statuses", handler.Statuses)

	applications := v1.Group("/applications")
	applications.GET("", handler.List)
	applications.POST("", handler.Create)
	applications.GET("/:id", handler.Get)
	applications.PATCH("/:id", handler.UpdateStatus)
	applications.POST("/:id/comments", handler.AddComment)

	v1.GET("/exports/applications", handler.Export)
}
