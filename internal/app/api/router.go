package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	handoverhttp "github.com/novamind-digital/immo/internal/domains/handover/adapters/http"
	handoverports "github.com/novamind-digital/immo/internal/domains/handover/ports"
	remindershttp "github.com/novamind-digital/immo/internal/domains/reminders/adapters/http"
)

// RouterDeps lists the collaborators served by the router.
type RouterDeps struct {
	Handovers handoverports.Service
	Sessions  handoverhttp.SessionSource
	Reminders remindershttp.Engine
	// Health reports per-backend status; nil means no backends to check.
	Health func(ctx context.Context) map[string]string
}

// NewRouter builds the gin engine with tracing, metrics and the v1 routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))

	router.GET("/healthz", func(c *gin.Context) {
		status := map[string]string{}
		if deps.Health != nil {
			status = deps.Health(c.Request.Context())
		}
		code := http.StatusOK
		for _, s := range status {
			if s != "ok" {
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": http.StatusText(code), "checks": status})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	handoverhttp.NewAPI(deps.Handovers, deps.Sessions).RegisterRoutes(v1)
	remindershttp.NewAPI(deps.Reminders).RegisterRoutes(v1)
	return router
}
