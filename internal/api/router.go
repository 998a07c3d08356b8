package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/api/handlers"
	"github.com/orrn/printbridge/internal/api/middleware"
	"github.com/orrn/printbridge/internal/db"
	"github.com/orrn/printbridge/internal/logger"
)

type Dependencies struct {
	Printers handlers.PrinterService
	Registry handlers.PrinterRegistry
	Store    *db.Store
	// Auth guards every route except /api/auth and /health. Nil disables it.
	Auth   *middleware.AuthMiddleware
	Logger *zap.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(logger.Recovery(log), logger.GinMiddleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if deps.Auth != nil {
		deps.Auth.RegisterRoutes(api)
	}

	protected := api.Group("")
	if deps.Auth != nil {
		protected.Use(deps.Auth.RequireAuth())
	}

	handlers.NewPrinterHandler(deps.Printers, deps.Registry).RegisterRoutes(protected)
	handlers.NewPrintHandler(deps.Printers).RegisterRoutes(protected)
	handlers.NewSubmissionHandler(deps.Store.Submissions).RegisterRoutes(protected)
	handlers.NewWebhookHandler(deps.Store.Webhooks).RegisterRoutes(protected)

	return r
}
