// Package webhook module wiring: inbound WhatsApp ingestion plus API key
// management routes.
package webhook

import (
	"autoassist_backend/internal/adapters/storage"
	apphttp "autoassist_backend/internal/http"
	"autoassist_backend/platform/logger"
	"autoassist_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the webhook module with all its dependencies.
func NewModule(pool *pgxpool.Pool, processor MessageProcessor, storageSvc storage.StorageService, storageBucket string, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	service := NewService(repo, processor, storageSvc, storageBucket, log)
	handler := NewHandler(service, repo, val, log)

	return &Module{
		handler: handler,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public inbound endpoint (API key auth, no JWT)
	webhookGroup := ctx.V1.Group("/webhook")
	webhookGroup.Use(APIKeyAuthMiddleware(m.repo))
	webhookGroup.POST("/whatsapp", m.handler.HandleWhatsAppMessage)

	// Admin API key management (JWT auth + admin role). Key minting is
	// rare and sensitive, so it gets the strict limiter.
	adminGroup := ctx.Admin.Group("/webhook/keys")
	adminGroup.Use(ctx.AuthRateLimiter.RateLimit())
	adminGroup.POST("", m.handler.HandleCreateAPIKey)
	adminGroup.GET("", m.handler.HandleListAPIKeys)
	adminGroup.DELETE("/:keyId", m.handler.HandleRevokeAPIKey)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
