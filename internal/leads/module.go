// Package leads provides the lead scoring bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"autoassist_backend/internal/adapters/storage"
	"autoassist_backend/internal/events"
	apphttp "autoassist_backend/internal/http"
	"autoassist_backend/internal/leads/handler"
	"autoassist_backend/internal/leads/repository"
	"autoassist_backend/internal/leads/service"
	"autoassist_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
// cache, tasks, and storageSvc may be nil when Redis or MinIO is not configured.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, cache service.ConversationCache, tasks service.TaskEnqueuer, storageSvc storage.StorageService, mediaBucket string, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cache, tasks, eventBus, log)
	h := handler.New(svc, storageSvc, mediaBucket)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for external use (webhook module, worker).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the leads repository for background workers.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
