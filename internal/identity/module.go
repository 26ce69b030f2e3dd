// Package identity provides the tenant directory bounded context:
// agencies, their users, and per-agency settings.
package identity

import (
	"travelquote_backend/internal/adapters/storage"
	"travelquote_backend/internal/events"
	apphttp "travelquote_backend/internal/http"
	"travelquote_backend/internal/identity/handler"
	"travelquote_backend/internal/identity/repository"
	"travelquote_backend/internal/identity/service"
	"travelquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

func NewModule(pool *pgxpool.Pool, cache *repository.SettingsCache, eventBus events.Bus, store storage.ObjectStore, logoBucket string, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cache, eventBus, store, logoBucket)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

func (m *Module) Name() string {
	return "identity"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Repository() *repository.Repository {
	return m.repository
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
