// Package catalog provides the service catalog bounded context: the
// hotels, cars, meals, and activities quotation items reference.
package catalog

import (
	"travelquote_backend/internal/adapters/storage"
	"travelquote_backend/internal/catalog/handler"
	"travelquote_backend/internal/catalog/repository"
	"travelquote_backend/internal/catalog/service"
	apphttp "travelquote_backend/internal/http"
	"travelquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

func NewModule(pool *pgxpool.Pool, store storage.ObjectStore, photoBucket string, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, photoBucket)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

func (m *Module) Name() string {
	return "catalog"
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
