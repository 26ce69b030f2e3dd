// Package clients provides the client directory bounded context.
// Clients are the travelers quotations are issued for.
package clients

import (
	"travelquote_backend/internal/clients/handler"
	"travelquote_backend/internal/clients/repository"
	"travelquote_backend/internal/clients/service"
	apphttp "travelquote_backend/internal/http"
	"travelquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

func (m *Module) Name() string {
	return "clients"
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
