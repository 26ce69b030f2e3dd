// Package quotations provides the quotation aggregation engine: the
// aggregate root, its priced items, the day-by-day itinerary, and the
// status lifecycle.
package quotations

import (
	"travelquote_backend/internal/events"
	apphttp "travelquote_backend/internal/http"
	"travelquote_backend/internal/quotations/handler"
	"travelquote_backend/internal/quotations/repository"
	"travelquote_backend/internal/quotations/service"
	"travelquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the slice of application config the module needs.
type Config interface {
	service.Policy
	GetAppBaseURL() string
}

type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, clients service.ClientReader, catalog service.CatalogReader, eventBus events.Bus, cfg Config) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, clients, catalog, eventBus, cfg, cfg.GetAppBaseURL())

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc),
		service:       svc,
	}
}

func (m *Module) Name() string {
	return "quotations"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
	m.publicHandler.RegisterRoutes(ctx.V1.Group("/public/quotations"))
}

var _ apphttp.Module = (*Module)(nil)
