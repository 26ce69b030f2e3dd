package adapters

import (
	"context"

	catalogrepo "travelquote_backend/internal/catalog/repository"
	"travelquote_backend/internal/quotations/domain"
	quotationsvc "travelquote_backend/internal/quotations/service"

	"github.com/google/uuid"
)

// QuotationCatalogReader resolves tagged service references for the
// quotation engine. The type tag must match the stored record; a hotel
// reference never resolves to a car row.
type QuotationCatalogReader struct {
	repo *catalogrepo.Repository
}

func NewQuotationCatalogReader(repo *catalogrepo.Repository) *QuotationCatalogReader {
	return &QuotationCatalogReader{repo: repo}
}

func (a *QuotationCatalogReader) GetServiceAgency(ctx context.Context, ref domain.ServiceRef) (uuid.UUID, error) {
	svc, err := a.repo.Get(ctx, ref.ID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if svc.Type != string(ref.Type) {
		return uuid.UUID{}, catalogrepo.ErrNotFound
	}
	return svc.AgencyID, nil
}

var _ quotationsvc.CatalogReader = (*QuotationCatalogReader)(nil)
