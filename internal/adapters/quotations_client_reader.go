package adapters

import (
	"context"

	clientsrepo "travelquote_backend/internal/clients/repository"
	quotationsvc "travelquote_backend/internal/quotations/service"

	"github.com/google/uuid"
)

// QuotationClientReader exposes client ownership lookups to the
// quotation engine without coupling it to the clients module.
type QuotationClientReader struct {
	repo *clientsrepo.Repository
}

func NewQuotationClientReader(repo *clientsrepo.Repository) *QuotationClientReader {
	return &QuotationClientReader{repo: repo}
}

func (a *QuotationClientReader) GetClientAgency(ctx context.Context, clientID uuid.UUID) (uuid.UUID, error) {
	client, err := a.repo.Get(ctx, clientID)
	if err != nil {
		return uuid.UUID{}, err
	}
	return client.AgencyID, nil
}

var _ quotationsvc.ClientReader = (*QuotationClientReader)(nil)
