package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"travelquote_backend/internal/quotations/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// Quotation is the aggregate header row. TotalCents is a cached
// projection of the item sum; it is only ever written together with the
// item mutation that changed it.
type Quotation struct {
	ID             uuid.UUID
	AgencyID       uuid.UUID
	ClientID       uuid.UUID
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	Adults         int
	Children       int
	Infants        int
	Status         domain.Status
	TotalCents     int64
	ShareTokenHash *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Item is one priced catalog service attached to a quotation.
type Item struct {
	ID          uuid.UUID
	QuotationID uuid.UUID
	ServiceType domain.ServiceType
	ServiceID   uuid.UUID
	Description *string
	PriceCents  int64
	SortOrder   int
	CreatedAt   time.Time
}

type ItemUpdate struct {
	Description *string
	PriceCents  *int64
}

// Day is one itinerary entry. Images is an opaque JSON list of photo
// references; the engine does not read into it.
type Day struct {
	ID              uuid.UUID
	QuotationID     uuid.UUID
	DayNumber       int
	Headline        string
	Description     *string
	DurationMinutes *int
	Notes           *string
	Images          json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type DayUpdate struct {
	DayNumber       *int
	Headline        *string
	Description     *string
	DurationMinutes *int
	Notes           *string
	Images          json.RawMessage
}

type ListParams struct {
	AgencyID uuid.UUID
	ClientID *uuid.UUID
	Status   *domain.Status
	Page     int
	PageSize int
}

type ListResult struct {
	Items      []Quotation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// MutationTx is the aggregate's single-transaction mutation surface.
// The parent quotation row is locked for the whole transaction, so the
// snapshot from Quotation() cannot be invalidated by a concurrent
// writer before commit.
type MutationTx interface {
	// Quotation returns the row as locked at transaction start.
	Quotation() Quotation

	Items(ctx context.Context) ([]Item, error)
	InsertItem(ctx context.Context, item Item) (Item, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, update ItemUpdate) (Item, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	Days(ctx context.Context) ([]Day, error)
	InsertDay(ctx context.Context, day Day) (Day, error)
	UpdateDay(ctx context.Context, dayID uuid.UUID, update DayUpdate) (Day, error)
	DeleteDay(ctx context.Context, dayID uuid.UUID) error
	// RenumberDays applies a compaction plan (old day number -> new).
	RenumberDays(ctx context.Context, plan map[int]int) error

	SetTotal(ctx context.Context, totalCents int64) error
	// SetStatus writes the new status and returns the row as committed,
	// including the refreshed update timestamp.
	SetStatus(ctx context.Context, status domain.Status) (Quotation, error)

	// DeleteQuotation removes the aggregate; items and days cascade.
	DeleteQuotation(ctx context.Context) error
}

// Store is the persistence port of the quotation engine. Every write
// that touches items, days, status, or the total goes through Mutate so
// the whole operation commits or rolls back as a unit.
type Store interface {
	Create(ctx context.Context, q Quotation) (Quotation, error)
	Get(ctx context.Context, id uuid.UUID) (Quotation, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	ListItems(ctx context.Context, quotationID uuid.UUID) ([]Item, error)
	ListDays(ctx context.Context, quotationID uuid.UUID) ([]Day, error)

	Mutate(ctx context.Context, quotationID uuid.UUID, fn func(ctx context.Context, tx MutationTx) error) error

	SetShareToken(ctx context.Context, quotationID uuid.UUID, tokenHash string) error
	GetByShareToken(ctx context.Context, tokenHash string) (Quotation, error)
}
