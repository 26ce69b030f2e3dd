package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelquote_backend/internal/auth/token"
	"travelquote_backend/internal/events"
	"travelquote_backend/internal/quotations/domain"
	"travelquote_backend/internal/quotations/repository"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/apperr"
	"travelquote_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	quotationNotFound = "quotation not found"
	itemNotFound      = "quotation item not found"
	dayNotFound       = "itinerary day not found"

	shareTokenBytes  = 24
	hydrationWorkers = 5
)

// ClientReader resolves a client's owning agency for the referential
// check at quotation creation.
type ClientReader interface {
	GetClientAgency(ctx context.Context, clientID uuid.UUID) (uuid.UUID, error)
}

// CatalogReader resolves a tagged service reference to its owning
// agency. The lookup is explicit per type tag, never a join.
type CatalogReader interface {
	GetServiceAgency(ctx context.Context, ref domain.ServiceRef) (uuid.UUID, error)
}

// Policy is the configurable engine behavior.
type Policy interface {
	GetItineraryEnforceSpan() bool
}

type Service struct {
	store    repository.Store
	clients  ClientReader
	catalog  CatalogReader
	eventBus events.Bus
	policy   Policy
	baseURL  string
}

func New(store repository.Store, clients ClientReader, catalog CatalogReader, eventBus events.Bus, policy Policy, appBaseURL string) *Service {
	return &Service{
		store:    store,
		clients:  clients,
		catalog:  catalog,
		eventBus: eventBus,
		policy:   policy,
		baseURL:  strings.TrimRight(appBaseURL, "/"),
	}
}

type CreateInput struct {
	AgencyID    *uuid.UUID
	ClientID    uuid.UUID
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Party       domain.Party
}

// Create opens a new quotation in PENDING with an empty item set and a
// zero total. The client must belong to the quotation's agency.
func (s *Service) Create(ctx context.Context, actor tenant.Actor, input CreateInput) (repository.Quotation, error) {
	agencyID, err := tenant.ResolveAgency(actor, input.AgencyID)
	if err != nil {
		return repository.Quotation{}, err
	}

	destination := sanitize.Text(strings.TrimSpace(input.Destination))
	if destination == "" {
		return repository.Quotation{}, apperr.Validation("destination is required")
	}
	if err := domain.ValidateDates(input.StartDate, input.EndDate); err != nil {
		return repository.Quotation{}, err
	}
	if err := input.Party.Validate(); err != nil {
		return repository.Quotation{}, err
	}

	clientAgency, err := s.clients.GetClientAgency(ctx, input.ClientID)
	if err != nil {
		return repository.Quotation{}, apperr.NotFound("client not found")
	}
	if clientAgency != agencyID {
		return repository.Quotation{}, apperr.Referential("client belongs to a different agency")
	}

	created, err := s.store.Create(ctx, repository.Quotation{
		AgencyID:    agencyID,
		ClientID:    input.ClientID,
		Destination: destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Adults:      input.Party.Adults,
		Children:    input.Party.Children,
		Infants:     input.Party.Infants,
		Status:      domain.StatusPending,
	})
	if err != nil {
		return repository.Quotation{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.QuotationCreated{
			BaseEvent:   events.NewBaseEvent(),
			QuotationID: created.ID,
			AgencyID:    created.AgencyID,
			ClientID:    created.ClientID,
			Destination: created.Destination,
			CreatedBy:   actor.UserID,
		})
	}

	return created, nil
}

// load fetches the quotation and runs the tenant scope check. Every
// public operation goes through here before touching the aggregate.
func (s *Service) load(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID) (repository.Quotation, error) {
	q, err := s.store.Get(ctx, quotationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Quotation{}, apperr.NotFound(quotationNotFound)
		}
		return repository.Quotation{}, err
	}
	if err := tenant.Authorize(actor, q.AgencyID); err != nil {
		return repository.Quotation{}, err
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID) (repository.Quotation, error) {
	return s.load(ctx, actor, quotationID)
}

// Summary is a listing row hydrated with its item count.
type Summary struct {
	Quotation repository.Quotation
	ItemCount int
}

type ListInput struct {
	AgencyID *uuid.UUID
	ClientID *uuid.UUID
	Status   *domain.Status
	Page     int
	PageSize int
}

type ListOutput struct {
	Items      []Summary
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

func (s *Service) List(ctx context.Context, actor tenant.Actor, input ListInput) (ListOutput, error) {
	agencyID, err := tenant.ResolveAgency(actor, input.AgencyID)
	if err != nil {
		return ListOutput{}, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return ListOutput{}, apperr.Validation("unknown status " + string(*input.Status))
	}

	result, err := s.store.List(ctx, repository.ListParams{
		AgencyID: agencyID,
		ClientID: input.ClientID,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return ListOutput{}, err
	}

	summaries := make([]Summary, len(result.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrationWorkers)
	for i, q := range result.Items {
		i, q := i, q
		g.Go(func() error {
			items, err := s.store.ListItems(gctx, q.ID)
			if err != nil {
				return err
			}
			summaries[i] = Summary{Quotation: q, ItemCount: len(items)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ListOutput{}, err
	}

	return ListOutput{
		Items:      summaries,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

func (s *Service) ListItems(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID) ([]repository.Item, error) {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, quotationID)
}

func (s *Service) ListDays(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID) ([]repository.Day, error) {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return nil, err
	}
	return s.store.ListDays(ctx, quotationID)
}

type ItemInput struct {
	Ref         domain.ServiceRef
	Description *string
	PriceCents  int64
	SortOrder   int
}

// AddItem attaches a priced catalog service. The item insert and the
// total recompute commit as one transaction; the status gate is
// re-checked under the row lock.
func (s *Service) AddItem(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID, input ItemInput) (repository.Item, error) {
	q, err := s.load(ctx, actor, quotationID)
	if err != nil {
		return repository.Item{}, err
	}
	if err := input.Ref.Validate(); err != nil {
		return repository.Item{}, err
	}
	if err := domain.ValidatePrice(input.PriceCents); err != nil {
		return repository.Item{}, err
	}

	serviceAgency, err := s.catalog.GetServiceAgency(ctx, input.Ref)
	if err != nil {
		return repository.Item{}, apperr.NotFound("catalog service not found")
	}
	if serviceAgency != q.AgencyID {
		return repository.Item{}, apperr.Referential("catalog service belongs to a different agency")
	}

	var item repository.Item
	err = s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if err := domain.CheckMutable(tx.Quotation().Status); err != nil {
			return err
		}

		inserted, err := tx.InsertItem(ctx, repository.Item{
			ServiceType: input.Ref.Type,
			ServiceID:   input.Ref.ID,
			Description: sanitize.TextPtr(input.Description),
			PriceCents:  input.PriceCents,
			SortOrder:   input.SortOrder,
		})
		if err != nil {
			return err
		}
		item = inserted

		return s.recomputeTotal(ctx, tx)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Item{}, apperr.NotFound(quotationNotFound)
	}
	return item, err
}

func (s *Service) UpdateItem(ctx context.Context, actor tenant.Actor, quotationID, itemID uuid.UUID, update repository.ItemUpdate) (repository.Item, error) {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return repository.Item{}, err
	}
	if update.PriceCents != nil {
		if err := domain.ValidatePrice(*update.PriceCents); err != nil {
			return repository.Item{}, err
		}
	}
	update.Description = sanitize.TextPtr(update.Description)

	var item repository.Item
	err := s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if err := domain.CheckMutable(tx.Quotation().Status); err != nil {
			return err
		}

		updated, err := tx.UpdateItem(ctx, itemID, update)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(itemNotFound)
		}
		if err != nil {
			return err
		}
		item = updated

		return s.recomputeTotal(ctx, tx)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Item{}, apperr.NotFound(quotationNotFound)
	}
	return item, err
}

func (s *Service) RemoveItem(ctx context.Context, actor tenant.Actor, quotationID, itemID uuid.UUID) error {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return err
	}

	err := s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if err := domain.CheckMutable(tx.Quotation().Status); err != nil {
			return err
		}

		if err := tx.DeleteItem(ctx, itemID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound(itemNotFound)
			}
			return err
		}

		return s.recomputeTotal(ctx, tx)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(quotationNotFound)
	}
	return err
}

// recomputeTotal re-derives the cached total from the items visible in
// this transaction.
func (s *Service) recomputeTotal(ctx context.Context, tx repository.MutationTx) error {
	items, err := tx.Items(ctx)
	if err != nil {
		return err
	}
	return tx.SetTotal(ctx, SumItems(items))
}

type DayInput struct {
	DayNumber       int
	Headline        string
	Description     *string
	DurationMinutes *int
	Notes           *string
	Images          []byte
}

func (s *Service) AddDay(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID, input DayInput) (repository.Day, error) {
	q, err := s.load(ctx, actor, quotationID)
	if err != nil {
		return repository.Day{}, err
	}

	span := domain.TripSpanDays(q.StartDate, q.EndDate)
	if err := domain.ValidateDayNumber(input.DayNumber, s.policy.GetItineraryEnforceSpan(), span); err != nil {
		return repository.Day{}, err
	}

	headline := sanitize.Text(strings.TrimSpace(input.Headline))
	if headline == "" {
		return repository.Day{}, apperr.Validation("day headline is required")
	}

	var day repository.Day
	err = s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if err := domain.CheckMutable(tx.Quotation().Status); err != nil {
			return err
		}

		existing, err := tx.Days(ctx)
		if err != nil {
			return err
		}
		if err := domain.CheckUniqueDay(dayNumbers(existing), input.DayNumber); err != nil {
			return err
		}

		inserted, err := tx.InsertDay(ctx, repository.Day{
			DayNumber:       input.DayNumber,
			Headline:        headline,
			Description:     sanitize.TextPtr(input.Description),
			DurationMinutes: input.DurationMinutes,
			Notes:           sanitize.TextPtr(input.Notes),
			Images:          input.Images,
		})
		if err != nil {
			return err
		}
		day = inserted
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Day{}, apperr.NotFound(quotationNotFound)
	}
	return day, err
}

func (s *Service) UpdateDay(ctx context.Context, actor tenant.Actor, quotationID, dayID uuid.UUID, update repository.DayUpdate) (repository.Day, error) {
	q, err := s.load(ctx, actor, quotationID)
	if err != nil {
		return repository.Day{}, err
	}

	if update.DayNumber != nil {
		span := domain.TripSpanDays(q.StartDate, q.EndDate)
		if err := domain.ValidateDayNumber(*update.DayNumber, s.policy.GetItineraryEnforceSpan(), span); err != nil {
			return repository.Day{}, err
		}
	}
	update.Headline = sanitize.TextPtr(update.Headline)
	update.Description = sanitize.TextPtr(update.Description)
	update.Notes = sanitize.TextPtr(update.Notes)

	var day repository.Day
	err = s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if err := domain.CheckMutable(tx.Quotation().Status); err != nil {
			return err
		}

		if update.DayNumber != nil {
			existing, err := tx.Days(ctx)
			if err != nil {
				return err
			}
			for _, d := range existing {
				if d.ID != dayID && d.DayNumber == *update.DayNumber {
					return apperr.Validation("itinerary already has a day with that number")
				}
			}
		}

		updated, err := tx.UpdateDay(ctx, dayID, update)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(dayNotFound)
		}
		if err != nil {
			return err
		}
		day = updated
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Day{}, apperr.NotFound(quotationNotFound)
	}
	return day, err
}

func (s *Service) RemoveDay(ctx context.Context, actor tenant.Actor, quotationID, dayID uuid.UUID) error {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return err
	}

	err := s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if err := domain.CheckMutable(tx.Quotation().Status); err != nil {
			return err
		}

		if err := tx.DeleteDay(ctx, dayID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound(dayNotFound)
			}
			return err
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(quotationNotFound)
	}
	return err
}

// CompactDays renumbers the itinerary to 1..n in ascending order.
// Deletion never renumbers implicitly; this is the explicit operation.
func (s *Service) CompactDays(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID) ([]repository.Day, error) {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return nil, err
	}

	err := s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if err := domain.CheckMutable(tx.Quotation().Status); err != nil {
			return err
		}

		days, err := tx.Days(ctx)
		if err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		return tx.RenumberDays(ctx, domain.CompactionPlan(dayNumbers(days)))
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(quotationNotFound)
	}
	if err != nil {
		return nil, err
	}

	return s.store.ListDays(ctx, quotationID)
}

// Transition moves the quotation along the lifecycle. Sending re-checks
// the item set and the stored total against the live item sum inside
// the same transaction; drift is a consistency failure surfaced loudly,
// never patched up.
func (s *Service) Transition(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID, to domain.Status) (repository.Quotation, error) {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return repository.Quotation{}, err
	}

	var from domain.Status
	var updated repository.Quotation
	err := s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		q := tx.Quotation()
		from = q.Status

		if err := domain.CheckTransition(q.Status, to); err != nil {
			return err
		}

		if to == domain.StatusSent {
			items, err := tx.Items(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return apperr.Validation("cannot send an empty quotation")
			}
			if sum := SumItems(items); sum != q.TotalCents {
				return apperr.Consistency("stored total disagrees with item sum")
			}
		}

		q, err := tx.SetStatus(ctx, to)
		if err != nil {
			return err
		}
		updated = q
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Quotation{}, apperr.NotFound(quotationNotFound)
	}
	if err != nil {
		return repository.Quotation{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.QuotationStatusChanged{
			BaseEvent:   events.NewBaseEvent(),
			QuotationID: quotationID,
			AgencyID:    updated.AgencyID,
			ClientID:    updated.ClientID,
			Destination: updated.Destination,
			FromStatus:  string(from),
			ToStatus:    string(to),
			TotalCents:  updated.TotalCents,
			ChangedBy:   actor.UserID,
		})
	}

	return updated, nil
}

// Delete removes the aggregate and its owned collections. Terminal
// quotations are audit artifacts and cannot be deleted.
func (s *Service) Delete(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID) error {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return err
	}

	err := s.store.Mutate(ctx, quotationID, func(ctx context.Context, tx repository.MutationTx) error {
		if tx.Quotation().Status.Terminal() {
			return apperr.Immutable("closed quotations cannot be deleted")
		}
		return tx.DeleteQuotation(ctx)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(quotationNotFound)
	}
	return err
}

// CreateShareLink issues a public read-only link for the quotation.
// Only the token's hash is stored.
func (s *Service) CreateShareLink(ctx context.Context, actor tenant.Actor, quotationID uuid.UUID) (string, error) {
	if _, err := s.load(ctx, actor, quotationID); err != nil {
		return "", err
	}

	rawToken, err := token.GenerateRandomToken(shareTokenBytes)
	if err != nil {
		return "", err
	}

	if err := s.store.SetShareToken(ctx, quotationID, token.HashSHA256(rawToken)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.NotFound(quotationNotFound)
		}
		return "", err
	}

	return s.PublicURL(rawToken), nil
}

// PublicURL builds the shareable URL for a raw share token.
func (s *Service) PublicURL(rawToken string) string {
	return s.baseURL + "/public/quotations/" + rawToken
}

// PublicQuotation is the read-only view served to share-link visitors.
type PublicQuotation struct {
	Quotation repository.Quotation
	Items     []repository.Item
	Days      []repository.Day
}

// GetPublic resolves a share token. No actor; the token is the
// capability.
func (s *Service) GetPublic(ctx context.Context, rawToken string) (PublicQuotation, error) {
	q, err := s.store.GetByShareToken(ctx, token.HashSHA256(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return PublicQuotation{}, apperr.NotFound(quotationNotFound)
		}
		return PublicQuotation{}, err
	}

	items, err := s.store.ListItems(ctx, q.ID)
	if err != nil {
		return PublicQuotation{}, err
	}
	days, err := s.store.ListDays(ctx, q.ID)
	if err != nil {
		return PublicQuotation{}, err
	}

	return PublicQuotation{Quotation: q, Items: items, Days: days}, nil
}

func dayNumbers(days []repository.Day) []int {
	numbers := make([]int, len(days))
	for i, d := range days {
		numbers[i] = d.DayNumber
	}
	return numbers
}
