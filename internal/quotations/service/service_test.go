package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"travelquote_backend/internal/quotations/domain"
	"travelquote_backend/internal/quotations/repository"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store with the same commit-or-rollback
// contract as the real repository: Mutate stages every change and only
// applies it when the callback returns nil.
type fakeStore struct {
	mu         sync.Mutex
	quotations map[uuid.UUID]repository.Quotation
	items      map[uuid.UUID][]repository.Item
	days       map[uuid.UUID][]repository.Day
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotations: make(map[uuid.UUID]repository.Quotation),
		items:      make(map[uuid.UUID][]repository.Item),
		days:       make(map[uuid.UUID][]repository.Day),
	}
}

func (f *fakeStore) Create(_ context.Context, q repository.Quotation) (repository.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q.ID = uuid.New()
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	f.quotations[q.ID] = q
	return q, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (repository.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotations[id]
	if !ok {
		return repository.Quotation{}, repository.ErrNotFound
	}
	return q, nil
}

func (f *fakeStore) List(_ context.Context, params repository.ListParams) (repository.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []repository.Quotation
	for _, q := range f.quotations {
		if q.AgencyID != params.AgencyID {
			continue
		}
		if params.ClientID != nil && q.ClientID != *params.ClientID {
			continue
		}
		if params.Status != nil && q.Status != *params.Status {
			continue
		}
		items = append(items, q)
	}
	return repository.ListResult{Items: items, Total: len(items), Page: 1, PageSize: 20, TotalPages: 1}, nil
}

func (f *fakeStore) ListItems(_ context.Context, quotationID uuid.UUID) ([]repository.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.Item(nil), f.items[quotationID]...), nil
}

func (f *fakeStore) ListDays(_ context.Context, quotationID uuid.UUID) ([]repository.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedDays(f.days[quotationID]), nil
}

func sortedDays(days []repository.Day) []repository.Day {
	out := append([]repository.Day(nil), days...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].DayNumber < out[j-1].DayNumber; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (f *fakeStore) Mutate(ctx context.Context, quotationID uuid.UUID, fn func(ctx context.Context, tx repository.MutationTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, ok := f.quotations[quotationID]
	if !ok {
		return repository.ErrNotFound
	}

	tx := &fakeTx{
		store:     f,
		snapshot:  q,
		quotation: q,
		items:     append([]repository.Item(nil), f.items[quotationID]...),
		days:      append([]repository.Day(nil), f.days[quotationID]...),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if tx.deleted {
		delete(f.quotations, quotationID)
		delete(f.items, quotationID)
		delete(f.days, quotationID)
		return nil
	}
	f.quotations[quotationID] = tx.quotation
	f.items[quotationID] = tx.items
	f.days[quotationID] = tx.days
	return nil
}

func (f *fakeStore) SetShareToken(_ context.Context, quotationID uuid.UUID, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotations[quotationID]
	if !ok {
		return repository.ErrNotFound
	}
	q.ShareTokenHash = &tokenHash
	f.quotations[quotationID] = q
	return nil
}

func (f *fakeStore) GetByShareToken(_ context.Context, tokenHash string) (repository.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.quotations {
		if q.ShareTokenHash != nil && *q.ShareTokenHash == tokenHash {
			return q, nil
		}
	}
	return repository.Quotation{}, repository.ErrNotFound
}

type fakeTx struct {
	store     *fakeStore
	snapshot  repository.Quotation
	quotation repository.Quotation
	items     []repository.Item
	days      []repository.Day
	deleted   bool
}

func (t *fakeTx) Quotation() repository.Quotation { return t.snapshot }

func (t *fakeTx) Items(context.Context) ([]repository.Item, error) {
	return append([]repository.Item(nil), t.items...), nil
}

func (t *fakeTx) InsertItem(_ context.Context, item repository.Item) (repository.Item, error) {
	item.ID = uuid.New()
	item.QuotationID = t.snapshot.ID
	item.CreatedAt = time.Now()
	t.items = append(t.items, item)
	return item, nil
}

func (t *fakeTx) UpdateItem(_ context.Context, itemID uuid.UUID, update repository.ItemUpdate) (repository.Item, error) {
	for i, item := range t.items {
		if item.ID != itemID {
			continue
		}
		if update.Description != nil {
			item.Description = update.Description
		}
		if update.PriceCents != nil {
			item.PriceCents = *update.PriceCents
		}
		t.items[i] = item
		return item, nil
	}
	return repository.Item{}, repository.ErrNotFound
}

func (t *fakeTx) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	for i, item := range t.items {
		if item.ID == itemID {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (t *fakeTx) Days(context.Context) ([]repository.Day, error) {
	return sortedDays(t.days), nil
}

func (t *fakeTx) InsertDay(_ context.Context, day repository.Day) (repository.Day, error) {
	day.ID = uuid.New()
	day.QuotationID = t.snapshot.ID
	now := time.Now()
	day.CreatedAt = now
	day.UpdatedAt = now
	t.days = append(t.days, day)
	return day, nil
}

func (t *fakeTx) UpdateDay(_ context.Context, dayID uuid.UUID, update repository.DayUpdate) (repository.Day, error) {
	for i, day := range t.days {
		if day.ID != dayID {
			continue
		}
		if update.DayNumber != nil {
			day.DayNumber = *update.DayNumber
		}
		if update.Headline != nil {
			day.Headline = *update.Headline
		}
		if update.Description != nil {
			day.Description = update.Description
		}
		if update.DurationMinutes != nil {
			day.DurationMinutes = update.DurationMinutes
		}
		if update.Notes != nil {
			day.Notes = update.Notes
		}
		if update.Images != nil {
			day.Images = update.Images
		}
		t.days[i] = day
		return day, nil
	}
	return repository.Day{}, repository.ErrNotFound
}

func (t *fakeTx) DeleteDay(_ context.Context, dayID uuid.UUID) error {
	for i, day := range t.days {
		if day.ID == dayID {
			t.days = append(t.days[:i], t.days[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (t *fakeTx) RenumberDays(_ context.Context, plan map[int]int) error {
	for i, day := range t.days {
		if to, ok := plan[day.DayNumber]; ok {
			day.DayNumber = to
			t.days[i] = day
		}
	}
	return nil
}

func (t *fakeTx) SetTotal(_ context.Context, totalCents int64) error {
	t.quotation.TotalCents = totalCents
	return nil
}

func (t *fakeTx) SetStatus(_ context.Context, status domain.Status) (repository.Quotation, error) {
	t.quotation.Status = status
	t.quotation.UpdatedAt = time.Now()
	return t.quotation, nil
}

func (t *fakeTx) DeleteQuotation(context.Context) error {
	t.deleted = true
	return nil
}

type fakeClients struct {
	agencies map[uuid.UUID]uuid.UUID
}

func (f *fakeClients) GetClientAgency(_ context.Context, clientID uuid.UUID) (uuid.UUID, error) {
	agency, ok := f.agencies[clientID]
	if !ok {
		return uuid.UUID{}, repository.ErrNotFound
	}
	return agency, nil
}

type fakeCatalog struct {
	agencies map[uuid.UUID]uuid.UUID
}

func (f *fakeCatalog) GetServiceAgency(_ context.Context, ref domain.ServiceRef) (uuid.UUID, error) {
	agency, ok := f.agencies[ref.ID]
	if !ok {
		return uuid.UUID{}, repository.ErrNotFound
	}
	return agency, nil
}

type fakePolicy struct{ enforceSpan bool }

func (p fakePolicy) GetItineraryEnforceSpan() bool { return p.enforceSpan }

type fixture struct {
	svc     *Service
	store   *fakeStore
	catalog *fakeCatalog
	agencyA uuid.UUID
	agencyB uuid.UUID
	clientA uuid.UUID
	hotelA  uuid.UUID
	hotelB  uuid.UUID
	staffA  tenant.Actor
	staffB  tenant.Actor
	root    tenant.Actor
}

func newFixture(t *testing.T, enforceSpan bool) *fixture {
	t.Helper()

	agencyA := uuid.New()
	agencyB := uuid.New()
	clientA := uuid.New()
	hotelA := uuid.New()
	hotelB := uuid.New()

	store := newFakeStore()
	catalog := &fakeCatalog{agencies: map[uuid.UUID]uuid.UUID{hotelA: agencyA, hotelB: agencyB}}
	clients := &fakeClients{agencies: map[uuid.UUID]uuid.UUID{clientA: agencyA}}

	svc := New(store, clients, catalog, nil, fakePolicy{enforceSpan: enforceSpan}, "https://app.example.com")

	return &fixture{
		svc:     svc,
		store:   store,
		catalog: catalog,
		agencyA: agencyA,
		agencyB: agencyB,
		clientA: clientA,
		hotelA:  hotelA,
		hotelB:  hotelB,
		staffA:  tenant.Actor{UserID: uuid.New(), AgencyID: &agencyA, Role: tenant.RoleExecutive},
		staffB:  tenant.Actor{UserID: uuid.New(), AgencyID: &agencyB, Role: tenant.RoleExecutive},
		root:    tenant.Actor{UserID: uuid.New(), Role: tenant.RoleSuperadmin},
	}
}

func (f *fixture) createQuotation(t *testing.T) repository.Quotation {
	t.Helper()
	q, err := f.svc.Create(context.Background(), f.staffA, CreateInput{
		ClientID:    f.clientA,
		Destination: "Bali",
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Party:       domain.Party{Adults: 2, Children: 1},
	})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}
	if q.Status != domain.StatusPending {
		t.Fatalf("new quotation must be PENDING, got %s", q.Status)
	}
	if q.TotalCents != 0 {
		t.Fatalf("new quotation total must be 0, got %d", q.TotalCents)
	}
	return q
}

func (f *fixture) addItem(t *testing.T, quotationID uuid.UUID, priceCents int64) repository.Item {
	t.Helper()
	item, err := f.svc.AddItem(context.Background(), f.staffA, quotationID, ItemInput{
		Ref:        domain.ServiceRef{Type: domain.ServiceHotel, ID: f.hotelA},
		PriceCents: priceCents,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return item
}

func (f *fixture) total(t *testing.T, quotationID uuid.UUID) int64 {
	t.Helper()
	q, err := f.store.Get(context.Background(), quotationID)
	if err != nil {
		t.Fatalf("get quotation: %v", err)
	}
	return q.TotalCents
}

func TestTotalTracksItemMutations(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	f.addItem(t, q.ID, 10000)
	fifty := f.addItem(t, q.ID, 5000)
	f.addItem(t, q.ID, 2550)

	if got := f.total(t, q.ID); got != 17550 {
		t.Fatalf("total after three items: got %d want 17550", got)
	}

	if err := f.svc.RemoveItem(context.Background(), f.staffA, q.ID, fifty.ID); err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if got := f.total(t, q.ID); got != 12550 {
		t.Fatalf("total after removal: got %d want 12550", got)
	}
}

func TestTotalTracksPriceUpdate(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	item := f.addItem(t, q.ID, 10000)

	newPrice := int64(7500)
	if _, err := f.svc.UpdateItem(context.Background(), f.staffA, q.ID, item.ID, repository.ItemUpdate{PriceCents: &newPrice}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	if got := f.total(t, q.ID); got != 7500 {
		t.Fatalf("total after price update: got %d want 7500", got)
	}
}

func TestNegativePriceRejected(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	_, err := f.svc.AddItem(context.Background(), f.staffA, q.ID, ItemInput{
		Ref:        domain.ServiceRef{Type: domain.ServiceHotel, ID: f.hotelA},
		PriceCents: -100,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative price must be a validation error, got %v", err)
	}
	if got := f.total(t, q.ID); got != 0 {
		t.Fatalf("rejected item must not change the total, got %d", got)
	}
}

func TestCrossTenantAccessDenied(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	if _, err := f.svc.Get(context.Background(), f.staffB, q.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("cross-agency read must be denied, got %v", err)
	}

	_, err := f.svc.AddItem(context.Background(), f.staffB, q.ID, ItemInput{
		Ref:        domain.ServiceRef{Type: domain.ServiceHotel, ID: f.hotelA},
		PriceCents: 100,
	})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("cross-agency mutation must be denied, got %v", err)
	}

	if _, err := f.svc.Get(context.Background(), f.root, q.ID); err != nil {
		t.Fatalf("superadmin read must pass: %v", err)
	}
}

func TestClientAgencyMismatchRejected(t *testing.T) {
	f := newFixture(t, false)

	// A superadmin names agency B while the client belongs to agency A.
	agencyB := f.agencyB
	_, err := f.svc.Create(context.Background(), f.root, CreateInput{
		AgencyID:    &agencyB,
		ClientID:    f.clientA,
		Destination: "Rome",
		StartDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		Party:       domain.Party{Adults: 1},
	})
	if !apperr.Is(err, apperr.KindReferential) {
		t.Fatalf("expected referential mismatch, got %v", err)
	}
}

func TestForeignCatalogServiceRejected(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	_, err := f.svc.AddItem(context.Background(), f.staffA, q.ID, ItemInput{
		Ref:        domain.ServiceRef{Type: domain.ServiceHotel, ID: f.hotelB},
		PriceCents: 100,
	})
	if !apperr.Is(err, apperr.KindReferential) {
		t.Fatalf("expected referential mismatch for foreign catalog service, got %v", err)
	}
}

func TestEmptySendRejected(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	_, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusSent)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("sending an empty quotation must fail validation, got %v", err)
	}

	got, _ := f.store.Get(context.Background(), q.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("failed transition must leave status unchanged, got %s", got.Status)
	}
}

func TestLifecycleHappyPathAndTerminalFreeze(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	item := f.addItem(t, q.ID, 10000)

	if _, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusSent); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Items stay editable while SENT.
	f.addItem(t, q.ID, 500)

	if _, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusWon); err != nil {
		t.Fatalf("win: %v", err)
	}

	before, _ := f.store.Get(context.Background(), q.ID)
	itemsBefore, _ := f.store.ListItems(context.Background(), q.ID)

	_, err := f.svc.AddItem(context.Background(), f.staffA, q.ID, ItemInput{
		Ref:        domain.ServiceRef{Type: domain.ServiceHotel, ID: f.hotelA},
		PriceCents: 999,
	})
	if !apperr.Is(err, apperr.KindImmutable) {
		t.Fatalf("item add on WON must be immutable violation, got %v", err)
	}
	if err := f.svc.RemoveItem(context.Background(), f.staffA, q.ID, item.ID); !apperr.Is(err, apperr.KindImmutable) {
		t.Fatalf("item removal on WON must be immutable violation, got %v", err)
	}
	if _, err := f.svc.AddDay(context.Background(), f.staffA, q.ID, DayInput{DayNumber: 1, Headline: "Arrival"}); !apperr.Is(err, apperr.KindImmutable) {
		t.Fatalf("day add on WON must be immutable violation, got %v", err)
	}

	after, _ := f.store.Get(context.Background(), q.ID)
	itemsAfter, _ := f.store.ListItems(context.Background(), q.ID)
	if after != before || len(itemsAfter) != len(itemsBefore) {
		t.Fatal("rejected mutations must leave the aggregate unchanged")
	}
}

func TestTransitionReturnsCommittedRow(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	f.addItem(t, q.ID, 10000)

	before, _ := f.store.Get(context.Background(), q.ID)

	got, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusSent)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.Status != domain.StatusSent {
		t.Fatalf("returned status = %s, want SENT", got.Status)
	}
	if !got.UpdatedAt.After(before.UpdatedAt) {
		t.Fatal("returned quotation must carry the post-transition update timestamp")
	}

	stored, _ := f.store.Get(context.Background(), q.ID)
	if got != stored {
		t.Fatal("transition must return the row as committed")
	}
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	if _, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusWon); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("PENDING to WON must be invalid, got %v", err)
	}

	got, _ := f.store.Get(context.Background(), q.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status must stay PENDING, got %s", got.Status)
	}
}

func TestSendDetectsTotalDrift(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	f.addItem(t, q.ID, 10000)

	// Corrupt the cached total behind the engine's back.
	f.store.mu.Lock()
	corrupted := f.store.quotations[q.ID]
	corrupted.TotalCents = 1
	f.store.quotations[q.ID] = corrupted
	f.store.mu.Unlock()

	_, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusSent)
	if !apperr.Is(err, apperr.KindConsistency) {
		t.Fatalf("drifted total must surface as consistency violation, got %v", err)
	}
}

func TestDaysListedInAscendingOrder(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	if _, err := f.svc.AddDay(context.Background(), f.staffA, q.ID, DayInput{DayNumber: 2, Headline: "Temples"}); err != nil {
		t.Fatalf("add day 2: %v", err)
	}
	if _, err := f.svc.AddDay(context.Background(), f.staffA, q.ID, DayInput{DayNumber: 1, Headline: "Arrival"}); err != nil {
		t.Fatalf("add day 1: %v", err)
	}

	days, err := f.svc.ListDays(context.Background(), f.staffA, q.ID)
	if err != nil {
		t.Fatalf("list days: %v", err)
	}
	if len(days) != 2 || days[0].DayNumber != 1 || days[1].DayNumber != 2 {
		t.Fatalf("days must list ascending regardless of insertion order, got %+v", days)
	}
}

func TestDuplicateDayRejected(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	first, err := f.svc.AddDay(context.Background(), f.staffA, q.ID, DayInput{DayNumber: 3, Headline: "Beach"})
	if err != nil {
		t.Fatalf("add day: %v", err)
	}

	_, err = f.svc.AddDay(context.Background(), f.staffA, q.ID, DayInput{DayNumber: 3, Headline: "Volcano"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("duplicate day must be rejected, got %v", err)
	}

	days, _ := f.svc.ListDays(context.Background(), f.staffA, q.ID)
	if len(days) != 1 || days[0].Headline != first.Headline {
		t.Fatalf("first day must be unchanged after rejected duplicate, got %+v", days)
	}
}

func TestRemoveDayKeepsGapsUntilCompaction(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)

	var days []repository.Day
	for _, n := range []int{1, 2, 3} {
		d, err := f.svc.AddDay(context.Background(), f.staffA, q.ID, DayInput{DayNumber: n, Headline: "Day"})
		if err != nil {
			t.Fatalf("add day %d: %v", n, err)
		}
		days = append(days, d)
	}

	if err := f.svc.RemoveDay(context.Background(), f.staffA, q.ID, days[1].ID); err != nil {
		t.Fatalf("remove day: %v", err)
	}

	remaining, _ := f.svc.ListDays(context.Background(), f.staffA, q.ID)
	if len(remaining) != 2 || remaining[0].DayNumber != 1 || remaining[1].DayNumber != 3 {
		t.Fatalf("deletion must not renumber, got %+v", remaining)
	}

	compacted, err := f.svc.CompactDays(context.Background(), f.staffA, q.ID)
	if err != nil {
		t.Fatalf("compact days: %v", err)
	}
	if len(compacted) != 2 || compacted[0].DayNumber != 1 || compacted[1].DayNumber != 2 {
		t.Fatalf("compaction must renumber to 1..n, got %+v", compacted)
	}
}

func TestDaySpanPolicy(t *testing.T) {
	// The fixture trip runs 5 days.
	enforced := newFixture(t, true)
	q := enforced.createQuotation(t)

	if _, err := enforced.svc.AddDay(context.Background(), enforced.staffA, q.ID, DayInput{DayNumber: 9, Headline: "Extra"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("day beyond trip span must be rejected under policy, got %v", err)
	}
	if _, err := enforced.svc.AddDay(context.Background(), enforced.staffA, q.ID, DayInput{DayNumber: 5, Headline: "Departure"}); err != nil {
		t.Fatalf("last trip day must be accepted: %v", err)
	}

	relaxed := newFixture(t, false)
	q2 := relaxed.createQuotation(t)
	if _, err := relaxed.svc.AddDay(context.Background(), relaxed.staffA, q2.ID, DayInput{DayNumber: 9, Headline: "Extra"}); err != nil {
		t.Fatalf("day beyond span allowed when policy off: %v", err)
	}
}

func TestDeleteRejectedOnTerminal(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	f.addItem(t, q.ID, 100)

	if _, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusSent); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.svc.Transition(context.Background(), f.staffA, q.ID, domain.StatusLost); err != nil {
		t.Fatalf("lose: %v", err)
	}

	if err := f.svc.Delete(context.Background(), f.staffA, q.ID); !apperr.Is(err, apperr.KindImmutable) {
		t.Fatalf("deleting a closed quotation must fail, got %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	f.addItem(t, q.ID, 100)
	if _, err := f.svc.AddDay(context.Background(), f.staffA, q.ID, DayInput{DayNumber: 1, Headline: "Arrival"}); err != nil {
		t.Fatalf("add day: %v", err)
	}

	if err := f.svc.Delete(context.Background(), f.staffA, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.store.Get(context.Background(), q.ID); err == nil {
		t.Fatal("quotation must be gone after delete")
	}
	items, _ := f.store.ListItems(context.Background(), q.ID)
	days, _ := f.store.ListDays(context.Background(), q.ID)
	if len(items) != 0 || len(days) != 0 {
		t.Fatal("owned collections must cascade on delete")
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	f.addItem(t, q.ID, 4200)

	url, err := f.svc.CreateShareLink(context.Background(), f.staffA, q.ID)
	if err != nil {
		t.Fatalf("create share link: %v", err)
	}

	const prefix = "https://app.example.com/public/quotations/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		t.Fatalf("unexpected share url %q", url)
	}
	rawToken := url[len(prefix):]

	view, err := f.svc.GetPublic(context.Background(), rawToken)
	if err != nil {
		t.Fatalf("resolve share token: %v", err)
	}
	if view.Quotation.ID != q.ID || len(view.Items) != 1 {
		t.Fatalf("public view mismatch: %+v", view)
	}

	if _, err := f.svc.GetPublic(context.Background(), "bogus-token"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown token must be not found, got %v", err)
	}
}

func TestListHydratesItemCounts(t *testing.T) {
	f := newFixture(t, false)
	q := f.createQuotation(t)
	f.addItem(t, q.ID, 100)
	f.addItem(t, q.ID, 200)

	out, err := f.svc.List(context.Background(), f.staffA, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Items) != 1 {
		t.Fatalf("expected one quotation, got %d", len(out.Items))
	}
	if out.Items[0].ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", out.Items[0].ItemCount)
	}
}
