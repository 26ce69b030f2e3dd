package repository

import (
	"context"
	"errors"
	"fmt"

	"travelquote_backend/internal/quotations/domain"
	"travelquote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const quotationColumns = `id, agency_id, client_id, destination, start_date, end_date,
    adults, children, infants, status, total_cents, share_token_hash, created_at, updated_at`

func scanQuotation(row pgx.Row) (Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID, &q.AgencyID, &q.ClientID, &q.Destination, &q.StartDate, &q.EndDate,
		&q.Adults, &q.Children, &q.Infants, &q.Status, &q.TotalCents, &q.ShareTokenHash,
		&q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}

func (r *Repository) Create(ctx context.Context, q Quotation) (Quotation, error) {
	return scanQuotation(r.pool.QueryRow(ctx, `
    INSERT INTO quotations (agency_id, client_id, destination, start_date, end_date, adults, children, infants, status, total_cents)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
    RETURNING `+quotationColumns+`
  `, q.AgencyID, q.ClientID, q.Destination, q.StartDate, q.EndDate, q.Adults, q.Children, q.Infants, q.Status))
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx, `
    SELECT `+quotationColumns+`
    FROM quotations
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quotation{}, ErrNotFound
	}
	return q, err
}

const listQuery = `
  SELECT ` + quotationColumns + `
  FROM quotations
  WHERE agency_id = $1
    AND ($2::uuid IS NULL OR client_id = $2)
    AND ($3::text IS NULL OR status = $3)
  ORDER BY created_at DESC
  LIMIT $4 OFFSET $5
`

const listCountQuery = `
  SELECT count(*)
  FROM quotations
  WHERE agency_id = $1
    AND ($2::uuid IS NULL OR client_id = $2)
    AND ($3::text IS NULL OR status = $3)
`

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var status *string
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}

	var total int
	if err := r.pool.QueryRow(ctx, listCountQuery, params.AgencyID, params.ClientID, status).Scan(&total); err != nil {
		return ListResult{}, err
	}

	rows, err := r.pool.Query(ctx, listQuery, params.AgencyID, params.ClientID, status, pageSize, offset)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	var items []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}

const itemColumns = `id, quotation_id, service_type, service_id, description, price_cents, sort_order, created_at`

func scanItem(row pgx.Row) (Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.QuotationID, &i.ServiceType, &i.ServiceID, &i.Description, &i.PriceCents, &i.SortOrder, &i.CreatedAt)
	return i, err
}

const listItemsQuery = `
  SELECT ` + itemColumns + `
  FROM quotation_items
  WHERE quotation_id = $1
  ORDER BY sort_order, created_at
`

func (r *Repository) ListItems(ctx context.Context, quotationID uuid.UUID) ([]Item, error) {
	return queryItems(ctx, r.pool, quotationID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

func queryItems(ctx context.Context, q querier, quotationID uuid.UUID) ([]Item, error) {
	rows, err := q.Query(ctx, listItemsQuery, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const dayColumns = `id, quotation_id, day_number, headline, description, duration_minutes, notes, images, created_at, updated_at`

func scanDay(row pgx.Row) (Day, error) {
	var d Day
	err := row.Scan(&d.ID, &d.QuotationID, &d.DayNumber, &d.Headline, &d.Description, &d.DurationMinutes, &d.Notes, &d.Images, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

const renumberOffsetQuery = `
  SELECT COALESCE(max(day_number), 0)
  FROM itinerary_days
  WHERE quotation_id = $1
`

// Days list ascending by day number; read-time ordering is the
// contract, insertion order carries no meaning.
const listDaysQuery = `
  SELECT ` + dayColumns + `
  FROM itinerary_days
  WHERE quotation_id = $1
  ORDER BY day_number
`

func (r *Repository) ListDays(ctx context.Context, quotationID uuid.UUID) ([]Day, error) {
	return queryDays(ctx, r.pool, quotationID)
}

func queryDays(ctx context.Context, q querier, quotationID uuid.UUID) ([]Day, error) {
	rows, err := q.Query(ctx, listDaysQuery, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []Day
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// Mutate runs fn against a single transaction holding a row lock on the
// quotation. Fn sees a snapshot that stays valid until commit; any
// error rolls the whole mutation back.
func (r *Repository) Mutate(ctx context.Context, quotationID uuid.UUID, fn func(ctx context.Context, mtx MutationTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	locked, err := scanQuotation(tx.QueryRow(ctx, `
    SELECT `+quotationColumns+`
    FROM quotations
    WHERE id = $1
    FOR UPDATE
  `, quotationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := fn(ctx, &mutationTx{tx: tx, quotation: locked}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type mutationTx struct {
	tx        pgx.Tx
	quotation Quotation
}

func (m *mutationTx) Quotation() Quotation {
	return m.quotation
}

func (m *mutationTx) Items(ctx context.Context) ([]Item, error) {
	return queryItems(ctx, m.tx, m.quotation.ID)
}

func (m *mutationTx) InsertItem(ctx context.Context, item Item) (Item, error) {
	return scanItem(m.tx.QueryRow(ctx, `
    INSERT INTO quotation_items (quotation_id, service_type, service_id, description, price_cents, sort_order)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING `+itemColumns+`
  `, m.quotation.ID, item.ServiceType, item.ServiceID, item.Description, item.PriceCents, item.SortOrder))
}

func (m *mutationTx) UpdateItem(ctx context.Context, itemID uuid.UUID, update ItemUpdate) (Item, error) {
	item, err := scanItem(m.tx.QueryRow(ctx, `
    UPDATE quotation_items
    SET description = COALESCE($3, description),
        price_cents = COALESCE($4, price_cents)
    WHERE id = $1 AND quotation_id = $2
    RETURNING `+itemColumns+`
  `, itemID, m.quotation.ID, update.Description, update.PriceCents))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return item, err
}

func (m *mutationTx) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	tag, err := m.tx.Exec(ctx, `
    DELETE FROM quotation_items
    WHERE id = $1 AND quotation_id = $2
  `, itemID, m.quotation.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mutationTx) Days(ctx context.Context) ([]Day, error) {
	return queryDays(ctx, m.tx, m.quotation.ID)
}

func (m *mutationTx) InsertDay(ctx context.Context, day Day) (Day, error) {
	inserted, err := scanDay(m.tx.QueryRow(ctx, `
    INSERT INTO itinerary_days (quotation_id, day_number, headline, description, duration_minutes, notes, images)
    VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '[]'::jsonb))
    RETURNING `+dayColumns+`
  `, m.quotation.ID, day.DayNumber, day.Headline, day.Description, day.DurationMinutes, day.Notes, day.Images))
	if isUniqueViolation(err) {
		return Day{}, apperr.Validation(fmt.Sprintf("itinerary already has a day %d", day.DayNumber))
	}
	return inserted, err
}

func (m *mutationTx) UpdateDay(ctx context.Context, dayID uuid.UUID, update DayUpdate) (Day, error) {
	day, err := scanDay(m.tx.QueryRow(ctx, `
    UPDATE itinerary_days
    SET day_number = COALESCE($3, day_number),
        headline = COALESCE($4, headline),
        description = COALESCE($5, description),
        duration_minutes = COALESCE($6, duration_minutes),
        notes = COALESCE($7, notes),
        images = COALESCE($8, images),
        updated_at = now()
    WHERE id = $1 AND quotation_id = $2
    RETURNING `+dayColumns+`
  `, dayID, m.quotation.ID, update.DayNumber, update.Headline, update.Description, update.DurationMinutes, update.Notes, update.Images))
	if errors.Is(err, pgx.ErrNoRows) {
		return Day{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Day{}, apperr.Validation("itinerary already has a day with that number")
	}
	return day, err
}

func (m *mutationTx) DeleteDay(ctx context.Context, dayID uuid.UUID) error {
	tag, err := m.tx.Exec(ctx, `
    DELETE FROM itinerary_days
    WHERE id = $1 AND quotation_id = $2
  `, dayID, m.quotation.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RenumberDays shifts all day numbers above the current maximum first so the
// unique constraint never trips on intermediate states of the plan.
func (m *mutationTx) RenumberDays(ctx context.Context, plan map[int]int) error {
	var offset int
	if err := m.tx.QueryRow(ctx, renumberOffsetQuery, m.quotation.ID).Scan(&offset); err != nil {
		return err
	}

	if _, err := m.tx.Exec(ctx, `
    UPDATE itinerary_days
    SET day_number = day_number + $2
    WHERE quotation_id = $1
  `, m.quotation.ID, offset); err != nil {
		return err
	}

	for from, to := range plan {
		if _, err := m.tx.Exec(ctx, `
      UPDATE itinerary_days
      SET day_number = $3, updated_at = now()
      WHERE quotation_id = $1 AND day_number = $2
    `, m.quotation.ID, from+offset, to); err != nil {
			return err
		}
	}
	return nil
}

func (m *mutationTx) SetTotal(ctx context.Context, totalCents int64) error {
	_, err := m.tx.Exec(ctx, `
    UPDATE quotations
    SET total_cents = $2, updated_at = now()
    WHERE id = $1
  `, m.quotation.ID, totalCents)
	return err
}

func (m *mutationTx) SetStatus(ctx context.Context, status domain.Status) (Quotation, error) {
	return scanQuotation(m.tx.QueryRow(ctx, `
    UPDATE quotations
    SET status = $2, updated_at = now()
    WHERE id = $1
    RETURNING `+quotationColumns+`
  `, m.quotation.ID, status))
}

func (m *mutationTx) DeleteQuotation(ctx context.Context) error {
	// Items and itinerary days cascade via their foreign keys.
	_, err := m.tx.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, m.quotation.ID)
	return err
}

func (r *Repository) SetShareToken(ctx context.Context, quotationID uuid.UUID, tokenHash string) error {
	tag, err := r.pool.Exec(ctx, `
    UPDATE quotations
    SET share_token_hash = $2, updated_at = now()
    WHERE id = $1
  `, quotationID, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetByShareToken(ctx context.Context, tokenHash string) (Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx, `
    SELECT `+quotationColumns+`
    FROM quotations
    WHERE share_token_hash = $1
  `, tokenHash))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quotation{}, ErrNotFound
	}
	return q, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ Store = (*Repository)(nil)
