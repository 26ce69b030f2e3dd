package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Client struct {
	ID        uuid.UUID
	AgencyID  uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ClientUpdate struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

const clientColumns = `id, agency_id, name, email, phone, notes, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.AgencyID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) Create(ctx context.Context, agencyID uuid.UUID, name string, email, phone, notes *string) (Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `
    INSERT INTO clients (agency_id, name, email, phone, notes)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+clientColumns+`
  `, agencyID, name, email, phone, notes))
}

func (r *Repository) Get(ctx context.Context, clientID uuid.UUID) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `
    SELECT `+clientColumns+`
    FROM clients
    WHERE id = $1
  `, clientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

const listByAgencyQuery = `
  SELECT ` + clientColumns + `
  FROM clients
  WHERE agency_id = $1
  ORDER BY name
`

func (r *Repository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]Client, error) {
	rows, err := r.pool.Query(ctx, listByAgencyQuery, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *Repository) Update(ctx context.Context, clientID uuid.UUID, update ClientUpdate) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `
    UPDATE clients
    SET name = COALESCE($2, name),
        email = COALESCE($3, email),
        phone = COALESCE($4, phone),
        notes = COALESCE($5, notes),
        updated_at = now()
    WHERE id = $1
    RETURNING `+clientColumns+`
  `, clientID, update.Name, update.Email, update.Phone, update.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Delete(ctx context.Context, clientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
