package repository

import (
	"context"
	"encoding/json"
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

// Service is a bookable catalog record. Attributes is an opaque JSON
// document whose shape depends on the service type (room class for
// hotels, vehicle class for cars, and so on). The engine never reads
// into it.
type Service struct {
	ID         uuid.UUID
	AgencyID   uuid.UUID
	Type       string
	Name       string
	City       *string
	PriceCents int64
	Attributes json.RawMessage
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ServiceUpdate struct {
	Name       *string
	City       *string
	PriceCents *int64
	Attributes json.RawMessage
	Active     *bool
}

type Photo struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	FileKey     string
	FileName    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

const serviceColumns = `id, agency_id, type, name, city, price_cents, attributes, active, created_at, updated_at`

func scanService(row pgx.Row) (Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.AgencyID, &s.Type, &s.Name, &s.City, &s.PriceCents, &s.Attributes, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *Repository) Create(ctx context.Context, agencyID uuid.UUID, serviceType, name string, city *string, priceCents int64, attributes json.RawMessage) (Service, error) {
	return scanService(r.pool.QueryRow(ctx, `
    INSERT INTO catalog_services (agency_id, type, name, city, price_cents, attributes)
    VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'::jsonb))
    RETURNING `+serviceColumns+`
  `, agencyID, serviceType, name, city, priceCents, attributes))
}

func (r *Repository) Get(ctx context.Context, serviceID uuid.UUID) (Service, error) {
	s, err := scanService(r.pool.QueryRow(ctx, `
    SELECT `+serviceColumns+`
    FROM catalog_services
    WHERE id = $1
  `, serviceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, ErrNotFound
	}
	return s, err
}

const listByAgencyQuery = `
  SELECT ` + serviceColumns + `
  FROM catalog_services
  WHERE agency_id = $1 AND ($2::text IS NULL OR type = $2)
  ORDER BY type, name
`

func (r *Repository) ListByAgency(ctx context.Context, agencyID uuid.UUID, serviceType *string) ([]Service, error) {
	rows, err := r.pool.Query(ctx, listByAgencyQuery, agencyID, serviceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *Repository) Update(ctx context.Context, serviceID uuid.UUID, update ServiceUpdate) (Service, error) {
	s, err := scanService(r.pool.QueryRow(ctx, `
    UPDATE catalog_services
    SET name = COALESCE($2, name),
        city = COALESCE($3, city),
        price_cents = COALESCE($4, price_cents),
        attributes = COALESCE($5, attributes),
        active = COALESCE($6, active),
        updated_at = now()
    WHERE id = $1
    RETURNING `+serviceColumns+`
  `, serviceID, update.Name, update.City, update.PriceCents, update.Attributes, update.Active))
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, ErrNotFound
	}
	return s, err
}

func (r *Repository) AddPhoto(ctx context.Context, serviceID uuid.UUID, fileKey, fileName, contentType string, sizeBytes int64) (Photo, error) {
	var p Photo
	err := r.pool.QueryRow(ctx, `
    INSERT INTO catalog_photos (service_id, file_key, file_name, content_type, size_bytes)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, service_id, file_key, file_name, content_type, size_bytes, created_at
  `, serviceID, fileKey, fileName, contentType, sizeBytes).Scan(
		&p.ID, &p.ServiceID, &p.FileKey, &p.FileName, &p.ContentType, &p.SizeBytes, &p.CreatedAt,
	)
	return p, err
}

func (r *Repository) ListPhotos(ctx context.Context, serviceID uuid.UUID) ([]Photo, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT id, service_id, file_key, file_name, content_type, size_bytes, created_at
    FROM catalog_photos
    WHERE service_id = $1
    ORDER BY created_at
  `, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.ServiceID, &p.FileKey, &p.FileName, &p.ContentType, &p.SizeBytes, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *Repository) GetPhoto(ctx context.Context, photoID uuid.UUID) (Photo, error) {
	var p Photo
	err := r.pool.QueryRow(ctx, `
    SELECT id, service_id, file_key, file_name, content_type, size_bytes, created_at
    FROM catalog_photos
    WHERE id = $1
  `, photoID).Scan(&p.ID, &p.ServiceID, &p.FileKey, &p.FileName, &p.ContentType, &p.SizeBytes, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Photo{}, ErrNotFound
	}
	return p, err
}

func (r *Repository) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM catalog_photos WHERE id = $1`, photoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
