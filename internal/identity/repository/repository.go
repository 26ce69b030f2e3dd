package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Agency struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           *string
	LogoFileKey     *string
	LogoFileName    *string
	LogoContentType *string
	LogoSizeBytes   *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AgencyUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// AgencySettings holds the agency preference document. The payload is an
// opaque JSON blob owned by the client application.
type AgencySettings struct {
	AgencyID  uuid.UUID
	Settings  json.RawMessage
	UpdatedAt time.Time
}

type User struct {
	ID           uuid.UUID
	AgencyID     *uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserUpdate struct {
	Name   *string
	Role   *string
	Active *bool
}

const agencyColumns = `id, name, email, phone, logo_file_key, logo_file_name, logo_content_type, logo_size_bytes, created_at, updated_at`

func scanAgency(row pgx.Row) (Agency, error) {
	var a Agency
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.LogoFileKey,
		&a.LogoFileName,
		&a.LogoContentType,
		&a.LogoSizeBytes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *Repository) CreateAgency(ctx context.Context, name, email string, phone *string) (Agency, error) {
	return scanAgency(r.pool.QueryRow(ctx, `
    INSERT INTO agencies (name, email, phone)
    VALUES ($1, $2, $3)
    RETURNING `+agencyColumns+`
  `, name, email, phone))
}

func (r *Repository) GetAgency(ctx context.Context, agencyID uuid.UUID) (Agency, error) {
	a, err := scanAgency(r.pool.QueryRow(ctx, `
    SELECT `+agencyColumns+`
    FROM agencies
    WHERE id = $1
  `, agencyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agency{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) ListAgencies(ctx context.Context) ([]Agency, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT `+agencyColumns+`
    FROM agencies
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agencies []Agency
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, err
		}
		agencies = append(agencies, a)
	}
	return agencies, rows.Err()
}

func (r *Repository) UpdateAgency(ctx context.Context, agencyID uuid.UUID, update AgencyUpdate) (Agency, error) {
	a, err := scanAgency(r.pool.QueryRow(ctx, `
    UPDATE agencies
    SET name = COALESCE($2, name),
        email = COALESCE($3, email),
        phone = COALESCE($4, phone),
        updated_at = now()
    WHERE id = $1
    RETURNING `+agencyColumns+`
  `, agencyID, update.Name, update.Email, update.Phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agency{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) SetAgencyLogo(ctx context.Context, agencyID uuid.UUID, fileKey, fileName, contentType string, sizeBytes int64) (Agency, error) {
	a, err := scanAgency(r.pool.QueryRow(ctx, `
    UPDATE agencies
    SET logo_file_key = $2,
        logo_file_name = $3,
        logo_content_type = $4,
        logo_size_bytes = $5,
        updated_at = now()
    WHERE id = $1
    RETURNING `+agencyColumns+`
  `, agencyID, fileKey, fileName, contentType, sizeBytes))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agency{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) ClearAgencyLogo(ctx context.Context, agencyID uuid.UUID) (Agency, error) {
	a, err := scanAgency(r.pool.QueryRow(ctx, `
    UPDATE agencies
    SET logo_file_key = NULL,
        logo_file_name = NULL,
        logo_content_type = NULL,
        logo_size_bytes = NULL,
        updated_at = now()
    WHERE id = $1
    RETURNING `+agencyColumns+`
  `, agencyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agency{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) GetAgencySettings(ctx context.Context, agencyID uuid.UUID) (AgencySettings, error) {
	var s AgencySettings
	err := r.pool.QueryRow(ctx, `
    SELECT agency_id, settings, updated_at
    FROM agency_settings
    WHERE agency_id = $1
  `, agencyID).Scan(&s.AgencyID, &s.Settings, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AgencySettings{AgencyID: agencyID, Settings: json.RawMessage(`{}`)}, nil
	}
	return s, err
}

func (r *Repository) UpsertAgencySettings(ctx context.Context, agencyID uuid.UUID, settings json.RawMessage) (AgencySettings, error) {
	var s AgencySettings
	err := r.pool.QueryRow(ctx, `
    INSERT INTO agency_settings (agency_id, settings)
    VALUES ($1, $2)
    ON CONFLICT (agency_id) DO UPDATE
    SET settings = EXCLUDED.settings, updated_at = now()
    RETURNING agency_id, settings, updated_at
  `, agencyID, settings).Scan(&s.AgencyID, &s.Settings, &s.UpdatedAt)
	return s, err
}

const userColumns = `id, agency_id, email, name, password_hash, role, active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.AgencyID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *Repository) CreateUser(ctx context.Context, agencyID uuid.UUID, email, name, passwordHash, role string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
    INSERT INTO users (agency_id, email, name, password_hash, role)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+userColumns+`
  `, agencyID, email, name, passwordHash, role))
}

func (r *Repository) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1
  `, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) ListUsersByAgency(ctx context.Context, agencyID uuid.UUID) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE agency_id = $1
    ORDER BY name
  `, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) UpdateUser(ctx context.Context, userID uuid.UUID, update UserUpdate) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
    UPDATE users
    SET name = COALESCE($2, name),
        role = COALESCE($3, role),
        active = COALESCE($4, active),
        updated_at = now()
    WHERE id = $1
    RETURNING `+userColumns+`
  `, userID, update.Name, update.Role, update.Active))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
