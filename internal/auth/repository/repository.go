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

// Credential is the slice of the user record the sign-in path needs.
type Credential struct {
	UserID       uuid.UUID
	AgencyID     *uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Active       bool
}

const getCredentialByEmailQuery = `
  SELECT id, agency_id, email, name, password_hash, role, active
  FROM users
  WHERE lower(email) = lower($1)
`

func (r *Repository) GetCredentialByEmail(ctx context.Context, email string) (Credential, error) {
	var c Credential
	err := r.pool.QueryRow(ctx, getCredentialByEmailQuery, email).Scan(
		&c.UserID,
		&c.AgencyID,
		&c.Email,
		&c.Name,
		&c.PasswordHash,
		&c.Role,
		&c.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, ErrNotFound
	}
	return c, err
}

const getCredentialByIDQuery = `
  SELECT id, agency_id, email, name, password_hash, role, active
  FROM users
  WHERE id = $1
`

func (r *Repository) GetCredentialByID(ctx context.Context, userID uuid.UUID) (Credential, error) {
	var c Credential
	err := r.pool.QueryRow(ctx, getCredentialByIDQuery, userID).Scan(
		&c.UserID,
		&c.AgencyID,
		&c.Email,
		&c.Name,
		&c.PasswordHash,
		&c.Role,
		&c.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
    INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
    VALUES ($1, $2, $3)
  `, userID, tokenHash, expiresAt)
	return err
}

func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
    SELECT user_id, expires_at
    FROM refresh_tokens
    WHERE token_hash = $1 AND revoked_at IS NULL
  `, tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.UUID{}, time.Time{}, ErrNotFound
	}
	return userID, expiresAt, err
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
    UPDATE refresh_tokens
    SET revoked_at = now()
    WHERE token_hash = $1 AND revoked_at IS NULL
  `, tokenHash)
	return err
}

func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
    UPDATE refresh_tokens
    SET revoked_at = now()
    WHERE user_id = $1 AND revoked_at IS NULL
  `, userID)
	return err
}
