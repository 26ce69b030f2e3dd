package service

import (
	"context"
	"errors"
	"time"

	"travelquote_backend/internal/auth/password"
	"travelquote_backend/internal/auth/repository"
	"travelquote_backend/internal/auth/token"
	"travelquote_backend/platform/apperr"
	"travelquote_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType   = "access"
	refreshTokenBytes = 48

	msgInvalidCredentials = "invalid credentials"
	msgAccountDisabled    = "account disabled"
	msgTokenInvalid       = "refresh token invalid"
	msgTokenExpired       = "refresh token expired"
)

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, string, error) {
	cred, err := s.repo.GetCredentialByEmail(ctx, email)
	if err != nil {
		return "", "", apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := password.Compare(cred.PasswordHash, plainPassword); err != nil {
		return "", "", apperr.Unauthorized(msgInvalidCredentials)
	}

	if !cred.Active {
		return "", "", apperr.Forbidden(msgAccountDisabled)
	}

	return s.issueTokens(ctx, cred)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return "", "", apperr.Unauthorized(msgTokenExpired)
	}

	cred, err := s.repo.GetCredentialByID(ctx, userID)
	if err != nil {
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}
	if !cred.Active {
		_ = s.repo.RevokeAllRefreshTokens(ctx, userID)
		return "", "", apperr.Forbidden(msgAccountDisabled)
	}

	// Rotation: the presented token is burned before new ones are issued.
	_ = s.repo.RevokeRefreshToken(ctx, hash)
	return s.issueTokens(ctx, cred)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.Credential, error) {
	cred, err := s.repo.GetCredentialByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Credential{}, apperr.NotFound("user not found")
		}
		return repository.Credential{}, err
	}
	return cred, nil
}

func (s *Service) issueTokens(ctx context.Context, cred repository.Credential) (string, string, error) {
	accessToken, err := s.signAccessToken(cred)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenBytes)
	if err != nil {
		return "", "", err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, cred.UserID, hash, expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signAccessToken(cred repository.Credential) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  cred.UserID.String(),
		"type": accessTokenType,
		"role": cred.Role,
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}
	// Superadmins carry no agency claim; scope checks treat them globally.
	if cred.AgencyID != nil {
		claims["agency_id"] = cred.AgencyID.String()
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
