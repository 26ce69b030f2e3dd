package service

import (
	"context"
	"errors"
	"strings"

	"travelquote_backend/internal/clients/repository"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/apperr"
	"travelquote_backend/platform/phone"
	"travelquote_backend/platform/sanitize"

	"github.com/google/uuid"
)

const clientNotFound = "client not found"

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

type CreateClientInput struct {
	AgencyID *uuid.UUID
	Name     string
	Email    *string
	Phone    *string
	Notes    *string
}

func (s *Service) Create(ctx context.Context, actor tenant.Actor, input CreateClientInput) (repository.Client, error) {
	agencyID, err := tenant.ResolveAgency(actor, input.AgencyID)
	if err != nil {
		return repository.Client{}, err
	}

	name := sanitize.Text(strings.TrimSpace(input.Name))
	if name == "" {
		return repository.Client{}, apperr.Validation("client name is required")
	}

	return s.repo.Create(ctx, agencyID, name, normalizeEmail(input.Email), normalizePhone(input.Phone), sanitize.TextPtr(input.Notes))
}

// load fetches a client and verifies the actor may touch it.
func (s *Service) load(ctx context.Context, actor tenant.Actor, clientID uuid.UUID) (repository.Client, error) {
	client, err := s.repo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Client{}, apperr.NotFound(clientNotFound)
		}
		return repository.Client{}, err
	}
	if err := tenant.Authorize(actor, client.AgencyID); err != nil {
		return repository.Client{}, err
	}
	return client, nil
}

func (s *Service) Get(ctx context.Context, actor tenant.Actor, clientID uuid.UUID) (repository.Client, error) {
	return s.load(ctx, actor, clientID)
}

func (s *Service) List(ctx context.Context, actor tenant.Actor, targetAgency *uuid.UUID) ([]repository.Client, error) {
	agencyID, err := tenant.ResolveAgency(actor, targetAgency)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByAgency(ctx, agencyID)
}

func (s *Service) Update(ctx context.Context, actor tenant.Actor, clientID uuid.UUID, update repository.ClientUpdate) (repository.Client, error) {
	if _, err := s.load(ctx, actor, clientID); err != nil {
		return repository.Client{}, err
	}

	update.Name = sanitize.TextPtr(update.Name)
	update.Email = normalizeEmail(update.Email)
	update.Phone = normalizePhone(update.Phone)
	update.Notes = sanitize.TextPtr(update.Notes)

	client, err := s.repo.Update(ctx, clientID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Client{}, apperr.NotFound(clientNotFound)
	}
	return client, err
}

func (s *Service) Delete(ctx context.Context, actor tenant.Actor, clientID uuid.UUID) error {
	if _, err := s.load(ctx, actor, clientID); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(clientNotFound)
	}
	return err
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	return &normalized
}

func normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw)
	return &normalized
}
