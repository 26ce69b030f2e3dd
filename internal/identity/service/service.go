package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"travelquote_backend/internal/adapters/storage"
	"travelquote_backend/internal/auth/password"
	"travelquote_backend/internal/events"
	"travelquote_backend/internal/identity/repository"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	agencyNotFound = "agency not found"
	userNotFound   = "user not found"
)

type Service struct {
	repo       *repository.Repository
	cache      *repository.SettingsCache
	eventBus   events.Bus
	storage    storage.ObjectStore
	logoBucket string
}

func New(repo *repository.Repository, cache *repository.SettingsCache, eventBus events.Bus, store storage.ObjectStore, logoBucket string) *Service {
	return &Service{repo: repo, cache: cache, eventBus: eventBus, storage: store, logoBucket: logoBucket}
}

// CreateAgency provisions a new tenant. Superadmin only.
func (s *Service) CreateAgency(ctx context.Context, actor tenant.Actor, name, email string, phone *string) (repository.Agency, error) {
	if actor.Role != tenant.RoleSuperadmin {
		return repository.Agency{}, apperr.Forbidden("only superadmins can create agencies")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return repository.Agency{}, apperr.Validation("agency name is required")
	}

	agency, err := s.repo.CreateAgency(ctx, trimmed, strings.ToLower(strings.TrimSpace(email)), phone)
	if err != nil {
		return repository.Agency{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AgencyCreated{
			BaseEvent: events.NewBaseEvent(),
			AgencyID:  agency.ID,
			Name:      agency.Name,
			CreatedBy: actor.UserID,
		})
	}

	return agency, nil
}

func (s *Service) GetAgency(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID) (repository.Agency, error) {
	agency, err := s.repo.GetAgency(ctx, agencyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Agency{}, apperr.NotFound(agencyNotFound)
		}
		return repository.Agency{}, err
	}
	if err := tenant.Authorize(actor, agency.ID); err != nil {
		return repository.Agency{}, err
	}
	return agency, nil
}

func (s *Service) ListAgencies(ctx context.Context, actor tenant.Actor) ([]repository.Agency, error) {
	if actor.Role != tenant.RoleSuperadmin {
		return nil, apperr.Forbidden("only superadmins can list agencies")
	}
	return s.repo.ListAgencies(ctx)
}

func (s *Service) UpdateAgency(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID, update repository.AgencyUpdate) (repository.Agency, error) {
	if _, err := s.GetAgency(ctx, actor, agencyID); err != nil {
		return repository.Agency{}, err
	}
	if actor.Role == tenant.RoleExecutive {
		return repository.Agency{}, apperr.Forbidden("executives cannot update agency details")
	}

	agency, err := s.repo.UpdateAgency(ctx, agencyID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Agency{}, apperr.NotFound(agencyNotFound)
	}
	return agency, err
}

// GetSettings serves the tenant preference document, cache first.
func (s *Service) GetSettings(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID) (repository.AgencySettings, error) {
	if err := tenant.Authorize(actor, agencyID); err != nil {
		return repository.AgencySettings{}, err
	}

	if cached, err := s.cache.Get(ctx, agencyID); err == nil {
		return repository.AgencySettings{AgencyID: agencyID, Settings: cached}, nil
	}

	settings, err := s.repo.GetAgencySettings(ctx, agencyID)
	if err != nil {
		return repository.AgencySettings{}, err
	}

	_ = s.cache.Set(ctx, agencyID, settings.Settings)
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID, doc json.RawMessage) (repository.AgencySettings, error) {
	if err := tenant.Authorize(actor, agencyID); err != nil {
		return repository.AgencySettings{}, err
	}
	if actor.Role == tenant.RoleExecutive {
		return repository.AgencySettings{}, apperr.Forbidden("executives cannot change agency settings")
	}
	if !json.Valid(doc) {
		return repository.AgencySettings{}, apperr.Validation("settings must be a valid JSON document")
	}

	settings, err := s.repo.UpsertAgencySettings(ctx, agencyID, doc)
	if err != nil {
		return repository.AgencySettings{}, err
	}

	_ = s.cache.Invalidate(ctx, agencyID)
	return settings, nil
}

func (s *Service) PresignLogoUpload(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID, fileName, contentType string, sizeBytes int64) (*storage.PresignedURL, error) {
	if err := tenant.Authorize(actor, agencyID); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, apperr.Internal("object storage not configured")
	}
	return s.storage.PresignUpload(ctx, s.logoBucket, agencyID.String(), fileName, contentType, sizeBytes)
}

func (s *Service) SetLogo(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID, fileKey, fileName, contentType string, sizeBytes int64) (repository.Agency, error) {
	if _, err := s.GetAgency(ctx, actor, agencyID); err != nil {
		return repository.Agency{}, err
	}

	agency, err := s.repo.SetAgencyLogo(ctx, agencyID, fileKey, fileName, contentType, sizeBytes)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Agency{}, apperr.NotFound(agencyNotFound)
	}
	return agency, err
}

func (s *Service) PresignLogoDownload(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID) (*storage.PresignedURL, error) {
	agency, err := s.GetAgency(ctx, actor, agencyID)
	if err != nil {
		return nil, err
	}
	if agency.LogoFileKey == nil {
		return nil, apperr.NotFound("agency has no logo")
	}
	if s.storage == nil {
		return nil, apperr.Internal("object storage not configured")
	}
	return s.storage.PresignDownload(ctx, s.logoBucket, *agency.LogoFileKey)
}

func (s *Service) DeleteLogo(ctx context.Context, actor tenant.Actor, agencyID uuid.UUID) error {
	agency, err := s.GetAgency(ctx, actor, agencyID)
	if err != nil {
		return err
	}
	if agency.LogoFileKey == nil {
		return nil
	}

	if s.storage != nil {
		_ = s.storage.DeleteObject(ctx, s.logoBucket, *agency.LogoFileKey)
	}
	_, err = s.repo.ClearAgencyLogo(ctx, agencyID)
	return err
}

func (s *Service) CreateUser(ctx context.Context, actor tenant.Actor, targetAgency *uuid.UUID, email, name, plainPassword, role string) (repository.User, error) {
	agencyID, err := tenant.ResolveAgency(actor, targetAgency)
	if err != nil {
		return repository.User{}, err
	}
	if actor.Role == tenant.RoleExecutive {
		return repository.User{}, apperr.Forbidden("executives cannot manage users")
	}
	if !tenant.Role(role).Valid() || tenant.Role(role) == tenant.RoleSuperadmin {
		return repository.User{}, apperr.Validation("invalid role")
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.User{}, err
	}

	return s.repo.CreateUser(ctx, agencyID, strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(name), hash, role)
}

func (s *Service) ListUsers(ctx context.Context, actor tenant.Actor, targetAgency *uuid.UUID) ([]repository.User, error) {
	agencyID, err := tenant.ResolveAgency(actor, targetAgency)
	if err != nil {
		return nil, err
	}
	return s.repo.ListUsersByAgency(ctx, agencyID)
}

func (s *Service) UpdateUser(ctx context.Context, actor tenant.Actor, userID uuid.UUID, update repository.UserUpdate) (repository.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound(userNotFound)
		}
		return repository.User{}, err
	}
	if user.AgencyID == nil {
		return repository.User{}, apperr.Forbidden("superadmin accounts are managed out of band")
	}
	if err := tenant.Authorize(actor, *user.AgencyID); err != nil {
		return repository.User{}, err
	}
	if actor.Role == tenant.RoleExecutive {
		return repository.User{}, apperr.Forbidden("executives cannot manage users")
	}
	if update.Role != nil && (!tenant.Role(*update.Role).Valid() || tenant.Role(*update.Role) == tenant.RoleSuperadmin) {
		return repository.User{}, apperr.Validation("invalid role")
	}

	updated, err := s.repo.UpdateUser(ctx, userID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.User{}, apperr.NotFound(userNotFound)
	}
	return updated, err
}
