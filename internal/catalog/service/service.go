package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"travelquote_backend/internal/adapters/storage"
	"travelquote_backend/internal/catalog/repository"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/apperr"
	"travelquote_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	serviceNotFound = "catalog service not found"
	photoNotFound   = "photo not found"
)

type Service struct {
	repo        *repository.Repository
	storage     storage.ObjectStore
	photoBucket string
}

func New(repo *repository.Repository, store storage.ObjectStore, photoBucket string) *Service {
	return &Service{repo: repo, storage: store, photoBucket: photoBucket}
}

type CreateServiceInput struct {
	AgencyID   *uuid.UUID
	Type       string
	Name       string
	City       *string
	PriceCents int64
	Attributes json.RawMessage
}

func (s *Service) Create(ctx context.Context, actor tenant.Actor, input CreateServiceInput) (repository.Service, error) {
	agencyID, err := tenant.ResolveAgency(actor, input.AgencyID)
	if err != nil {
		return repository.Service{}, err
	}
	if err := tenant.RequirePriceEdit(actor); err != nil {
		return repository.Service{}, err
	}
	if input.PriceCents < 0 {
		return repository.Service{}, apperr.Validation("price must not be negative")
	}
	if len(input.Attributes) > 0 && !json.Valid(input.Attributes) {
		return repository.Service{}, apperr.Validation("attributes must be a valid JSON document")
	}

	name := sanitize.Text(strings.TrimSpace(input.Name))
	if name == "" {
		return repository.Service{}, apperr.Validation("service name is required")
	}

	return s.repo.Create(ctx, agencyID, input.Type, name, sanitize.TextPtr(input.City), input.PriceCents, input.Attributes)
}

func (s *Service) load(ctx context.Context, actor tenant.Actor, serviceID uuid.UUID) (repository.Service, error) {
	record, err := s.repo.Get(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Service{}, apperr.NotFound(serviceNotFound)
		}
		return repository.Service{}, err
	}
	if err := tenant.Authorize(actor, record.AgencyID); err != nil {
		return repository.Service{}, err
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, actor tenant.Actor, serviceID uuid.UUID) (repository.Service, error) {
	return s.load(ctx, actor, serviceID)
}

func (s *Service) List(ctx context.Context, actor tenant.Actor, targetAgency *uuid.UUID, serviceType *string) ([]repository.Service, error) {
	agencyID, err := tenant.ResolveAgency(actor, targetAgency)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByAgency(ctx, agencyID, serviceType)
}

func (s *Service) Update(ctx context.Context, actor tenant.Actor, serviceID uuid.UUID, update repository.ServiceUpdate) (repository.Service, error) {
	if _, err := s.load(ctx, actor, serviceID); err != nil {
		return repository.Service{}, err
	}

	// Price changes are an admin capability; other edits any staffer may make.
	if update.PriceCents != nil {
		if err := tenant.RequirePriceEdit(actor); err != nil {
			return repository.Service{}, err
		}
		if *update.PriceCents < 0 {
			return repository.Service{}, apperr.Validation("price must not be negative")
		}
	}
	if len(update.Attributes) > 0 && !json.Valid(update.Attributes) {
		return repository.Service{}, apperr.Validation("attributes must be a valid JSON document")
	}

	update.Name = sanitize.TextPtr(update.Name)
	update.City = sanitize.TextPtr(update.City)

	record, err := s.repo.Update(ctx, serviceID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Service{}, apperr.NotFound(serviceNotFound)
	}
	return record, err
}

func (s *Service) PresignPhotoUpload(ctx context.Context, actor tenant.Actor, serviceID uuid.UUID, fileName, contentType string, sizeBytes int64) (*storage.PresignedURL, error) {
	record, err := s.load(ctx, actor, serviceID)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, apperr.Internal("object storage not configured")
	}

	folder := record.AgencyID.String() + "/" + serviceID.String()
	return s.storage.PresignUpload(ctx, s.photoBucket, folder, fileName, contentType, sizeBytes)
}

func (s *Service) AddPhoto(ctx context.Context, actor tenant.Actor, serviceID uuid.UUID, fileKey, fileName, contentType string, sizeBytes int64) (repository.Photo, error) {
	if _, err := s.load(ctx, actor, serviceID); err != nil {
		return repository.Photo{}, err
	}
	return s.repo.AddPhoto(ctx, serviceID, fileKey, fileName, contentType, sizeBytes)
}

func (s *Service) ListPhotos(ctx context.Context, actor tenant.Actor, serviceID uuid.UUID) ([]repository.Photo, error) {
	if _, err := s.load(ctx, actor, serviceID); err != nil {
		return nil, err
	}
	return s.repo.ListPhotos(ctx, serviceID)
}

func (s *Service) PresignPhotoDownload(ctx context.Context, actor tenant.Actor, serviceID, photoID uuid.UUID) (*storage.PresignedURL, error) {
	if _, err := s.load(ctx, actor, serviceID); err != nil {
		return nil, err
	}

	photo, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(photoNotFound)
		}
		return nil, err
	}
	if photo.ServiceID != serviceID {
		return nil, apperr.NotFound(photoNotFound)
	}
	if s.storage == nil {
		return nil, apperr.Internal("object storage not configured")
	}

	return s.storage.PresignDownload(ctx, s.photoBucket, photo.FileKey)
}

func (s *Service) DeletePhoto(ctx context.Context, actor tenant.Actor, serviceID, photoID uuid.UUID) error {
	if _, err := s.load(ctx, actor, serviceID); err != nil {
		return err
	}

	photo, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(photoNotFound)
		}
		return err
	}
	if photo.ServiceID != serviceID {
		return apperr.NotFound(photoNotFound)
	}

	if s.storage != nil {
		_ = s.storage.DeleteObject(ctx, s.photoBucket, photo.FileKey)
	}
	return s.repo.DeletePhoto(ctx, photoID)
}
