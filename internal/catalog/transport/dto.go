package transport

import (
	"encoding/json"
	"time"
)

type CreateServiceRequest struct {
	Type       string          `json:"type" validate:"required,oneof=HOTEL CAR MEAL ACTIVITY"`
	Name       string          `json:"name" validate:"required,min=2,max=200"`
	City       *string         `json:"city" validate:"omitempty,max=120"`
	PriceCents int64           `json:"priceCents" validate:"gte=0"`
	Attributes json.RawMessage `json:"attributes"`
	AgencyID   *string         `json:"agencyId" validate:"omitempty,uuid"`
}

type UpdateServiceRequest struct {
	Name       *string         `json:"name" validate:"omitempty,min=2,max=200"`
	City       *string         `json:"city" validate:"omitempty,max=120"`
	PriceCents *int64          `json:"priceCents" validate:"omitempty,gte=0"`
	Attributes json.RawMessage `json:"attributes"`
	Active     *bool           `json:"active"`
}

type ServiceResponse struct {
	ID         string          `json:"id"`
	AgencyID   string          `json:"agencyId"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	City       *string         `json:"city"`
	PriceCents int64           `json:"priceCents"`
	Attributes json.RawMessage `json:"attributes"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type PresignPhotoRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=128"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0,lte=10485760"`
}

type PresignPhotoResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AddPhotoRequest struct {
	FileKey     string `json:"fileKey" validate:"required,max=512"`
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=128"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type PhotoResponse struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"serviceId"`
	FileKey     string    `json:"fileKey"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PhotoDownloadResponse struct {
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
