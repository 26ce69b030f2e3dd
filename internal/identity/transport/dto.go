package transport

import (
	"encoding/json"
	"time"
)

type CreateAgencyRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=200"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type UpdateAgencyRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

type AgencyResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone"`
	LogoFileKey     *string   `json:"logoFileKey"`
	LogoFileName    *string   `json:"logoFileName"`
	LogoContentType *string   `json:"logoContentType"`
	LogoSizeBytes   *int64    `json:"logoSizeBytes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AgencySettingsResponse carries the settings document as-is. The engine
// stores it opaquely and never interprets individual keys.
type AgencySettingsResponse struct {
	AgencyID  string          `json:"agencyId"`
	Settings  json.RawMessage `json:"settings"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type UpdateAgencySettingsRequest struct {
	Settings json.RawMessage `json:"settings" validate:"required"`
}

type PresignLogoRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=128"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0,lte=5242880"`
}

type PresignLogoResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	ExpiresAt string `json:"expiresAt"`
}

type SetLogoRequest struct {
	FileKey     string `json:"fileKey" validate:"required,max=512"`
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=128"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type LogoDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   string `json:"expiresAt"`
}

type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,min=2,max=200"`
	Password string  `json:"password" validate:"required,min=12,max=128"`
	Role     string  `json:"role" validate:"required,oneof=AGENCYADMIN EXECUTIVE"`
	AgencyID *string `json:"agencyId" validate:"omitempty,uuid"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=200"`
	Role   *string `json:"role" validate:"omitempty,oneof=AGENCYADMIN EXECUTIVE"`
	Active *bool   `json:"active"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	AgencyID  *string   `json:"agencyId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
