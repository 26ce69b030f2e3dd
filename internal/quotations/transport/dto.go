package transport

import (
	"encoding/json"
	"time"
)

type CreateQuotationRequest struct {
	ClientID    string  `json:"clientId" validate:"required,uuid"`
	AgencyID    *string `json:"agencyId" validate:"omitempty,uuid"`
	Destination string  `json:"destination" validate:"required,min=2,max=200"`
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	Adults      int     `json:"adults" validate:"required,min=1"`
	Children    int     `json:"children" validate:"min=0"`
	Infants     int     `json:"infants" validate:"min=0"`
}

type ListQuotationsRequest struct {
	AgencyID string `form:"agencyId" validate:"omitempty,uuid"`
	ClientID string `form:"clientId" validate:"omitempty,uuid"`
	Status   string `form:"status" validate:"omitempty,oneof=PENDING SENT WON LOST"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING SENT WON LOST"`
}

type AddItemRequest struct {
	ServiceType string  `json:"serviceType" validate:"required,oneof=HOTEL CAR MEAL ACTIVITY"`
	ServiceID   string  `json:"serviceId" validate:"required,uuid"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	PriceCents  int64   `json:"priceCents" validate:"min=0"`
	SortOrder   int     `json:"sortOrder" validate:"min=0"`
}

type UpdateItemRequest struct {
	Description *string `json:"description" validate:"omitempty,max=1000"`
	PriceCents  *int64  `json:"priceCents" validate:"omitempty,min=0"`
}

type AddDayRequest struct {
	DayNumber       int             `json:"dayNumber" validate:"required,min=1"`
	Headline        string          `json:"headline" validate:"required,min=1,max=300"`
	Description     *string         `json:"description" validate:"omitempty,max=8000"`
	DurationMinutes *int            `json:"durationMinutes" validate:"omitempty,min=0"`
	Notes           *string         `json:"notes" validate:"omitempty,max=4000"`
	Images          json.RawMessage `json:"images"`
}

type UpdateDayRequest struct {
	DayNumber       *int            `json:"dayNumber" validate:"omitempty,min=1"`
	Headline        *string         `json:"headline" validate:"omitempty,min=1,max=300"`
	Description     *string         `json:"description" validate:"omitempty,max=8000"`
	DurationMinutes *int            `json:"durationMinutes" validate:"omitempty,min=0"`
	Notes           *string         `json:"notes" validate:"omitempty,max=4000"`
	Images          json.RawMessage `json:"images"`
}

type QuotationResponse struct {
	ID          string    `json:"id"`
	AgencyID    string    `json:"agencyId"`
	ClientID    string    `json:"clientId"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	Infants     int       `json:"infants"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"totalCents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// QuotationSummaryResponse is a listing row.
type QuotationSummaryResponse struct {
	QuotationResponse
	ItemCount int `json:"itemCount"`
}

type ListQuotationsResponse struct {
	Items      []QuotationSummaryResponse `json:"items"`
	Total      int                        `json:"total"`
	Page       int                        `json:"page"`
	PageSize   int                        `json:"pageSize"`
	TotalPages int                        `json:"totalPages"`
}

type ItemResponse struct {
	ID          string    `json:"id"`
	ServiceType string    `json:"serviceType"`
	ServiceID   string    `json:"serviceId"`
	Description *string   `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DayResponse struct {
	ID              string          `json:"id"`
	DayNumber       int             `json:"dayNumber"`
	Headline        string          `json:"headline"`
	Description     *string         `json:"description"`
	DurationMinutes *int            `json:"durationMinutes"`
	Notes           *string         `json:"notes"`
	Images          json.RawMessage `json:"images"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type ShareLinkResponse struct {
	URL string `json:"url"`
}

// PublicQuotationResponse is the read-only view served on share links.
// It omits agency and client identifiers.
type PublicQuotationResponse struct {
	Destination string         `json:"destination"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Adults      int            `json:"adults"`
	Children    int            `json:"children"`
	Infants     int            `json:"infants"`
	Status      string         `json:"status"`
	TotalCents  int64          `json:"totalCents"`
	Items       []ItemResponse `json:"items"`
	Days        []DayResponse  `json:"days"`
}
