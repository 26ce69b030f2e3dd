package transport

import "time"

type CreateClientRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Notes    *string `json:"notes" validate:"omitempty,max=4000"`
	AgencyID *string `json:"agencyId" validate:"omitempty,uuid"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
	Notes *string `json:"notes" validate:"omitempty,max=4000"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	AgencyID  string    `json:"agencyId"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
