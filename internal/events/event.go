// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"travelquote_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Identity Domain Events
// =============================================================================

// AgencyCreated is published when a new agency (tenant) is provisioned.
type AgencyCreated struct {
	BaseEvent
	AgencyID  uuid.UUID `json:"agencyId"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"createdBy"`
}

func (e AgencyCreated) EventName() string { return "identity.agency.created" }

// =============================================================================
// Quotation Domain Events
// =============================================================================

// QuotationCreated is published when a new quotation is created.
type QuotationCreated struct {
	BaseEvent
	QuotationID uuid.UUID `json:"quotationId"`
	AgencyID    uuid.UUID `json:"agencyId"`
	ClientID    uuid.UUID `json:"clientId"`
	Destination string    `json:"destination"`
	CreatedBy   uuid.UUID `json:"createdBy"`
}

func (e QuotationCreated) EventName() string { return "quotations.created" }

// QuotationStatusChanged is published after a committed status transition.
type QuotationStatusChanged struct {
	BaseEvent
	QuotationID uuid.UUID `json:"quotationId"`
	AgencyID    uuid.UUID `json:"agencyId"`
	ClientID    uuid.UUID `json:"clientId"`
	Destination string    `json:"destination"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	TotalCents  int64     `json:"totalCents"`
	ChangedBy   uuid.UUID `json:"changedBy"`
}

func (e QuotationStatusChanged) EventName() string { return "quotations.status.changed" }
