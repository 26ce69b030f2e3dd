package domain

import (
	"travelquote_backend/platform/apperr"

	"github.com/google/uuid"
)

type ServiceType string

const (
	ServiceHotel    ServiceType = "HOTEL"
	ServiceCar      ServiceType = "CAR"
	ServiceMeal     ServiceType = "MEAL"
	ServiceActivity ServiceType = "ACTIVITY"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceHotel, ServiceCar, ServiceMeal, ServiceActivity:
		return true
	}
	return false
}

// ServiceRef is the tagged reference from a quotation item to a catalog
// record. The concrete record is resolved by an explicit lookup keyed on
// Type; there is no polymorphic foreign key.
type ServiceRef struct {
	Type ServiceType
	ID   uuid.UUID
}

func (r ServiceRef) Validate() error {
	if !r.Type.Valid() {
		return apperr.Validation("unknown service type " + string(r.Type))
	}
	if r.ID == uuid.Nil {
		return apperr.Validation("service id is required")
	}
	return nil
}
