// Package tenant implements the tenant scope guard: every operation in the
// system is authorized against the agency that owns the target record.
// Role capability checks are layered separately; the two compose, they do
// not merge.
package tenant

import (
	"travelquote_backend/platform/apperr"
	"travelquote_backend/platform/httpkit"

	"github.com/google/uuid"
)

// Role is a user's permission class.
type Role string

const (
	// RoleSuperadmin may act across all agencies.
	RoleSuperadmin Role = "SUPERADMIN"
	// RoleAgencyAdmin administers a single agency, including catalog prices.
	RoleAgencyAdmin Role = "AGENCYADMIN"
	// RoleExecutive is regular agency staff.
	RoleExecutive Role = "EXECUTIVE"
)

// Valid reports whether the role is one of the known permission classes.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAgencyAdmin, RoleExecutive:
		return true
	}
	return false
}

// Actor is the authenticated principal an operation runs as.
// AgencyID is nil only for superadmins.
type Actor struct {
	UserID   uuid.UUID
	AgencyID *uuid.UUID
	Role     Role
}

// ActorFromIdentity builds an Actor from the HTTP identity layer.
func ActorFromIdentity(id httpkit.Identity) Actor {
	return Actor{
		UserID:   id.UserID(),
		AgencyID: id.AgencyID(),
		Role:     Role(id.Role()),
	}
}

const scopeDeniedMsg = "record belongs to another agency"

// Authorize is the pure scope predicate: an actor may touch a record iff it
// is a superadmin or its agency matches the record's owning agency.
// Fails closed: an actor without a resolvable agency is denied.
func Authorize(actor Actor, ownerAgencyID uuid.UUID) error {
	if actor.Role == RoleSuperadmin {
		return nil
	}
	if ownerAgencyID == uuid.Nil {
		return apperr.Forbidden(scopeDeniedMsg)
	}
	if actor.AgencyID == nil || *actor.AgencyID != ownerAgencyID {
		return apperr.Forbidden(scopeDeniedMsg)
	}
	return nil
}

// ResolveAgency returns the agency an agency-scoped create should target.
// Superadmins must name the agency explicitly; agency staff always target
// their own agency regardless of what the request claims.
func ResolveAgency(actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if actor.Role == RoleSuperadmin {
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, apperr.Validation("agency id is required")
		}
		return *requested, nil
	}
	if actor.AgencyID == nil {
		return uuid.Nil, apperr.Forbidden(scopeDeniedMsg)
	}
	return *actor.AgencyID, nil
}

// RequirePriceEdit is the capability check for catalog price and attribute
// mutations. It is orthogonal to Authorize and must be combined with it.
func RequirePriceEdit(actor Actor) error {
	switch actor.Role {
	case RoleSuperadmin, RoleAgencyAdmin:
		return nil
	}
	return apperr.Forbidden("role may not edit catalog prices")
}
