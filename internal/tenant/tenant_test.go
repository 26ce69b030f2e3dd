package tenant

import (
	"testing"

	"travelquote_backend/platform/apperr"

	"github.com/google/uuid"
)

func agencyActor(role Role, agencyID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), AgencyID: &agencyID, Role: role}
}

func TestAuthorizeSameAgency(t *testing.T) {
	agency := uuid.New()
	if err := Authorize(agencyActor(RoleExecutive, agency), agency); err != nil {
		t.Fatalf("expected same-agency access to be allowed, got %v", err)
	}
}

func TestAuthorizeCrossAgencyDenied(t *testing.T) {
	err := Authorize(agencyActor(RoleAgencyAdmin, uuid.New()), uuid.New())
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestAuthorizeSuperadminCrossesAgencies(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Role: RoleSuperadmin}
	if err := Authorize(actor, uuid.New()); err != nil {
		t.Fatalf("expected superadmin access to be allowed, got %v", err)
	}
}

func TestAuthorizeFailsClosedWithoutActorAgency(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Role: RoleExecutive}
	err := Authorize(actor, uuid.New())
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error for agency-less actor, got %v", err)
	}
}

func TestAuthorizeFailsClosedWithoutOwnerAgency(t *testing.T) {
	agency := uuid.New()
	err := Authorize(agencyActor(RoleAgencyAdmin, agency), uuid.Nil)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error for unresolved owner agency, got %v", err)
	}
}

func TestResolveAgencyIgnoresRequestedForStaff(t *testing.T) {
	own := uuid.New()
	other := uuid.New()
	got, err := ResolveAgency(agencyActor(RoleExecutive, own), &other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != own {
		t.Fatalf("expected staff create to target own agency %s, got %s", own, got)
	}
}

func TestResolveAgencySuperadminMustName(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Role: RoleSuperadmin}
	if _, err := ResolveAgency(actor, nil); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	target := uuid.New()
	got, err := ResolveAgency(actor, &target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != target {
		t.Fatalf("expected %s, got %s", target, got)
	}
}

func TestRequirePriceEdit(t *testing.T) {
	cases := []struct {
		role    Role
		allowed bool
	}{
		{RoleSuperadmin, true},
		{RoleAgencyAdmin, true},
		{RoleExecutive, false},
	}

	for _, tc := range cases {
		err := RequirePriceEdit(Actor{UserID: uuid.New(), Role: tc.role})
		if tc.allowed && err != nil {
			t.Fatalf("role %s: expected price edit to be allowed, got %v", tc.role, err)
		}
		if !tc.allowed && !apperr.Is(err, apperr.KindForbidden) {
			t.Fatalf("role %s: expected forbidden error, got %v", tc.role, err)
		}
	}
}
