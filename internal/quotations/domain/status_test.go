package domain

import (
	"testing"

	"travelquote_backend/platform/apperr"
)

func TestLifecycleEdges(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusSent, true},
		{StatusPending, StatusLost, true},
		{StatusSent, StatusWon, true},
		{StatusSent, StatusLost, true},
		{StatusPending, StatusWon, false},
		{StatusSent, StatusPending, false},
		{StatusWon, StatusSent, false},
		{StatusWon, StatusLost, false},
		{StatusLost, StatusWon, false},
		{StatusLost, StatusPending, false},
		{StatusWon, StatusPending, false},
	}

	for _, tc := range cases {
		err := CheckTransition(tc.from, tc.to)
		if tc.allowed && err != nil {
			t.Fatalf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
		if !tc.allowed {
			if err == nil {
				t.Fatalf("%s -> %s should be rejected", tc.from, tc.to)
			}
			if !apperr.Is(err, apperr.KindInvalidTransition) {
				t.Fatalf("%s -> %s: expected invalid transition kind, got %v", tc.from, tc.to, err)
			}
		}
	}
}

func TestUnknownTargetStatusIsValidationError(t *testing.T) {
	err := CheckTransition(StatusPending, Status("DRAFT"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestTerminalAndMutable(t *testing.T) {
	if StatusPending.Terminal() || StatusSent.Terminal() {
		t.Fatal("open statuses must not be terminal")
	}
	if !StatusWon.Terminal() || !StatusLost.Terminal() {
		t.Fatal("won and lost are terminal")
	}
	if !StatusPending.Mutable() || !StatusSent.Mutable() {
		t.Fatal("pending and sent quotations are editable")
	}
	if StatusWon.Mutable() || StatusLost.Mutable() {
		t.Fatal("terminal quotations are read-only")
	}
}

func TestCheckMutableOnTerminal(t *testing.T) {
	for _, s := range []Status{StatusWon, StatusLost} {
		err := CheckMutable(s)
		if !apperr.Is(err, apperr.KindImmutable) {
			t.Fatalf("expected immutable error for %s, got %v", s, err)
		}
	}
	if err := CheckMutable(StatusSent); err != nil {
		t.Fatalf("sent quotation should be mutable: %v", err)
	}
}
