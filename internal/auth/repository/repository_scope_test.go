package repository

import (
	"strings"
	"testing"
)

func TestCredentialLookupIsCaseInsensitive(t *testing.T) {
	query := strings.ToLower(getCredentialByEmailQuery)

	if !strings.Contains(query, "lower(email) = lower($1)") {
		t.Fatal("credential lookup by email must be case insensitive")
	}
}

func TestCredentialQueriesCarryAgencyColumn(t *testing.T) {
	for _, query := range []string{getCredentialByEmailQuery, getCredentialByIDQuery} {
		if !strings.Contains(strings.ToLower(query), "agency_id") {
			t.Fatalf("credential query must select agency_id for token claims: %s", query)
		}
	}
}
