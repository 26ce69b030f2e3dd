package repository

import (
	"strings"
	"testing"
)

func TestListByAgencyQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listByAgencyQuery)

	if !strings.Contains(query, "where agency_id = $1") {
		t.Fatal("client listing must be scoped to a single agency")
	}
}
