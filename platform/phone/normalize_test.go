package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"national with spaces", "98765 43210", "+919876543210"},
		{"already e164", "+919876543210", "+919876543210"},
		{"international", "+31 6 12345678", "+31612345678"},
		{"empty", "", ""},
		{"garbage passes through", "not-a-number", "not-a-number"},
		{"whitespace trimmed", "  +919876543210  ", "+919876543210"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
