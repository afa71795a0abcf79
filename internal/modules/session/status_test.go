package session

import "testing"

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"active", "inactive", "suspicious", "revoked"} {
		if _, ok := ParseStatus(valid); !ok {
			t.Errorf("ParseStatus(%q) should succeed", valid)
		}
	}
	for _, invalid := range []string{"", "all", "Active", "deleted"} {
		if _, ok := ParseStatus(invalid); ok {
			t.Errorf("ParseStatus(%q) should fail", invalid)
		}
	}
}

func TestTransitionGuards(t *testing.T) {
	cases := []struct {
		status        Status
		canSuspicious bool
		canRevoke     bool
	}{
		{StatusActive, true, true},
		{StatusInactive, true, true},
		{StatusSuspicious, false, true},
		{StatusRevoked, false, false},
	}
	for _, tc := range cases {
		if got := tc.status.CanMarkSuspicious(); got != tc.canSuspicious {
			t.Errorf("%s.CanMarkSuspicious() = %v, want %v", tc.status, got, tc.canSuspicious)
		}
		if got := tc.status.CanRevoke(); got != tc.canRevoke {
			t.Errorf("%s.CanRevoke() = %v, want %v", tc.status, got, tc.canRevoke)
		}
	}
}

func TestBadgeIsExhaustive(t *testing.T) {
	statuses := []Status{StatusActive, StatusInactive, StatusSuspicious, StatusRevoked}

	seen := map[string]Status{}
	for _, s := range statuses {
		b := s.Badge()
		if b.Label == "" || b.Color == "" || b.Icon == "" {
			t.Errorf("%s maps to an incomplete badge: %+v", s, b)
		}
		if prev, dup := seen[b.Label]; dup {
			t.Errorf("%s and %s share badge label %q", prev, s, b.Label)
		}
		seen[b.Label] = s
	}

	// Rows with a corrupt status column get an explicit unknown style,
	// never a real status's badge.
	unknown := Status("garbage").Badge()
	if unknown.Label != "Unknown" {
		t.Errorf("invalid status badge = %+v, want the unknown badge", unknown)
	}
	for _, s := range statuses {
		if s.Badge() == unknown {
			t.Errorf("%s shares the unknown badge", s)
		}
	}
}
