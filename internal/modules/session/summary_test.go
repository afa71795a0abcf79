package session

import (
	"testing"
	"time"
)

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalSessions != 0 || got.LastActivity != nil || got.LastLocation != "" {
		t.Fatalf("empty summary = %+v", got)
	}
}

func TestSummarizeCountsAndRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	views := []View{
		{ID: 1, Status: StatusActive, LastActivity: base.Add(-2 * time.Hour),
			City: strPtr("Lagos"), CountryName: strPtr("Nigeria"), DeviceInfo: strPtr("Chrome on Windows")},
		{ID: 2, Status: StatusSuspicious, LastActivity: base,
			DeviceInfo: strPtr("Safari on iOS")},
		{ID: 3, Status: StatusRevoked, LastActivity: base.Add(-time.Hour),
			City: strPtr("Accra"), CountryName: strPtr("Ghana")},
	}

	got := Summarize(views)
	if got.TotalSessions != 3 || got.ActiveSessions != 1 || got.SuspiciousSessions != 1 {
		t.Fatalf("counts = %+v", got)
	}
	if got.LastActivity == nil || !got.LastActivity.Equal(base) {
		t.Fatalf("lastActivity = %v, want %v", got.LastActivity, base)
	}
	// The most recent session has no location; the next most recent one
	// wins — never the oldest just because it appears first in the slice.
	if got.LastLocation != "Accra, Ghana" {
		t.Fatalf("lastLocation = %q, want %q", got.LastLocation, "Accra, Ghana")
	}
	// Device comes from the most recent session that has one.
	if got.PrimaryDevice != "Safari on iOS" {
		t.Fatalf("primaryDevice = %q", got.PrimaryDevice)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	views := []View{
		{ID: 1, Status: StatusActive, LastActivity: base.Add(-time.Hour), City: strPtr("Old"), CountryName: strPtr("X")},
		{ID: 2, Status: StatusActive, LastActivity: base, City: strPtr("New"), CountryName: strPtr("Y")},
	}
	reversed := []View{views[1], views[0]}

	a, b := Summarize(views), Summarize(reversed)
	if a.LastLocation != "New, Y" || b.LastLocation != "New, Y" {
		t.Fatalf("derivation depends on input order: %q vs %q", a.LastLocation, b.LastLocation)
	}
}

func TestSummarizeTieBreaksByNewerRow(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	views := []View{
		{ID: 5, Status: StatusActive, LastActivity: at, City: strPtr("Older"), CountryName: strPtr("A")},
		{ID: 9, Status: StatusActive, LastActivity: at, City: strPtr("Newer"), CountryName: strPtr("B")},
	}

	got := Summarize(views)
	if got.LastLocation != "Newer, B" {
		t.Fatalf("tie-break picked %q, want the higher-id row", got.LastLocation)
	}
}

func TestLocationLabelDegrades(t *testing.T) {
	cases := []struct {
		v    View
		want string
	}{
		{View{City: strPtr("Pune"), CountryName: strPtr("India")}, "Pune, India"},
		{View{CountryName: strPtr("India")}, "India"},
		{View{City: strPtr("Pune")}, "Pune"},
		{View{Location: strPtr("somewhere")}, "somewhere"},
		{View{}, ""},
	}
	for _, tc := range cases {
		if got := locationLabel(&tc.v); got != tc.want {
			t.Errorf("locationLabel = %q, want %q", got, tc.want)
		}
	}
}
