package session

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func sampleViews() []View {
	return []View{
		{
			ID: 1, Status: StatusActive, UserName: "Amina", UserEmail: "amina@example.edu",
			BrowserName: strPtr("Chrome"), Location: strPtr("Cairo, Egypt"), IPAddress: strPtr("41.33.10.2"),
		},
		{
			ID: 2, Status: StatusSuspicious, UserName: "Omar", UserEmail: "omar@example.edu",
			BrowserName: strPtr("Firefox"), DeviceInfo: strPtr("Firefox on Linux"),
		},
		{
			ID: 3, Status: StatusRevoked, UserName: "Lena", UserEmail: "lena@example.edu",
			BrowserName: strPtr("chrome"), Location: strPtr("Berlin, Germany"),
		},
	}
}

func ids(views []View) []uint {
	out := make([]uint, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestFilterByStatus(t *testing.T) {
	got := Filter(sampleViews(), "", StatusSuspicious)
	if want := []uint{2}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("status filter returned %v, want %v", ids(got), want)
	}
}

func TestFilterTermIsCaseInsensitive(t *testing.T) {
	// "chrome" matches both the Chrome and chrome browser rows.
	got := Filter(sampleViews(), "CHROME", "")
	if want := []uint{1, 3}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("term filter returned %v, want %v", ids(got), want)
	}
}

func TestFilterSearchableFields(t *testing.T) {
	cases := []struct {
		term string
		want []uint
	}{
		{"amina@", []uint{1}},        // userEmail
		{"omar", []uint{2}},          // userName
		{"on linux", []uint{2}},      // deviceInfo
		{"berlin", []uint{3}},        // location
		{"41.33", []uint{1}},         // ipAddress
		{"firefox", []uint{2}},       // browserName
		{"no-such-term", []uint{}},   // nothing
		{"  chrome  ", []uint{1, 3}}, // trimmed
	}
	for _, tc := range cases {
		got := Filter(sampleViews(), tc.term, "")
		if !reflect.DeepEqual(ids(got), tc.want) {
			t.Errorf("Filter(term=%q) = %v, want %v", tc.term, ids(got), tc.want)
		}
	}
}

func TestFilterIntersectsTermAndStatus(t *testing.T) {
	got := Filter(sampleViews(), "chrome", StatusRevoked)
	if want := []uint{3}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("combined filter returned %v, want %v", ids(got), want)
	}
}

func TestFilterIdempotent(t *testing.T) {
	once := Filter(sampleViews(), "chrome", "")
	twice := Filter(once, "chrome", "")
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("re-applying the same filter changed the result set")
	}
}

func TestFilterAllStatusIsNoop(t *testing.T) {
	if got := Filter(sampleViews(), "", StatusAll); len(got) != 3 {
		t.Fatalf("status=all should keep all rows, got %d", len(got))
	}
	if got := Filter(sampleViews(), "", ""); len(got) != 3 {
		t.Fatalf("empty status should keep all rows, got %d", len(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := sampleViews()
	_ = Filter(in, "omar", StatusSuspicious)
	if !reflect.DeepEqual(in, sampleViews()) {
		t.Fatal("filter mutated its input")
	}
}
