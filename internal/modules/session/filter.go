package session

import "strings"

// Filter narrows a session list in memory: case-insensitive substring
// match of term against the display fields, intersected with an exact
// status match unless status is empty or StatusAll. Pure and
// synchronous; it never touches storage, so re-applying it is
// idempotent.
func Filter(items []View, term string, status Status) []View {
	term = strings.ToLower(strings.TrimSpace(term))
	filterStatus := status != "" && status != StatusAll

	out := make([]View, 0, len(items))
	for _, v := range items {
		if filterStatus && v.Status != status {
			continue
		}
		if term != "" && !matches(&v, term) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// matches checks the lowered term against the searchable fields.
func matches(v *View, term string) bool {
	for _, field := range []string{
		v.UserName,
		v.UserEmail,
		deref(v.DeviceInfo),
		deref(v.Location),
		deref(v.IPAddress),
		deref(v.BrowserName),
	} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
