package session

import "sort"

// Summarize derives the per-user card block from a session list. The
// list is sorted most-recent-first before any "last known" field is
// taken, so "last" really means latest activity; ties on lastActivity
// break toward the newer row (higher id).
func Summarize(items []View) UserSummary {
	summary := UserSummary{TotalSessions: len(items)}
	if len(items) == 0 {
		return summary
	}

	sorted := sortByRecency(items)

	last := sorted[0].LastActivity
	summary.LastActivity = &last

	for _, v := range sorted {
		switch v.Status {
		case StatusActive:
			summary.ActiveSessions++
		case StatusSuspicious:
			summary.SuspiciousSessions++
		}

		if summary.LastLocation == "" {
			summary.LastLocation = locationLabel(&v)
		}
		if summary.PrimaryDevice == "" && v.DeviceInfo != nil {
			summary.PrimaryDevice = *v.DeviceInfo
		}
	}
	return summary
}

// sortByRecency returns a copy ordered by lastActivity descending, then
// id descending.
func sortByRecency(items []View) []View {
	sorted := make([]View, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.LastActivity.Equal(b.LastActivity) {
			return a.LastActivity.After(b.LastActivity)
		}
		return a.ID > b.ID
	})
	return sorted
}

// locationLabel renders "City, Country" from whichever location fields
// the session carries.
func locationLabel(v *View) string {
	city := deref(v.City)
	country := deref(v.CountryName)
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case country != "":
		return country
	case city != "":
		return city
	}
	return deref(v.Location)
}
