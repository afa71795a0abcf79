// Package geoip resolves the approximate location of a client IP via
// the ip-api.com JSON endpoint. Lookups are best-effort: failures leave
// session geolocation columns null.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

const lookupTimeout = 5 * time.Second

// Location is the subset of ip-api fields the session table stores.
type Location struct {
	Status     string  `json:"status"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Resolver performs IP geolocation lookups.
type Resolver struct {
	client  *http.Client
	baseURL string
}

// New creates a Resolver with the default endpoint.
func New() *Resolver {
	return &Resolver{
		client:  &http.Client{Timeout: lookupTimeout},
		baseURL: "http://ip-api.com/json",
	}
}

// NewWithBaseURL creates a Resolver against a custom endpoint (tests).
func NewWithBaseURL(baseURL string) *Resolver {
	return &Resolver{
		client:  &http.Client{Timeout: lookupTimeout},
		baseURL: baseURL,
	}
}

// Lookup resolves the location of ip. Private and unparsable addresses
// return (nil, nil) without a network call.
func (r *Resolver) Lookup(ctx context.Context, ip string) (*Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return nil, nil
	}

	url := fmt.Sprintf("%s/%s?fields=status,country,regionName,city,lat,lon", r.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip lookup: HTTP %d", resp.StatusCode)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, err
	}
	if loc.Status != "success" {
		return nil, nil
	}
	return &loc, nil
}

// Label renders the "City, Country" display string, degrading to
// whichever part is known.
func (l *Location) Label() string {
	switch {
	case l == nil:
		return ""
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.Country != "":
		return l.Country
	default:
		return l.City
	}
}
