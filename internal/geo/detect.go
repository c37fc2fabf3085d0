// Package geo resolves an approximate location from the public IP address,
// used when no city or coordinates are configured.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
)

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// TimeZone loads the detected zone, falling back to local time.
func (l Location) TimeZone() *time.Location {
	if l.Timezone == "" {
		return time.Local
	}
	tz, err := time.LoadLocation(l.Timezone)
	if err != nil {
		logger.Warn("unknown time zone from geolocation", "timezone", l.Timezone, "err", err)
		return time.Local
	}
	return tz
}

type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// DefaultURL is the free ip-api.com endpoint; it needs no API key.
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Detector queries a geolocation endpoint.
type Detector struct {
	httpClient *http.Client
	URL        string
}

// NewDetector returns a detector for url, or DefaultURL when url is empty.
func NewDetector(url string) *Detector {
	if url == "" {
		url = DefaultURL
	}
	return &Detector{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		URL:        url,
	}
}

// Detect determines the caller's location from their public IP address.
func (d *Detector) Detect(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.WrapErr(apperrors.UpstreamUnavailable, err, "geolocation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.UpstreamUnavailable, "geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.WrapErr(apperrors.UpstreamUnavailable, err, "failed to decode geolocation response")
	}

	if result.Status != "success" {
		return nil, apperrors.Wrap(apperrors.UpstreamUnavailable, "geolocation failed: %s", result.Message)
	}

	logger.Debug("detected location", "city", result.City, "country", result.Country)
	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}
