package api

import (
	"context"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
)

// Location selects what the API computes times for. Coordinates win over
// city and country when both are set.
type Location struct {
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	Method    int
	School    int
}

// HasCoordinates reports whether a latitude/longitude pair is set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// TimingsCache is the subset of the on-disk cache the source uses.
type TimingsCache interface {
	LoadTimings(ctx context.Context, date time.Time, loc Location) *Timings
	SaveTimings(ctx context.Context, date time.Time, loc Location, t Timings) error
}

// Source serves calculated timings for one location, consulting the cache
// before the network.
type Source struct {
	Client   *Client
	Location Location
	Cache    TimingsCache
}

// Timings returns the day's calculated times.
func (s *Source) Timings(ctx context.Context, date time.Time) (Timings, error) {
	if s.Cache != nil {
		if t := s.Cache.LoadTimings(ctx, date, s.Location); t != nil {
			return *t, nil
		}
	}

	var (
		resp *Response
		err  error
	)
	if s.Location.HasCoordinates() {
		resp, err = s.Client.FetchByCoordinates(ctx, date, s.Location.Latitude, s.Location.Longitude, s.Location.Method, s.Location.School)
	} else {
		resp, err = s.Client.FetchByCity(ctx, date, s.Location.City, s.Location.Country, s.Location.Method, s.Location.School)
	}
	if err != nil {
		return Timings{}, err
	}

	if s.Cache != nil {
		// A failed cache write only costs a refetch next time.
		_ = s.Cache.SaveTimings(ctx, date, s.Location, resp.Data.Timings)
	}
	return resp.Data.Timings, nil
}

// Hijri implements the lunar calendar oracle on top of gToH.
func (s *Source) Hijri(ctx context.Context, date time.Time) (ramadan.Reading, error) {
	h, err := s.Client.FetchHijri(ctx, date)
	if err != nil {
		return ramadan.Reading{}, err
	}
	return h.Reading()
}
