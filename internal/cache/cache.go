// Package cache keeps fetched prayer times and geolocation results on top
// of a store.KV so repeated runs stay off the network.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

const (
	timingsKeyPrefix = "timings:"
	geoKey           = "geolocation"
	geoTTL           = 24 * time.Hour
	dateLayout       = "2006-01-02"
)

// Cache stores timings and geolocation entries in a key-value store.
type Cache struct {
	kv  store.KV
	now func() time.Time
}

// PrayerCacheEntry stores a day's prayer times along with metadata for validation.
type PrayerCacheEntry struct {
	Date    string      `json:"date"` // YYYY-MM-DD
	Method  int         `json:"method"`
	School  int         `json:"school"`
	Timings api.Timings `json:"timings"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// New creates a Cache over kv.
func New(kv store.KV) *Cache {
	return &Cache{kv: kv, now: time.Now}
}

// timingsKey builds a deterministic hash from the parameters that affect
// prayer times, so different locations and methods never share an entry.
func timingsKey(date string, loc api.Location) string {
	raw := fmt.Sprintf("%s|%.6f|%.6f|%s|%s|%d|%d", date, loc.Latitude, loc.Longitude, loc.City, loc.Country, loc.Method, loc.School)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", timingsKeyPrefix, h[:8])
}

// LoadTimings returns cached times for date and loc, or nil when the entry
// is missing, unreadable or for another day.
func (c *Cache) LoadTimings(ctx context.Context, date time.Time, loc api.Location) *api.Timings {
	dateStr := date.Format(dateLayout)

	var entry PrayerCacheEntry
	if err := store.GetJSON(ctx, c.kv, timingsKey(dateStr, loc), &entry); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Debug("ignoring unreadable timings cache", "date", dateStr, "err", err)
		}
		return nil
	}

	if entry.Date != dateStr {
		return nil
	}

	return &entry.Timings
}

// SaveTimings writes a day's times to the cache.
func (c *Cache) SaveTimings(ctx context.Context, date time.Time, loc api.Location, t api.Timings) error {
	dateStr := date.Format(dateLayout)
	entry := PrayerCacheEntry{
		Date:    dateStr,
		Method:  loc.Method,
		School:  loc.School,
		Timings: t,
	}
	if err := store.SetJSON(ctx, c.kv, timingsKey(dateStr, loc), entry); err != nil {
		return fmt.Errorf("failed to write timings cache: %w", err)
	}
	return nil
}

// LoadGeo returns the cached geolocation, or nil when it is missing or
// older than 24 hours.
func (c *Cache) LoadGeo(ctx context.Context) *geo.Location {
	var entry GeoCacheEntry
	if err := store.GetJSON(ctx, c.kv, geoKey, &entry); err != nil {
		return nil
	}

	if c.now().Sub(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(ctx context.Context, loc *geo.Location) error {
	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: c.now(),
	}
	if err := store.SetJSON(ctx, c.kv, geoKey, entry); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}
	return nil
}
