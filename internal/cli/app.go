package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/authority"
	"github.com/smokyabdulrahman/ramadan-companion/internal/cache"
	"github.com/smokyabdulrahman/ramadan-companion/internal/companion"
	"github.com/smokyabdulrahman/ramadan-companion/internal/config"
	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
	"github.com/spf13/cobra"
)

// geoURL is the geolocation endpoint; empty means geo.DefaultURL.
var geoURL = ""

// app is the composition root: one store, one cache and one companion
// service per command invocation.
type app struct {
	cfg     *config.Config
	kv      store.KV
	cache   *cache.Cache
	service *companion.Service

	tz      *time.Location
	place   string
	timeFmt string
}

// openApp builds the collaborators from the effective config. The caller
// must Close the result.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	cfg := effectiveConfig(cmd)

	storeOpts, err := cfg.StoreOptions()
	if err != nil {
		return nil, err
	}
	kv, err := store.Open(ctx, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", storeOpts.Backend, err)
	}
	logger.Debug("store opened", "backend", storeOpts.Backend, "dir", storeOpts.Dir)

	overrides, err := ramadan.LoadOverrides(cfg.OverridesFile)
	if err != nil {
		kv.Close()
		return nil, apperrors.WrapErr(apperrors.ParseError, err, "invalid overrides file %s", cfg.OverridesFile)
	}

	a := &app{
		cfg:     cfg,
		kv:      kv,
		cache:   cache.New(kv),
		tz:      cfg.TimeZone(),
		timeFmt: goTimeFormat(cfg.TimeFormat),
	}

	client := api.NewClient()
	if cfg.APIURL != "" {
		client.BaseURL = strings.TrimRight(cfg.APIURL, "/")
	}

	opts := companion.Options{
		Overrides: overrides,
		Oracle:    &api.Source{Client: client},
	}

	loc, err := a.resolveLocation(ctx)
	switch {
	case err != nil && isInvalidInput(err):
		kv.Close()
		return nil, err
	case err != nil:
		logger.Warn("no location for calculated times", "err", err)
	default:
		opts.Calculated = &api.Source{Client: client, Location: loc, Cache: a.cache}
	}

	switch {
	case cfg.AuthorityURL != "":
		opts.Authority = authority.NewHTTP(cfg.AuthorityURL)
	case cfg.AuthorityFile != "":
		opts.Authority = authority.NewFile(cfg.AuthorityFile)
	}

	a.service = companion.New(kv, opts)
	return a, nil
}

// Close releases the store.
func (a *app) Close() error {
	return a.kv.Close()
}

// now returns the current time in the location's zone.
func (a *app) now() time.Time {
	return nowFunc().In(a.tz)
}

// resolveLocation determines the effective location based on user flags, config, or auto-detection.
// Priority: CLI flags > config > cached geolocation > IP auto-detect.
func (a *app) resolveLocation(ctx context.Context) (api.Location, error) {
	cfg := a.cfg
	loc := api.Location{
		Method: cfg.MethodOrDefault(-1),
		School: cfg.SchoolOrDefault(-1),
	}

	switch {
	case cfg.Latitude != 0 || cfg.Longitude != 0:
		loc.Latitude, loc.Longitude = cfg.Latitude, cfg.Longitude
		a.place = fmt.Sprintf("%.4f, %.4f", cfg.Latitude, cfg.Longitude)
		return loc, nil
	case cfg.City != "":
		if cfg.Country == "" {
			return api.Location{}, apperrors.Wrap(apperrors.InvalidInput, "--country is required when using --city")
		}
		loc.City, loc.Country = cfg.City, cfg.Country
		a.place = cfg.City + ", " + cfg.Country
		return loc, nil
	}

	detected := a.cache.LoadGeo(ctx)
	if detected == nil {
		var err error
		detected, err = geo.NewDetector(geoURL).Detect(ctx)
		if err != nil {
			return api.Location{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}
		if err := a.cache.SaveGeo(ctx, detected); err != nil {
			logger.Debug("failed to cache geolocation", "err", err)
		}
	}

	loc.Latitude, loc.Longitude = detected.Latitude, detected.Longitude
	a.place = detected.City
	if detected.Country != "" {
		a.place += ", " + detected.Country
	}
	if cfg.Timezone == "" {
		a.tz = detected.TimeZone()
	}
	return loc, nil
}

func isInvalidInput(err error) bool {
	return errors.Is(err, apperrors.InvalidInput)
}
