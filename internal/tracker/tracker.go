package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

// Store keys.
const (
	KeyWindow   = "window"
	KeyFasting  = "logs:fasting"
	KeyTaraweeh = "logs:taraweeh"
	KeyQuran    = "logs:quran"
)

var logKeys = []string{KeyFasting, KeyTaraweeh, KeyQuran}

// Tracker persists the period window and the three activity logs.
type Tracker struct {
	kv  store.KV
	now func() time.Time
}

// New returns a tracker over kv.
func New(kv store.KV) *Tracker {
	return &Tracker{kv: kv, now: time.Now}
}

// Window returns the stored period window, or a NotInitialized error when
// none has been started.
func (t *Tracker) Window(ctx context.Context) (ramadan.Window, error) {
	var w ramadan.Window
	err := store.GetJSON(ctx, t.kv, KeyWindow, &w)
	if errors.Is(err, store.ErrNotFound) {
		return ramadan.Window{}, apperrors.Wrap(apperrors.NotInitialized, "no ramadan window stored")
	}
	if err != nil {
		return ramadan.Window{}, err
	}
	return w, nil
}

// StartPeriod stores w. A window for a different Hijri year clears the old
// logs first; the returned bool reports whether that happened.
func (t *Tracker) StartPeriod(ctx context.Context, w ramadan.Window) (bool, error) {
	if err := w.Validate(); err != nil {
		return false, apperrors.WrapErr(apperrors.InvalidInput, err, "invalid ramadan window")
	}

	reset := false
	current, err := t.Window(ctx)
	switch {
	case err == nil && current.HijriYear != w.HijriYear:
		logger.Info("new ramadan period, clearing logs", "previous", current.HijriYear, "year", w.HijriYear)
		if err := t.clearLogs(ctx); err != nil {
			return false, err
		}
		reset = true
	case err != nil && !errors.Is(err, apperrors.NotInitialized):
		return false, err
	}

	if err := store.SetJSON(ctx, t.kv, KeyWindow, w); err != nil {
		return false, err
	}
	return reset, nil
}

// Reset removes the window and every log.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.clearLogs(ctx); err != nil {
		return err
	}
	return t.kv.Delete(ctx, KeyWindow)
}

func (t *Tracker) clearLogs(ctx context.Context) error {
	for _, key := range logKeys {
		if err := t.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// LogFast records a fast; reason is optional (e.g. why it was excused).
func (t *Tracker) LogFast(ctx context.Context, day int, status FastStatus, reason string) (DayLog[FastStatus], error) {
	return logDay(ctx, t, KeyFasting, day, status, reason)
}

// LogTaraweeh records taraweeh; location is optional.
func (t *Tracker) LogTaraweeh(ctx context.Context, day int, status TaraweehStatus, location string) (DayLog[TaraweehStatus], error) {
	return logDay(ctx, t, KeyTaraweeh, day, status, location)
}

// LogQuran records reading progress; pages, if given, must be a
// non-negative integer.
func (t *Tracker) LogQuran(ctx context.Context, day int, status QuranStatus, pages string) (DayLog[QuranStatus], error) {
	if pages != "" {
		if n, err := strconv.Atoi(pages); err != nil || n < 0 {
			return DayLog[QuranStatus]{}, apperrors.Wrap(apperrors.InvalidInput, "pages must be a non-negative number, got %q", pages)
		}
	}
	return logDay(ctx, t, KeyQuran, day, status, pages)
}

func logDay[S Status](ctx context.Context, t *Tracker, key string, day int, status S, qualifier string) (DayLog[S], error) {
	w, err := t.Window(ctx)
	if err != nil {
		if errors.Is(err, apperrors.NotInitialized) {
			logger.Warn("dropping log write", "log", key, "day", day, "status", status, "error", err)
		}
		return DayLog[S]{}, err
	}
	if day < 1 || day > w.TotalDays {
		return DayLog[S]{}, apperrors.Wrap(apperrors.InvalidInput, "day %d is outside 1..%d", day, w.TotalDays)
	}
	if !status.Valid() {
		return DayLog[S]{}, apperrors.Wrap(apperrors.InvalidInput, "unknown status %q", status.String())
	}

	logs, err := load[S](ctx, t.kv, key)
	if err != nil {
		return DayLog[S]{}, err
	}

	now := t.now()
	entry, ok := logs[day]
	if !ok {
		entry = DayLog[S]{Day: day, LoggedAt: now}
	}
	entry.Status = status
	entry.Qualifier = qualifier
	entry.UpdatedAt = now
	logs[day] = entry

	if err := store.SetJSON(ctx, t.kv, key, logs); err != nil {
		return DayLog[S]{}, err
	}
	logger.Debug("logged day", "log", key, "day", day, "status", status)
	return entry, nil
}

func load[S Status](ctx context.Context, kv store.KV, key string) (Collection[S], error) {
	logs := Collection[S]{}
	err := store.GetJSON(ctx, kv, key, &logs)
	if errors.Is(err, store.ErrNotFound) {
		return Collection[S]{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return logs, nil
}

// Fasting returns the fasting log.
func (t *Tracker) Fasting(ctx context.Context) (Collection[FastStatus], error) {
	return load[FastStatus](ctx, t.kv, KeyFasting)
}

// Taraweeh returns the taraweeh log.
func (t *Tracker) Taraweeh(ctx context.Context) (Collection[TaraweehStatus], error) {
	return load[TaraweehStatus](ctx, t.kv, KeyTaraweeh)
}

// Quran returns the reading log.
func (t *Tracker) Quran(ctx context.Context) (Collection[QuranStatus], error) {
	return load[QuranStatus](ctx, t.kv, KeyQuran)
}

// Summary loads the stored window and logs and summarizes them as of
// currentDay.
func (t *Tracker) Summary(ctx context.Context, currentDay int) (Summary, error) {
	w, err := t.Window(ctx)
	if err != nil {
		return Summary{}, err
	}
	fasting, err := t.Fasting(ctx)
	if err != nil {
		return Summary{}, err
	}
	taraweeh, err := t.Taraweeh(ctx)
	if err != nil {
		return Summary{}, err
	}
	quran, err := t.Quran(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(w.HijriYear, currentDay, w.TotalDays, fasting, taraweeh, quran), nil
}
