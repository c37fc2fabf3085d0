// Package companion composes the time sources, the lunar oracle and the
// tracker into the queries the CLI asks. Collaborator failures stop here:
// each query returns a usable answer and logs what it fell back to.
package companion

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/authority"
	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/ramadan"
	"github.com/smokyabdulrahman/ramadan-companion/internal/reconcile"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
	"github.com/smokyabdulrahman/ramadan-companion/internal/tracker"
)

// KeyLastSchedule holds recent live schedules keyed by date.
const KeyLastSchedule = "schedule:last"

// maxLastKnown bounds how many dated schedules KeyLastSchedule keeps.
const maxLastKnown = 62

const dateLayout = "2006-01-02"

// CalculatedSource is provider A: astronomically calculated times,
// including Imsak.
type CalculatedSource interface {
	Timings(ctx context.Context, date time.Time) (api.Timings, error)
}

// AuthoritySource is provider B: the officially published timetable.
type AuthoritySource interface {
	Timings(ctx context.Context, date time.Time) (authority.Timings, error)
}

// LunarOracle reads the Hijri date for a Gregorian day.
type LunarOracle interface {
	Hijri(ctx context.Context, date time.Time) (ramadan.Reading, error)
}

// ScheduleSource says how a DaySchedule was obtained.
type ScheduleSource string

const (
	ScheduleLive      ScheduleSource = "live"
	ScheduleLastKnown ScheduleSource = "last-known"
	ScheduleDefault   ScheduleSource = "default"
)

// DaySchedule is the reconciled timetable for one date.
type DaySchedule struct {
	Date   string         `json:"date"`
	Day    reconcile.Day  `json:"day"`
	Source ScheduleSource `json:"source"`
}

// Options wires the collaborators. Any source may be nil.
type Options struct {
	Calculated CalculatedSource
	Authority  AuthoritySource
	Oracle     LunarOracle
	Overrides  ramadan.OverrideTable
	Reconciler *reconcile.Reconciler
}

// Service answers detection, countdown, period and stats queries and
// forwards log writes to the tracker.
type Service struct {
	calculated CalculatedSource
	authority  AuthoritySource
	oracle     LunarOracle
	overrides  ramadan.OverrideTable
	reconciler *reconcile.Reconciler
	kv         store.KV
	tracker    *tracker.Tracker
}

// New builds a service persisting to kv.
func New(kv store.KV, opts Options) *Service {
	if opts.Reconciler == nil {
		opts.Reconciler = reconcile.New()
	}
	if opts.Overrides == nil {
		opts.Overrides = ramadan.Overrides
	}
	return &Service{
		calculated: opts.Calculated,
		authority:  opts.Authority,
		oracle:     opts.Oracle,
		overrides:  opts.Overrides,
		reconciler: opts.Reconciler,
		kv:         kv,
		tracker:    tracker.New(kv),
	}
}

// Tracker exposes the underlying tracker.
func (s *Service) Tracker() *tracker.Tracker {
	return s.tracker
}

// Detect classifies today. If the oracle fails the answer is "not in
// window".
func (s *Service) Detect(ctx context.Context, today time.Time) ramadan.Detection {
	if s.oracle == nil {
		logger.Warn("no lunar calendar configured")
		return ramadan.Unavailable()
	}
	reading, err := s.oracle.Hijri(ctx, today)
	if err != nil {
		logger.Warn("lunar calendar unavailable, assuming outside ramadan", "date", today.Format(dateLayout), "err", err)
		return ramadan.Unavailable()
	}
	return ramadan.Detect(today, reading, s.overrides)
}

// Schedule reconciles both sources for date. With neither source readable
// it returns the latest live schedule dated on or before date, then the
// regional defaults.
func (s *Service) Schedule(ctx context.Context, date time.Time) DaySchedule {
	dateStr := date.Format(dateLayout)
	calc := s.calculatedRaw(ctx, date)
	auth := s.authorityRaw(ctx, date)

	if calc == nil && auth == nil {
		known, err := s.lastKnown(ctx)
		if err != nil {
			logger.Warn("failed to read last-known schedule", "err", err)
		}
		if last, ok := known.onOrBefore(dateStr); ok {
			logger.Warn("both time sources unavailable, using last-known schedule", "date", dateStr, "from", last.Date)
			last.Source = ScheduleLastKnown
			return last
		}
		logger.Warn("both time sources unavailable, using regional defaults", "date", dateStr)
		return DaySchedule{Date: dateStr, Day: s.reconciler.DefaultDay(), Source: ScheduleDefault}
	}

	sched := DaySchedule{Date: dateStr, Day: s.reconciler.Day(calc, auth), Source: ScheduleLive}
	if err := s.remember(ctx, sched); err != nil {
		logger.Warn("failed to persist last-known schedule", "err", err)
	}
	return sched
}

// lastKnownSchedules maps YYYY-MM-DD to the live schedule of that date.
type lastKnownSchedules map[string]DaySchedule

// onOrBefore returns the latest schedule dated on or before date.
func (k lastKnownSchedules) onOrBefore(date string) (DaySchedule, bool) {
	var (
		best DaySchedule
		ok   bool
	)
	for d, sched := range k {
		if d <= date && (!ok || d > best.Date) {
			best, ok = sched, true
		}
	}
	return best, ok
}

func (s *Service) lastKnown(ctx context.Context) (lastKnownSchedules, error) {
	known := lastKnownSchedules{}
	err := store.GetJSON(ctx, s.kv, KeyLastSchedule, &known)
	if errors.Is(err, store.ErrNotFound) {
		return lastKnownSchedules{}, nil
	}
	if err != nil {
		return lastKnownSchedules{}, err
	}
	return known, nil
}

// remember adds sched to the last-known set, dropping the oldest dates
// beyond maxLastKnown.
func (s *Service) remember(ctx context.Context, sched DaySchedule) error {
	known, err := s.lastKnown(ctx)
	if err != nil {
		logger.Debug("replacing unreadable last-known schedules", "err", err)
	}
	known[sched.Date] = sched

	if len(known) > maxLastKnown {
		dates := make([]string, 0, len(known))
		for d := range known {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		for _, d := range dates[:len(dates)-maxLastKnown] {
			delete(known, d)
		}
	}
	return store.SetJSON(ctx, s.kv, KeyLastSchedule, known)
}

// Day implements schedule.DaySource.
func (s *Service) Day(ctx context.Context, date time.Time) (reconcile.Day, error) {
	return s.Schedule(ctx, date).Day, nil
}

func (s *Service) calculatedRaw(ctx context.Context, date time.Time) reconcile.Raw {
	if s.calculated == nil {
		return nil
	}
	t, err := s.calculated.Timings(ctx, date)
	if err != nil {
		logger.Warn("calculated times unavailable", "date", date.Format(dateLayout), "err", err)
		return nil
	}
	return t.Raw()
}

func (s *Service) authorityRaw(ctx context.Context, date time.Time) reconcile.Raw {
	if s.authority == nil {
		return nil
	}
	t, err := s.authority.Timings(ctx, date)
	switch {
	case errors.Is(err, authority.ErrNotPublished):
		logger.Debug("authority has not published this date", "date", date.Format(dateLayout))
		return nil
	case err != nil:
		logger.Warn("authority times unavailable", "date", date.Format(dateLayout), "err", err)
		return nil
	}
	return t.Raw()
}

// Countdown projects now against today's Imsak and Maghrib.
func (s *Service) Countdown(ctx context.Context, now time.Time) prayer.Countdown {
	return CountdownFor(s.Schedule(ctx, now).Day, now)
}

// CountdownFor projects now against day's Imsak and Maghrib.
func CountdownFor(day reconcile.Day, now time.Time) prayer.Countdown {
	maghrib, _ := day.Get(prayer.Maghrib)
	return prayer.Project(now, day.Imsak.Value, maghrib.Value)
}

// CurrentPeriod classifies now against today's boundaries.
func (s *Service) CurrentPeriod(ctx context.Context, now time.Time) prayer.Classification {
	return prayer.Classify(clock.Of(now), s.Schedule(ctx, now).Day.Boundaries())
}

// CurrentDay returns today's ordinal day in the stored window, 0 before it
// starts.
func (s *Service) CurrentDay(ctx context.Context, today time.Time) (int, error) {
	w, err := s.tracker.Window(ctx)
	if err != nil {
		return 0, err
	}
	return w.DayOf(today), nil
}

// Stats summarizes the stored logs as of today.
func (s *Service) Stats(ctx context.Context, today time.Time) (tracker.Summary, error) {
	day, err := s.CurrentDay(ctx, today)
	if err != nil {
		return tracker.Summary{}, err
	}
	return s.tracker.Summary(ctx, day)
}

// LogFast records a fast for day.
func (s *Service) LogFast(ctx context.Context, day int, status tracker.FastStatus, qualifier string) (tracker.DayLog[tracker.FastStatus], error) {
	return s.tracker.LogFast(ctx, day, status, qualifier)
}

// LogTaraweeh records taraweeh for day.
func (s *Service) LogTaraweeh(ctx context.Context, day int, status tracker.TaraweehStatus, qualifier string) (tracker.DayLog[tracker.TaraweehStatus], error) {
	return s.tracker.LogTaraweeh(ctx, day, status, qualifier)
}

// LogQuran records Quran reading for day.
func (s *Service) LogQuran(ctx context.Context, day int, status tracker.QuranStatus, qualifier string) (tracker.DayLog[tracker.QuranStatus], error) {
	return s.tracker.LogQuran(ctx, day, status, qualifier)
}

// SyncWindow stores the current window when today is inside Ramadan. A
// window for a new Hijri year clears the previous logs; reset reports that.
func (s *Service) SyncWindow(ctx context.Context, today time.Time) (det ramadan.Detection, reset bool, err error) {
	det = s.Detect(ctx, today)
	w, ok := det.Window()
	if !ok {
		return det, false, nil
	}
	reset, err = s.tracker.StartPeriod(ctx, w)
	if err != nil {
		return det, false, err
	}
	return det, reset, nil
}

// Reset clears the window, the logs and the last-known schedule.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.tracker.Reset(ctx); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, KeyLastSchedule); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// IsNotInitialized reports whether err means no window has been stored.
func IsNotInitialized(err error) bool {
	return errors.Is(err, apperrors.NotInitialized)
}
