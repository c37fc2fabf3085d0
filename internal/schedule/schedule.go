// Package schedule plans sahur, iftar and prayer reminders from reconciled
// days and hands them to a Notifier.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/reconcile"
)

// DefaultSahurLead is how long before Imsak the sahur reminder fires.
const DefaultSahurLead = 30 * time.Minute

// MaxDays caps a single planning run.
const MaxDays = 30

// ErrInProgress is returned when Plan is called while another run is active.
var ErrInProgress = errors.New("reminder scheduling already in progress")

// Kind classifies a reminder.
type Kind string

const (
	KindSahur  Kind = "sahur"
	KindIftar  Kind = "iftar"
	KindPrayer Kind = "prayer"
)

// Reminder is one planned notification.
type Reminder struct {
	ID    string    `json:"id"`
	Kind  Kind      `json:"kind"`
	Event string    `json:"event"`
	At    time.Time `json:"at"`
	Title string    `json:"title"`
	// LowConfidence is set when the event time came from regional defaults.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// DaySource returns the reconciled day for a date.
type DaySource interface {
	Day(ctx context.Context, date time.Time) (reconcile.Day, error)
}

// DaySourceFunc adapts a function to DaySource.
type DaySourceFunc func(ctx context.Context, date time.Time) (reconcile.Day, error)

// Day calls f.
func (f DaySourceFunc) Day(ctx context.Context, date time.Time) (reconcile.Day, error) {
	return f(ctx, date)
}

// Notifier delivers planned reminders. Delivery itself is out of scope;
// WriterNotifier prints them.
type Notifier interface {
	Notify(ctx context.Context, reminders []Reminder) error
}

// Options tunes which reminders are planned.
type Options struct {
	SahurLead time.Duration
	// Prayers adds a reminder for each of the five daily prayers.
	Prayers bool
}

// Scheduler plans reminders. It is built once by the caller and shared by
// reference; only one Plan runs at a time.
type Scheduler struct {
	days     DaySource
	notifier Notifier
	opts     Options
	newID    func() string

	mu         sync.Mutex
	scheduling bool
}

// New returns a scheduler reading days from days and delivering to n.
func New(days DaySource, n Notifier, opts Options) *Scheduler {
	if opts.SahurLead <= 0 {
		opts.SahurLead = DefaultSahurLead
	}
	return &Scheduler{
		days:     days,
		notifier: n,
		opts:     opts,
		newID:    func() string { return uuid.New().String() },
	}
}

// Scheduling reports whether a Plan run is in progress.
func (s *Scheduler) Scheduling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduling
}

func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduling {
		return false
	}
	s.scheduling = true
	return true
}

func (s *Scheduler) end() {
	s.mu.Lock()
	s.scheduling = false
	s.mu.Unlock()
}

// Plan builds reminders for days consecutive dates starting at from's date,
// drops any already in the past, and passes the rest to the notifier in
// time order. A concurrent call returns ErrInProgress.
func (s *Scheduler) Plan(ctx context.Context, from time.Time, days int) ([]Reminder, error) {
	if days < 1 || days > MaxDays {
		return nil, fmt.Errorf("days must be between 1 and %d, got %d", MaxDays, days)
	}
	if !s.begin() {
		return nil, ErrInProgress
	}
	defer s.end()

	var out []Reminder
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := start.AddDate(0, 0, i)
		day, err := s.days.Day(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", date.Format("2006-01-02"), err)
		}
		for _, r := range s.forDay(date, day) {
			if r.At.After(from) {
				out = append(out, r)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	logger.Debug("planned reminders", "days", days, "count", len(out))

	if s.notifier != nil && len(out) > 0 {
		if err := s.notifier.Notify(ctx, out); err != nil {
			return out, fmt.Errorf("failed to deliver reminders: %w", err)
		}
	}
	return out, nil
}

func (s *Scheduler) forDay(date time.Time, day reconcile.Day) []Reminder {
	var out []Reminder
	add := func(kind Kind, event string, t clock.Time, lead time.Duration, title string, low bool) {
		out = append(out, Reminder{
			ID:            s.newID(),
			Kind:          kind,
			Event:         event,
			At:            t.On(date).Add(-lead),
			Title:         title,
			LowConfidence: low,
		})
	}

	add(KindSahur, prayer.Imsak, day.Imsak.Value, s.opts.SahurLead,
		fmt.Sprintf("Sahur ends at %s", day.Imsak.Value), day.Imsak.LowConfidence)

	if m, ok := day.Get(prayer.Maghrib); ok {
		add(KindIftar, prayer.Maghrib, m.Value, 0, "Time to break your fast", m.LowConfidence)
	}

	if s.opts.Prayers {
		for _, name := range []string{prayer.Fajr, prayer.Dhuhr, prayer.Asr, prayer.Maghrib, prayer.Isha} {
			if r, ok := day.Get(name); ok {
				add(KindPrayer, name, r.Value, 0, fmt.Sprintf("%s at %s", name, r.Value), r.LowConfidence)
			}
		}
	}
	return out
}

// WriterNotifier prints reminders, one per line.
type WriterNotifier struct {
	W      io.Writer
	Layout string
}

// Notify writes each reminder to W.
func (n WriterNotifier) Notify(_ context.Context, reminders []Reminder) error {
	layout := n.Layout
	if layout == "" {
		layout = "Mon 02 Jan 15:04"
	}
	for _, r := range reminders {
		if _, err := fmt.Fprintf(n.W, "%s  %-6s  %s\n", r.At.Format(layout), r.Kind, r.Title); err != nil {
			return err
		}
	}
	return nil
}
