// Package tui renders the live sahur/iftar countdown.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
	"github.com/smokyabdulrahman/ramadan-companion/internal/companion"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/reconcile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Width(44).
			Align(lipgloss.Center)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(1, 0, 0, 0)
)

// DayFunc loads the reconciled day for a date. The model runs it as a
// command when the clock crosses midnight.
type DayFunc func(ctx context.Context, date time.Time) reconcile.Day

// dayLoadedMsg carries the day a DayFunc returned.
type dayLoadedMsg struct {
	Day reconcile.Day
}

func loadDay(load DayFunc, date time.Time) tea.Cmd {
	return func() tea.Msg {
		return dayLoadedMsg{Day: load(context.Background(), date)}
	}
}

// TickMsg carries the time of a one-second tick.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model is the countdown screen.
type Model struct {
	Title string
	Day   reconcile.Day
	Now   time.Time

	load   DayFunc
	width  int
	height int
}

// New returns a model showing day as of now. load may be nil.
func New(title string, day reconcile.Day, now time.Time, load DayFunc) Model {
	return Model{Title: title, Day: day, Now: now, load: load}
}

// Init starts the ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles ticks, reloaded days, resizes and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		next := time.Time(msg)
		reload := m.load != nil && !sameDay(m.Now, next)
		m.Now = next
		if reload {
			return m, tea.Batch(tick(), loadDay(m.load, next))
		}
		return m, tick()
	case dayLoadedMsg:
		m.Day = msg.Day
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View draws the countdown box.
func (m Model) View() string {
	c := companion.CountdownFor(m.Day, m.Now)
	target := "Iftar (Maghrib)"
	at := c.Second
	if c.Next == prayer.TargetFirst {
		target = "Sahur ends (Imsak)"
		at = c.First
		if c.Tomorrow {
			target += " tomorrow"
		}
	}

	period := prayer.Classify(clock.Of(m.Now), m.Day.Boundaries())

	lines := []string{
		titleStyle.Render(m.Title),
		labelStyle.Render(fmt.Sprintf("Now %s  ·  %s", m.Now.Format("15:04:05"), period)),
		countdownStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			target+" at "+at.String(),
			c.Display,
		)),
	}
	if m.Day.LowConfidence() {
		lines = append(lines, warnStyle.Render("Using fallback times; sources unavailable"))
	}
	lines = append(lines, helpStyle.Render("q to quit"))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Run shows the countdown until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
