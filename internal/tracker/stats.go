// Package tracker records per-day outcomes for the tracked Ramadan
// activities and derives streaks and scores from them.
package tracker

import (
	"math"
	"time"
)

// DayLog is one day's entry in a collection.
type DayLog[S Status] struct {
	Day       int       `json:"day"`
	Status    S         `json:"status"`
	Qualifier string    `json:"qualifier,omitempty"`
	LoggedAt  time.Time `json:"logged_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Collection is a sparse log keyed by ordinal day.
type Collection[S Status] map[int]DayLog[S]

// Stats is derived from a collection and never stored.
type Stats[S Status] struct {
	Counts        map[S]int `json:"counts"`
	Completions   int       `json:"completions"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
}

// Compute tallies logs and measures streaks up to currentDay. A day with no
// entry breaks a streak the same way a failed day does.
func Compute[S Status](logs Collection[S], currentDay int) Stats[S] {
	st := Stats[S]{Counts: make(map[S]int)}

	for _, l := range logs {
		st.Counts[l.Status]++
		if l.Status.Succeeded() {
			st.Completions++
		}
	}

	for d := currentDay; d >= 1; d-- {
		if !succeeded(logs, d) {
			break
		}
		st.CurrentStreak++
	}

	run := 0
	for d := 1; d <= currentDay; d++ {
		if succeeded(logs, d) {
			run++
			st.LongestStreak = max(st.LongestStreak, run)
		} else {
			run = 0
		}
	}

	return st
}

func succeeded[S Status](logs Collection[S], day int) bool {
	l, ok := logs[day]
	return ok && l.Status.Succeeded()
}

// Ratio returns completions over daysElapsed as a percentage in [0, 100].
func (s Stats[S]) Ratio(daysElapsed int) float64 {
	if daysElapsed <= 0 {
		return 0
	}
	return math.Min(100, float64(s.Completions)*100/float64(daysElapsed))
}

// Composite score weights per tracked activity.
const (
	FastingWeight  = 0.4
	TaraweehWeight = 0.3
	QuranWeight    = 0.3
)

func init() {
	if FastingWeight+TaraweehWeight+QuranWeight != 1.0 {
		panic("FastingWeight, TaraweehWeight and QuranWeight must sum to 1.0")
	}
}

// CompositeScore combines per-activity percentages with the fixed weights,
// rounded to the nearest integer.
func CompositeScore(fasting, taraweeh, quran float64) int {
	return int(math.Round(fasting*FastingWeight + taraweeh*TaraweehWeight + quran*QuranWeight))
}

// DaysElapsed is currentDay capped at totalDays.
func DaysElapsed(currentDay, totalDays int) int {
	return max(0, min(currentDay, totalDays))
}

// DaysRemaining is never negative.
func DaysRemaining(totalDays, currentDay int) int {
	return max(0, totalDays-currentDay)
}

// Summary is the stats query result across all activities.
type Summary struct {
	HijriYear     int                   `json:"hijri_year"`
	CurrentDay    int                   `json:"current_day"`
	TotalDays     int                   `json:"total_days"`
	DaysElapsed   int                   `json:"days_elapsed"`
	DaysRemaining int                   `json:"days_remaining"`
	Fasting       Stats[FastStatus]     `json:"fasting"`
	Taraweeh      Stats[TaraweehStatus] `json:"taraweeh"`
	Quran         Stats[QuranStatus]    `json:"quran"`
	Score         int                   `json:"score"`
}

// Summarize computes every activity's stats and the composite score.
func Summarize(hijriYear, currentDay, totalDays int, fasting Collection[FastStatus], taraweeh Collection[TaraweehStatus], quran Collection[QuranStatus]) Summary {
	elapsed := DaysElapsed(currentDay, totalDays)
	s := Summary{
		HijriYear:     hijriYear,
		CurrentDay:    currentDay,
		TotalDays:     totalDays,
		DaysElapsed:   elapsed,
		DaysRemaining: DaysRemaining(totalDays, currentDay),
		Fasting:       Compute(fasting, elapsed),
		Taraweeh:      Compute(taraweeh, elapsed),
		Quran:         Compute(quran, elapsed),
	}
	s.Score = CompositeScore(s.Fasting.Ratio(elapsed), s.Taraweeh.Ratio(elapsed), s.Quran.Ratio(elapsed))
	return s
}
