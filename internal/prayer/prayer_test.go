package prayer

import (
	"testing"

	"github.com/smokyabdulrahman/ramadan-companion/internal/clock"
)

// sampleSet is a Singapore-style day used across the tests.
func sampleSet() BoundarySet {
	return BoundarySet{
		Fajr:    clock.MustParse("05:30"),
		Sunrise: clock.MustParse("07:02"),
		Dhuhr:   clock.MustParse("13:07"),
		Asr:     clock.MustParse("16:29"),
		Maghrib: clock.MustParse("19:10"),
		Isha:    clock.MustParse("20:20"),
	}
}

// ---------------------------------------------------------------------------
// BoundarySet
// ---------------------------------------------------------------------------

func TestBoundarySet_Validate(t *testing.T) {
	if err := sampleSet().Validate(); err != nil {
		t.Fatalf("valid set reported error: %v", err)
	}

	b := sampleSet()
	b.Asr = b.Dhuhr
	if err := b.Validate(); err == nil {
		t.Error("equal boundaries should be invalid")
	}

	b = sampleSet()
	b.Isha = clock.MustParse("01:00")
	if err := b.Validate(); err == nil {
		t.Error("Isha before Maghrib should be invalid")
	}
}

func TestBoundarySet_PrayersOrder(t *testing.T) {
	prayers := sampleSet().Prayers()
	if len(prayers) != len(BoundaryNames) {
		t.Fatalf("got %d prayers, want %d", len(prayers), len(BoundaryNames))
	}
	for i, name := range BoundaryNames {
		if prayers[i].Name != name {
			t.Errorf("prayers[%d] = %q, want %q", i, prayers[i].Name, name)
		}
	}
}

func TestBoundarySet_Get(t *testing.T) {
	got, ok := sampleSet().Get(Maghrib)
	if !ok || got != clock.MustParse("19:10") {
		t.Errorf("Get(Maghrib) = %s, %v", got, ok)
	}
	if _, ok := sampleSet().Get(Imsak); ok {
		t.Error("Imsak is not part of the boundary set")
	}
}

// ---------------------------------------------------------------------------
// NextPrayer
// ---------------------------------------------------------------------------

func TestNextPrayer(t *testing.T) {
	prayers := sampleSet().Prayers()

	tests := []struct {
		now  string
		want string
	}{
		{"00:30", Fajr},
		{"05:30", Sunrise}, // exactly at Fajr: next is Sunrise
		{"12:00", Dhuhr},
		{"19:09", Maghrib},
		{"20:19", Isha},
	}

	for _, tt := range tests {
		next := NextPrayer(prayers, clock.MustParse(tt.now))
		if next == nil {
			t.Fatalf("NextPrayer at %s = nil, want %s", tt.now, tt.want)
		}
		if next.Name != tt.want {
			t.Errorf("NextPrayer at %s = %s, want %s", tt.now, next.Name, tt.want)
		}
	}
}

func TestNextPrayer_AllPassed(t *testing.T) {
	if next := NextPrayer(sampleSet().Prayers(), clock.MustParse("22:00")); next != nil {
		t.Errorf("expected nil after Isha, got %+v", next)
	}
}

func TestNextPrayer_Empty(t *testing.T) {
	if next := NextPrayer(nil, clock.MustParse("12:00")); next != nil {
		t.Errorf("expected nil for empty slice, got %+v", next)
	}
}
