package authority

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
)

func sampleDay() Timings {
	return Timings{
		Date:    "2026-02-19",
		Fajr:    "05:40",
		Sunrise: "07:02",
		Dhuhr:   "13:07",
		Asr:     "16:29",
		Maghrib: "19:10",
		Isha:    "20:20",
	}
}

func writeTimetable(t *testing.T, entries any) string {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "timetable.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFile_Timings(t *testing.T) {
	next := sampleDay()
	next.Date = "2026-02-20"
	bad := sampleDay()
	bad.Date = "20/02/2026"
	f := NewFile(writeTimetable(t, []Timings{sampleDay(), next, bad}))

	got, err := f.Timings(context.Background(), time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Timings: %v", err)
	}
	if got.Fajr != "05:40" {
		t.Errorf("Fajr = %q", got.Fajr)
	}

	_, err = f.Timings(context.Background(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNotPublished) || !errors.Is(err, apperrors.UpstreamUnavailable) {
		t.Errorf("outside range error = %v", err)
	}
}

func TestFile_Errors(t *testing.T) {
	missing := NewFile(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := missing.Timings(context.Background(), time.Now()); !errors.Is(err, apperrors.UpstreamUnavailable) {
		t.Errorf("missing file error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644)
	if _, err := NewFile(path).Timings(context.Background(), time.Now()); !errors.Is(err, apperrors.ParseError) {
		t.Errorf("bad file error = %v", err)
	}
}

func TestHTTP_Timings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/timetable/2026-02-19":
			day := sampleDay()
			day.Date = ""
			json.NewEncoder(w).Encode(day)
		case "/timetable/2026-02-20":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	h := NewHTTP(server.URL + "/timetable/")
	ctx := context.Background()

	got, err := h.Timings(ctx, time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Timings: %v", err)
	}
	if got.Isha != "20:20" || got.Date != "2026-02-19" {
		t.Errorf("got %+v", got)
	}

	_, err = h.Timings(ctx, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, apperrors.UpstreamUnavailable) || errors.Is(err, ErrNotPublished) {
		t.Errorf("500 error = %v", err)
	}

	_, err = h.Timings(ctx, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNotPublished) {
		t.Errorf("404 error = %v, want ErrNotPublished", err)
	}
}

func TestHTTP_Unreachable(t *testing.T) {
	h := NewHTTP("http://127.0.0.1:1")
	if _, err := h.Timings(context.Background(), time.Now()); !errors.Is(err, apperrors.UpstreamUnavailable) {
		t.Errorf("error = %v", err)
	}
}

func TestTimings_Raw(t *testing.T) {
	raw := sampleDay().Raw()
	if raw["Fajr"] != "05:40" || len(raw) != 6 {
		t.Errorf("Raw = %v", raw)
	}
	if _, ok := raw["Imsak"]; ok {
		t.Error("authority does not publish Imsak")
	}
}
