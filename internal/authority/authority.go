// Package authority reads the officially published prayer timetable, the
// second time source next to the calculated one.
package authority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	apperrors "github.com/smokyabdulrahman/ramadan-companion/internal/errors"
	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
)

const dateLayout = "2006-01-02"

// ErrNotPublished is returned for dates outside the published timetable.
var ErrNotPublished = errors.New("no timetable published for date")

// Timings is one published day. Times are raw "HH:MM" strings.
type Timings struct {
	Date    string `json:"date"`
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// Raw returns the published boundaries keyed by name. The authority does
// not publish Imsak; it is derived from Fajr.
func (t Timings) Raw() map[string]string {
	return map[string]string{
		"Fajr":    t.Fajr,
		"Sunrise": t.Sunrise,
		"Dhuhr":   t.Dhuhr,
		"Asr":     t.Asr,
		"Maghrib": t.Maghrib,
		"Isha":    t.Isha,
	}
}

func notPublished(date time.Time) error {
	return apperrors.WrapErr(apperrors.UpstreamUnavailable, ErrNotPublished, "authority timetable for %s", date.Format(dateLayout))
}

// File serves a timetable from a JSON file holding an array of Timings.
// The file is read once, on first use.
type File struct {
	Path string

	once sync.Once
	days map[string]Timings
	err  error
}

// NewFile returns a file-backed timetable.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) load() {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		f.err = apperrors.WrapErr(apperrors.UpstreamUnavailable, err, "failed to read timetable")
		return
	}

	var entries []Timings
	if err := json.Unmarshal(data, &entries); err != nil {
		f.err = apperrors.WrapErr(apperrors.ParseError, err, "invalid timetable %s", f.Path)
		return
	}

	f.days = make(map[string]Timings, len(entries))
	for _, e := range entries {
		if _, err := time.Parse(dateLayout, e.Date); err != nil {
			logger.Warn("skipping timetable row with bad date", "path", f.Path, "date", e.Date)
			continue
		}
		f.days[e.Date] = e
	}
	logger.Debug("loaded authority timetable", "path", f.Path, "days", len(f.days))
}

// Timings returns the published day for date.
func (f *File) Timings(_ context.Context, date time.Time) (Timings, error) {
	f.once.Do(f.load)
	if f.err != nil {
		return Timings{}, f.err
	}
	t, ok := f.days[date.Format(dateLayout)]
	if !ok {
		return Timings{}, notPublished(date)
	}
	return t, nil
}

// HTTP fetches one day at a time from {BaseURL}/{YYYY-MM-DD}. A 404 means
// the day is not published.
type HTTP struct {
	httpClient *http.Client
	BaseURL    string
}

// NewHTTP returns a client for the timetable service at baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Timings returns the published day for date.
func (h *HTTP) Timings(ctx context.Context, date time.Time) (Timings, error) {
	reqURL := fmt.Sprintf("%s/%s", h.BaseURL, date.Format(dateLayout))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Timings{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return Timings{}, apperrors.WrapErr(apperrors.UpstreamUnavailable, err, "authority request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Timings{}, notPublished(date)
	default:
		body, _ := io.ReadAll(resp.Body)
		return Timings{}, apperrors.Wrap(apperrors.UpstreamUnavailable, "authority returned status %d: %s", resp.StatusCode, string(body))
	}

	var t Timings
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return Timings{}, apperrors.WrapErr(apperrors.UpstreamUnavailable, err, "failed to decode authority response")
	}
	if t.Date == "" {
		t.Date = date.Format(dateLayout)
	}
	return t, nil
}
