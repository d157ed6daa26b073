package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/babylog/internal/report"
	"github.com/rcliao/babylog/internal/schema"
)

type mapSource map[string][]schema.RawRecord

func (m mapSource) RawRecords(_ context.Context, kind string) ([]schema.RawRecord, error) {
	return m[kind], nil
}

func sample() mapSource {
	return mapSource{
		"sleep": {
			{"Start Time": "2024-03-01 13:00", "End Time": "2024-03-01 14:30"},
			{"Start Time": "2024-03-01 20:00", "End Time": "2024-03-02 05:00"},
		},
		"feed": {
			{"Start Time": "2024-03-01 08:00", "End Time": "2024-03-01 08:20"},
			{"Start Time": "2024-03-01 11:00", "End Time": "2024-03-01 11:15"},
		},
		"diaper": {
			{"Time": "2024-03-01 09:00", "Type": "Pee"},
		},
		"growth": {
			{"Day": "2024-03-01", "Weight": "3.2", "Weight Unit": "kg"},
		},
		"journal": {
			{"Time": "2024-02-01 10:00", "Category": "Milestone", "Notes": "Born"},
		},
	}
}

func newTestServer(t *testing.T, src report.Source) *Server {
	t.Helper()
	opts := report.DefaultOptions(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC))
	s := New(func(ctx context.Context) (*report.Report, error) {
		return report.Load(ctx, src, opts)
	}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) }
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, sample()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestChart_JSON(t *testing.T) {
	rec := get(t, newTestServer(t, sample()), "/api/charts/diapers")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	cols := body["cols"].([]any)
	assert.Len(t, cols, 3)
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	cells := rows[0].(map[string]any)["c"].([]any)
	assert.Equal(t, "Date(2024,2,1)", cells[0].(map[string]any)["v"])
}

func TestChart_CSV(t *testing.T) {
	rec := get(t, newTestServer(t, sample()), "/api/charts/sleep?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Day,Duration\n"), rec.Body.String())
}

func TestChart_Unknown(t *testing.T) {
	rec := get(t, newTestServer(t, sample()), "/api/charts/photos")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unknown chart")
}

func TestChart_BadExportIsUnprocessable(t *testing.T) {
	src := sample()
	src["growth"] = []schema.RawRecord{{"Day": "2024-03-01", "Weight": "7", "Weight Unit": "lb"}}

	rec := get(t, newTestServer(t, src), "/api/charts/weight")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	src["growth"] = nil
	src["feed"] = []schema.RawRecord{{"Start Time": "tomorrow"}}
	rec = get(t, newTestServer(t, src), "/api/summary")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestChart_LoaderFailure(t *testing.T) {
	s := New(func(context.Context) (*report.Report, error) {
		return nil, errors.New("database is locked")
	}, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	rec := get(t, s, "/api/charts/sleep")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "database is locked", decode(t, rec)["error"])
}

func TestTimeline(t *testing.T) {
	s := newTestServer(t, sample())

	// Default window excludes the journal entry from February.
	rec := get(t, s, "/api/timeline")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["rows"], 5)

	rec = get(t, s, "/api/timeline?start=2024-02-01&end=2024-03-02&sort=true")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode(t, rec)["rows"].([]any)
	require.Len(t, rows, 6)
	first := rows[0].(map[string]any)["c"].([]any)[0].(map[string]any)["v"]
	assert.Equal(t, "Journal", first)

	rec = get(t, s, "/api/timeline?start=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummary(t *testing.T) {
	rec := get(t, newTestServer(t, sample()), "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(14), body["age_days"])
	assert.Equal(t, "14 days", body["age"])
	assert.Equal(t, 1.0, body["weight_change"])
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, sample())
	get(t, s, "/api/charts/naps")
	get(t, s, "/api/charts/naps")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `babylog_charts_rendered_total{chart="naps"} 2`)
	assert.Contains(t, body, `babylog_http_requests_total{code="200",route="/api/charts/{name}"} 2`)
}
