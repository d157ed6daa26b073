package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/rcliao/babylog/internal/reference"
	"github.com/rcliao/babylog/internal/report"
	"github.com/rcliao/babylog/internal/schema"
	"github.com/rcliao/babylog/internal/timeline"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleChartNames(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string][]string{"charts": report.ChartNames})
}

// handleChart serves GET /api/charts/{name}; ?format=csv returns CSV.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rep, err := s.load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tbl, err := rep.Chart(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.charts.WithLabelValues(name).Inc()

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := tbl.WriteCSV(w); err != nil {
			s.logger.ErrorContext(r.Context(), "write csv", slog.String("error", err.Error()))
		}
		return
	}
	render.JSON(w, r, tbl)
}

// handleTimeline serves GET /api/timeline?start=&end=&sort=. Without bounds
// the report's default window applies.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sortByStart, _ := strconv.ParseBool(q.Get("sort"))
	opts, err := timeline.ParseWindow(q.Get("start"), q.Get("end"), sortByStart)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err)
		return
	}

	rep, err := s.load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Start == nil && opts.End == nil {
		def := rep.DefaultWindow()
		opts.Start, opts.End = def.Start, def.End
	}
	s.metrics.charts.WithLabelValues(report.ChartTimeline).Inc()
	render.JSON(w, r, rep.Timeline(opts))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, err := s.load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sum, err := rep.Summary(s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, sum)
}

// fail maps err to a status: bad export data is 422, an unknown chart 404.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		parseErr *schema.ParseError
		unitErr  *reference.UnsupportedUnitError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, report.ErrUnknownChart):
		status = http.StatusNotFound
	case errors.As(err, &parseErr), errors.As(err, &unitErr):
		status = http.StatusUnprocessableEntity
	default:
		s.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
	}
	s.respondError(w, r, status, err)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}
