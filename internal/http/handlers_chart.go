package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"anita/internal/chart"
	applog "anita/internal/log"
)

const chartTimeout = 7 * time.Second

// handleChartCategories returns the full donut-chart model as JSON: one
// wedge per category with its angles, radii, fill and path outline. Clients
// that draw the chart themselves consume this endpoint.
func (s *Server) handleChartCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chartTimeout)
	defer cancel()

	year, month := parseYearMonth(r)
	width, height := parseViewport(r)
	selected := sanitizeInput(r.URL.Query().Get("selected"))

	model, err := s.analytics.BuildChart(ctx, year, month, width, height, selected)
	if err != nil {
		s.writeChartError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, model)
}

// handleChartSVG renders the donut chart server-side as an SVG document.
func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chartTimeout)
	defer cancel()

	year, month := parseYearMonth(r)
	width, height := parseViewport(r)
	selected := sanitizeInput(r.URL.Query().Get("selected"))

	svg, err := s.analytics.RenderSVG(ctx, year, month, width, height, selected)
	if err != nil {
		s.writeChartError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

// writeChartError maps geometry validation failures to client errors and
// everything else to a 500.
func (s *Server) writeChartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chart.ErrInvalidViewport), errors.Is(err, chart.ErrInvalidLayout):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chart.ErrInvalidShare):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(ctx, "Failed to build chart",
			applog.FieldError, err.Error(),
			applog.FieldComponent, applog.ComponentChart)
		writeJSONError(w, http.StatusInternalServerError, "failed to build chart")
	}
}
