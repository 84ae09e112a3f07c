package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// handleDashboardCategories returns the category list partial: one row per
// category with amount, share and the swatch color matching the donut wedge.
func (s *Server) handleDashboardCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	year, month := parseYearMonth(r)
	selected := sanitizeInput(r.URL.Query().Get("selected"))

	model, err := s.analytics.BuildChart(ctx, year, month, defaultChartWidth, defaultChartHeight, selected)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build category list", "error", err)
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}

	type row struct {
		Name    string
		Amount  string
		Percent float64
		Color   string
	}
	rows := make([]row, 0, len(model.Wedges))
	for _, wedge := range model.Wedges {
		rows = append(rows, row{
			Name:    wedge.Name,
			Amount:  formatEuros(wedge.AmountCents),
			Percent: wedge.Percent,
			Color:   wedge.Fill,
		})
	}

	data := struct {
		Year       int
		Month      int
		HasData    bool
		Total      string
		Categories []row
	}{
		Year:       model.Year,
		Month:      model.Month,
		HasData:    len(rows) > 0,
		Total:      formatEuros(model.TotalCents),
		Categories: rows,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "category_list", data); err != nil {
		slog.ErrorContext(ctx, "Category list template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDashboardStats returns the stat hero partial (monthly total with
// the month-over-month trend).
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	year, month := parseYearMonth(r)
	stats, err := s.analytics.MonthStats(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute month stats", "error", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	var trendValue, trendClass string
	if stats.PreviousCents > 0 {
		switch {
		case stats.DeltaCents < 0:
			trendValue = formatEuros(-stats.DeltaCents) + " less than last month"
			trendClass = "stat-hero__trend--down"
		case stats.DeltaCents > 0:
			trendValue = formatEuros(stats.DeltaCents) + " more than last month"
			trendClass = "stat-hero__trend--up"
		default:
			trendValue = "same as last month"
			trendClass = "stat-hero__trend--neutral"
		}
	}

	data := struct {
		HasData     bool
		Total       string
		PeriodLabel string
		TrendValue  string
		TrendClass  string
	}{
		HasData:     stats.CurrentCents > 0,
		Total:       formatEuros(stats.CurrentCents),
		PeriodLabel: monthLabel(year, month),
		TrendValue:  trendValue,
		TrendClass:  trendClass,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "stat_hero", data); err != nil {
		slog.ErrorContext(ctx, "Stat hero template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func monthLabel(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
