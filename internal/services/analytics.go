package services

import (
	"context"
	"fmt"
	"log/slog"

	"anita/internal/cache"
	"anita/internal/chart"
	"anita/internal/core"
	"anita/internal/dataset"
	applog "anita/internal/log"

	"golang.org/x/sync/errgroup"
)

// ChartWedge is one renderable donut segment: geometry plus the display
// attributes the client needs to draw and label it.
type ChartWedge struct {
	Name        string               `json:"name"`
	AmountCents int64                `json:"amountCents"`
	Percent     float64              `json:"percent"`
	Geometry    chart.WedgeGeometry  `json:"geometry"`
	Fill        string               `json:"fill"`
	FillOpacity float64              `json:"fillOpacity"`
	Path        chart.Path           `json:"path"`
}

// ChartModel is the complete category donut for one month and viewport.
type ChartModel struct {
	Year       int          `json:"year"`
	Month      int          `json:"month"`
	TotalCents int64        `json:"totalCents"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Selected   string       `json:"selected,omitempty"`
	Wedges     []ChartWedge `json:"wedges"`
}

// TrendStats compares a month's spending with the previous month.
type TrendStats struct {
	CurrentCents  int64
	PreviousCents int64
	DeltaCents    int64
}

// AnalyticsService turns stored transactions into renderable chart
// models. Collaborators are passed in explicitly; the service holds no
// ambient global state. When a snapshot reader is configured, breakdowns
// are served from the worker-maintained summary snapshot first, falling
// back to the live aggregate for months the worker has not covered yet.
type AnalyticsService struct {
	reader    dataset.BreakdownReader
	snapshots dataset.SummaryReader // optional
	layout    chart.Layout
	cache     *cache.LRUCache[ChartModel]
}

func NewAnalyticsService(reader dataset.BreakdownReader, snapshots dataset.SummaryReader, layout chart.Layout, modelCache *cache.LRUCache[ChartModel]) *AnalyticsService {
	return &AnalyticsService{
		reader:    reader,
		snapshots: snapshots,
		layout:    layout,
		cache:     modelCache,
	}
}

// readBreakdown resolves a month's breakdown: snapshot first when a
// snapshot reader is configured, live aggregate otherwise. An empty or
// failed snapshot read falls through to the live aggregate so a lagging
// worker never blanks the chart.
func (s *AnalyticsService) readBreakdown(ctx context.Context, year, month int) (core.CategoryBreakdown, error) {
	if s.snapshots != nil {
		b, err := s.snapshots.ReadSummaryBreakdown(ctx, year, month)
		if err == nil && len(b.ByCategory) > 0 {
			return b, nil
		}
		if err != nil {
			slog.WarnContext(ctx, "Summary snapshot read failed, using live aggregate",
				applog.FieldComponent, applog.ComponentAnalytics, applog.FieldError, err)
		}
	}
	return s.reader.ReadCategoryBreakdown(ctx, year, month)
}

// BuildChart computes the donut model for a month at the given viewport,
// with an optional selected category for highlight mode. Selection only
// affects resolved fills, never geometry.
func (s *AnalyticsService) BuildChart(ctx context.Context, year, month int, width, height float64, selected string) (ChartModel, error) {
	key := chartCacheKey(year, month, width, height, selected)
	if s.cache != nil {
		if model, ok := s.cache.Get(key); ok {
			return model, nil
		}
	}

	breakdown, err := s.readBreakdown(ctx, year, month)
	if err != nil {
		return ChartModel{}, fmt.Errorf("read category breakdown: %w", err)
	}

	shares := SharesForChart(breakdown)
	wedges, err := s.layout.Wedges(shares, width, height)
	if err != nil {
		return ChartModel{}, fmt.Errorf("compute wedges: %w", err)
	}

	cx, cy := width/2, height/2
	model := ChartModel{
		Year:       year,
		Month:      month,
		TotalCents: breakdown.Total.Cents,
		Width:      width,
		Height:     height,
		Selected:   selected,
		Wedges:     make([]ChartWedge, len(wedges)),
	}
	for i, w := range wedges {
		fill := chart.ResolveFill(selected, shares[i].Name, shares[i].Color)
		model.Wedges[i] = ChartWedge{
			Name:        shares[i].Name,
			AmountCents: shares[i].AmountCents,
			Percent:     shares[i].Percentage,
			Geometry:    w,
			Fill:        fill.Hex(),
			FillOpacity: fill.Opacity(),
			Path:        chart.WedgePath(w, cx, cy),
		}
	}

	if s.cache != nil {
		s.cache.Set(key, model)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentAnalytics).
		WithOperation(applog.OpCompute).
		WithPeriod(year, month)
	fields[applog.FieldWedgeCount] = len(model.Wedges)
	if selected != "" {
		fields[applog.FieldSelected] = selected
	}
	slog.DebugContext(ctx, "Chart model computed", fields.Args()...)

	return model, nil
}

// RenderSVG renders the month's donut as an SVG document.
func (s *AnalyticsService) RenderSVG(ctx context.Context, year, month int, width, height float64, selected string) ([]byte, error) {
	breakdown, err := s.readBreakdown(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("read category breakdown: %w", err)
	}
	return chart.RenderSVG(SharesForChart(breakdown), s.layout, width, height, selected)
}

// MonthStats fetches the month's total and the previous month's total
// concurrently and returns the spending trend between them.
func (s *AnalyticsService) MonthStats(ctx context.Context, year, month int) (TrendStats, error) {
	prevYear, prevMonth := year, month-1
	if prevMonth < 1 {
		prevMonth = 12
		prevYear--
	}

	var current, previous core.CategoryBreakdown

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.readBreakdown(gctx, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.readBreakdown(gctx, prevYear, prevMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		return TrendStats{}, fmt.Errorf("read month breakdowns: %w", err)
	}

	return TrendStats{
		CurrentCents:  current.Total.Cents,
		PreviousCents: previous.Total.Cents,
		DeltaCents:    current.Total.Cents - previous.Total.Cents,
	}, nil
}

// InvalidateCache drops memoized chart models, e.g. after an ingest.
func (s *AnalyticsService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// SharesForChart converts a breakdown into chart input shares with
// palette colors assigned in breakdown order.
func SharesForChart(b core.CategoryBreakdown) []chart.CategoryShare {
	values := b.Shares()
	shares := make([]chart.CategoryShare, len(values))
	for i, v := range values {
		shares[i] = chart.CategoryShare{
			Name:        v.Name,
			Percentage:  v.Percent,
			Color:       chart.PaletteColor(i),
			AmountCents: v.AmountCents,
		}
	}
	return shares
}

func chartCacheKey(year, month int, width, height float64, selected string) string {
	return fmt.Sprintf("%04d-%02d|%gx%g|%s", year, month, width, height, selected)
}
