package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"anita/internal/cache"
	"anita/internal/chart"
	"anita/internal/core"
)

// fakeReader is called concurrently by MonthStats, so the call counter
// is guarded.
type fakeReader struct {
	breakdowns map[string]core.CategoryBreakdown
	err        error

	mu    sync.Mutex
	calls int
}

func (f *fakeReader) ReadCategoryBreakdown(_ context.Context, year, month int) (core.CategoryBreakdown, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return core.CategoryBreakdown{}, f.err
	}
	key := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	b, ok := f.breakdowns[key]
	if !ok {
		return core.CategoryBreakdown{Year: year, Month: month}, nil
	}
	return b, nil
}

func (f *fakeReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSnapshots struct {
	breakdowns map[string]core.CategoryBreakdown
	err        error
}

func (f *fakeSnapshots) ReadSummaryBreakdown(_ context.Context, year, month int) (core.CategoryBreakdown, error) {
	if f.err != nil {
		return core.CategoryBreakdown{}, f.err
	}
	key := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	b, ok := f.breakdowns[key]
	if !ok {
		return core.CategoryBreakdown{Year: year, Month: month}, nil
	}
	return b, nil
}

func marchBreakdown() core.CategoryBreakdown {
	return core.CategoryBreakdown{
		Year:  2025,
		Month: 3,
		Total: core.Money{Cents: 10000},
		ByCategory: []core.CategoryAmount{
			{Name: "Housing", Amount: core.Money{Cents: 6000}},
			{Name: "Food", Amount: core.Money{Cents: 4000}},
		},
	}
}

func TestBuildChartGeometry(t *testing.T) {
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{"2025-03": marchBreakdown()}}
	svc := NewAnalyticsService(reader, nil, chart.DefaultLayout(), nil)

	model, err := svc.BuildChart(context.Background(), 2025, 3, 200, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.Wedges) != 2 {
		t.Fatalf("expected 2 wedges, got %d", len(model.Wedges))
	}
	if model.TotalCents != 10000 {
		t.Fatalf("expected total 10000, got %d", model.TotalCents)
	}

	first := model.Wedges[0]
	if first.Name != "Housing" || first.Percent != 60 {
		t.Fatalf("expected Housing at 60%%, got %s at %v", first.Name, first.Percent)
	}
	if first.Geometry.StartAngle != -90 || first.Geometry.EndAngle != 126 {
		t.Fatalf("expected [-90, 126], got [%v, %v]", first.Geometry.StartAngle, first.Geometry.EndAngle)
	}
	if model.Wedges[1].Geometry.StartAngle != first.Geometry.EndAngle {
		t.Fatalf("wedges must tile contiguously")
	}
	if len(first.Path) != 5 {
		t.Fatalf("expected 5 path elements, got %d", len(first.Path))
	}
}

func TestBuildChartSelectionOnlyChangesFills(t *testing.T) {
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{"2025-03": marchBreakdown()}}
	svc := NewAnalyticsService(reader, nil, chart.DefaultLayout(), nil)
	ctx := context.Background()

	plain, err := svc.BuildChart(ctx, 2025, 3, 200, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	highlighted, err := svc.BuildChart(ctx, 2025, 3, 200, 200, "Housing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range plain.Wedges {
		if plain.Wedges[i].Geometry != highlighted.Wedges[i].Geometry {
			t.Fatalf("wedge %d geometry changed under selection", i)
		}
	}
	if highlighted.Wedges[0].Fill != plain.Wedges[0].Fill {
		t.Fatalf("selected wedge must keep its assigned fill")
	}
	if highlighted.Wedges[1].Fill != chart.Dimmed.Hex() {
		t.Fatalf("non-selected wedge must dim, got %s", highlighted.Wedges[1].Fill)
	}
}

func TestBuildChartUsesCache(t *testing.T) {
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{"2025-03": marchBreakdown()}}
	modelCache := cache.NewLRUCache[ChartModel](10, time.Minute)
	svc := NewAnalyticsService(reader, nil, chart.DefaultLayout(), modelCache)
	ctx := context.Background()

	if _, err := svc.BuildChart(ctx, 2025, 3, 200, 200, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.BuildChart(ctx, 2025, 3, 200, 200, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reader.callCount(); got != 1 {
		t.Fatalf("expected 1 backend read, got %d", got)
	}

	// Different viewport misses the cache.
	if _, err := svc.BuildChart(ctx, 2025, 3, 400, 400, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reader.callCount(); got != 2 {
		t.Fatalf("expected 2 backend reads, got %d", got)
	}

	// Invalidation forces recompute.
	svc.InvalidateCache()
	if _, err := svc.BuildChart(ctx, 2025, 3, 200, 200, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reader.callCount(); got != 3 {
		t.Fatalf("expected 3 backend reads after invalidate, got %d", got)
	}
}

func TestBuildChartEmptyMonth(t *testing.T) {
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{}}
	svc := NewAnalyticsService(reader, nil, chart.DefaultLayout(), nil)

	model, err := svc.BuildChart(context.Background(), 2025, 7, 200, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.Wedges) != 0 {
		t.Fatalf("expected no wedges for empty month, got %d", len(model.Wedges))
	}
}

func TestBuildChartPropagatesReaderError(t *testing.T) {
	reader := &fakeReader{err: errors.New("backend down")}
	svc := NewAnalyticsService(reader, nil, chart.DefaultLayout(), nil)

	if _, err := svc.BuildChart(context.Background(), 2025, 3, 200, 200, ""); err == nil {
		t.Fatalf("expected error from reader")
	}
}

func TestBuildChartPrefersSnapshot(t *testing.T) {
	snapshotted := core.CategoryBreakdown{
		Year: 2025, Month: 3,
		Total:      core.Money{Cents: 9000},
		ByCategory: []core.CategoryAmount{{Name: "Housing", Amount: core.Money{Cents: 9000}}},
	}
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{"2025-03": marchBreakdown()}}
	snapshots := &fakeSnapshots{breakdowns: map[string]core.CategoryBreakdown{"2025-03": snapshotted}}
	svc := NewAnalyticsService(reader, snapshots, chart.DefaultLayout(), nil)

	model, err := svc.BuildChart(context.Background(), 2025, 3, 200, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.TotalCents != 9000 || len(model.Wedges) != 1 {
		t.Fatalf("expected snapshot breakdown to win, got %+v", model)
	}
	if got := reader.callCount(); got != 0 {
		t.Fatalf("live aggregate must not be read when the snapshot has data, got %d reads", got)
	}
}

func TestBuildChartFallsBackToLiveWithoutSnapshot(t *testing.T) {
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{"2025-03": marchBreakdown()}}
	snapshots := &fakeSnapshots{breakdowns: map[string]core.CategoryBreakdown{}}
	svc := NewAnalyticsService(reader, snapshots, chart.DefaultLayout(), nil)

	model, err := svc.BuildChart(context.Background(), 2025, 3, 200, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.TotalCents != 10000 || len(model.Wedges) != 2 {
		t.Fatalf("expected live breakdown for an uncovered month, got %+v", model)
	}
	if got := reader.callCount(); got != 1 {
		t.Fatalf("expected 1 live read, got %d", got)
	}
}

func TestBuildChartFallsBackWhenSnapshotReadFails(t *testing.T) {
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{"2025-03": marchBreakdown()}}
	snapshots := &fakeSnapshots{err: errors.New("snapshot table locked")}
	svc := NewAnalyticsService(reader, snapshots, chart.DefaultLayout(), nil)

	model, err := svc.BuildChart(context.Background(), 2025, 3, 200, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.TotalCents != 10000 {
		t.Fatalf("expected live breakdown despite snapshot failure, got %+v", model)
	}
}

func TestMonthStats(t *testing.T) {
	feb := core.CategoryBreakdown{
		Year: 2025, Month: 2,
		Total:      core.Money{Cents: 8000},
		ByCategory: []core.CategoryAmount{{Name: "Housing", Amount: core.Money{Cents: 8000}}},
	}
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{
		"2025-03": marchBreakdown(),
		"2025-02": feb,
	}}
	svc := NewAnalyticsService(reader, nil, chart.DefaultLayout(), nil)

	stats, err := svc.MonthStats(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CurrentCents != 10000 || stats.PreviousCents != 8000 || stats.DeltaCents != 2000 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMonthStatsJanuaryWrapsYear(t *testing.T) {
	dec := core.CategoryBreakdown{
		Year: 2024, Month: 12,
		Total:      core.Money{Cents: 500},
		ByCategory: []core.CategoryAmount{{Name: "Food", Amount: core.Money{Cents: 500}}},
	}
	reader := &fakeReader{breakdowns: map[string]core.CategoryBreakdown{"2024-12": dec}}
	svc := NewAnalyticsService(reader, nil, chart.DefaultLayout(), nil)

	stats, err := svc.MonthStats(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PreviousCents != 500 {
		t.Fatalf("expected previous month to be December 2024, got %+v", stats)
	}
}

func TestSharesForChartAssignsPalette(t *testing.T) {
	shares := SharesForChart(marchBreakdown())
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	if shares[0].Color == shares[1].Color {
		t.Fatalf("expected distinct palette colors")
	}
	if shares[0].Color != chart.PaletteColor(0) {
		t.Fatalf("palette must be assigned in breakdown order")
	}
}
