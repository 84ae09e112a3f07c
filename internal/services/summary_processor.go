package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"anita/internal/amqp"
	"anita/internal/core"
	"anita/internal/dataset"
)

// SummaryStore reads live breakdowns and persists snapshot replacements.
type SummaryStore interface {
	ReadCategoryBreakdown(ctx context.Context, year, month int) (core.CategoryBreakdown, error)
	ReplaceSummary(ctx context.Context, b core.CategoryBreakdown) error
}

// SummaryProcessor is the worker-side consumer: on each refresh event it
// recomputes the month's category summary snapshot from live rows and
// mirrors it to the external dashboard when one is configured.
type SummaryProcessor struct {
	store  SummaryStore
	mirror dataset.DashboardMirror
}

func NewSummaryProcessor(store SummaryStore, mirror dataset.DashboardMirror) *SummaryProcessor {
	return &SummaryProcessor{
		store:  store,
		mirror: mirror,
	}
}

// HandleRefreshMessage processes a single refresh message from AMQP
func (p *SummaryProcessor) HandleRefreshMessage(ctx context.Context, msg *amqp.BreakdownRefreshMessage) error {
	slog.InfoContext(ctx, "Processing refresh message",
		"year", msg.Year,
		"month", msg.Month)

	return p.RefreshPeriod(ctx, msg.Year, msg.Month)
}

// RefreshPeriod recomputes and stores the snapshot for one month.
func (p *SummaryProcessor) RefreshPeriod(ctx context.Context, year, month int) error {
	breakdown, err := p.store.ReadCategoryBreakdown(ctx, year, month)
	if err != nil {
		return fmt.Errorf("recompute breakdown: %w", err)
	}

	if err := p.store.ReplaceSummary(ctx, breakdown); err != nil {
		return fmt.Errorf("replace summary snapshot: %w", err)
	}

	if p.mirror != nil {
		if err := p.mirror.MirrorBreakdown(ctx, breakdown); err != nil {
			// The local snapshot is already fresh; the mirror can catch
			// up on the next event.
			slog.ErrorContext(ctx, "Failed to mirror breakdown",
				"year", year,
				"month", month,
				"error", err)
		}
	}

	return nil
}

// RefreshCurrentMonth is the periodic backup pass in case refresh
// messages were lost.
func (p *SummaryProcessor) RefreshCurrentMonth(ctx context.Context) error {
	now := time.Now()
	return p.RefreshPeriod(ctx, now.Year(), int(now.Month()))
}
