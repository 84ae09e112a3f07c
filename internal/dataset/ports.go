package dataset

import (
	"context"

	"anita/internal/core"
)

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (ref string, err error)
	}

	// TransactionLister returns the detailed list of transactions for a
	// given month.
	TransactionLister interface {
		ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error)
	}

	// BreakdownReader provides the per-category totals the donut chart
	// is computed from.
	BreakdownReader interface {
		ReadCategoryBreakdown(ctx context.Context, year int, month int) (core.CategoryBreakdown, error)
	}

	CategoryLister interface {
		ListCategories(ctx context.Context) ([]string, error)
	}

	// SummaryReader reads the worker-maintained category summary
	// snapshot for a month. A month without a snapshot reads back as an
	// empty breakdown, not an error.
	SummaryReader interface {
		ReadSummaryBreakdown(ctx context.Context, year int, month int) (core.CategoryBreakdown, error)
	}

	// DashboardMirror pushes a month's breakdown to an external
	// dashboard surface (Google Sheets).
	DashboardMirror interface {
		MirrorBreakdown(ctx context.Context, b core.CategoryBreakdown) error
	}
)
