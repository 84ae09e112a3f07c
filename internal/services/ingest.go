package services

import (
	"context"
	"fmt"
	"log/slog"

	"anita/internal/core"
	"anita/internal/dataset"
)

// RefreshPublisher emits breakdown refresh events after a write.
type RefreshPublisher interface {
	PublishBreakdownRefresh(ctx context.Context, year, month int) error
}

// TransactionRemover soft-deletes a stored transaction.
type TransactionRemover interface {
	SoftDeleteTransaction(ctx context.Context, id int64) error
}

// IngestService accepts transactions, persists them and notifies the
// worker. The local write is authoritative; a failed publish is logged
// and never fails the request.
type IngestService struct {
	writer    dataset.TransactionWriter
	remover   TransactionRemover
	publisher RefreshPublisher
	analytics *AnalyticsService
}

func NewIngestService(writer dataset.TransactionWriter, remover TransactionRemover, publisher RefreshPublisher, analytics *AnalyticsService) *IngestService {
	return &IngestService{
		writer:    writer,
		remover:   remover,
		publisher: publisher,
		analytics: analytics,
	}
}

// CreateTransaction validates and saves a transaction, then invalidates
// chart caches and publishes a refresh event for its month.
func (s *IngestService) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	ref, err := s.writer.Append(ctx, t)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if s.analytics != nil {
		s.analytics.InvalidateCache()
	}
	s.publishRefresh(ctx, t.Date.Year(), t.Date.Month())

	return ref, nil
}

// DeleteTransaction soft deletes a transaction and publishes a refresh
// for the given period.
func (s *IngestService) DeleteTransaction(ctx context.Context, id int64, year, month int) error {
	if s.remover == nil {
		return fmt.Errorf("delete not supported by this backend")
	}
	if err := s.remover.SoftDeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}

	if s.analytics != nil {
		s.analytics.InvalidateCache()
	}
	s.publishRefresh(ctx, year, month)

	return nil
}

func (s *IngestService) publishRefresh(ctx context.Context, year, month int) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Refresh publisher not available, skipping refresh message")
		return
	}
	if err := s.publisher.PublishBreakdownRefresh(ctx, year, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message",
			"year", year,
			"month", month,
			"error", err)
		// Don't fail the request - the transaction is saved locally
	}
}
