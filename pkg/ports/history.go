package ports

import (
	"context"

	"github.com/aretw0/smolbox/pkg/domain"
)

// HistoryLog is an append-only sequence of Record snapshots.
type HistoryLog interface {
	// Append adds one snapshot. Entries are never modified afterwards.
	Append(ctx context.Context, rec domain.Record) error

	// Entries returns every snapshot in append order.
	// The engine never calls it; it exists for inspection tools.
	Entries(ctx context.Context) ([]domain.Record, error)
}
