package repository

import (
	"context"

	"instapay-callback/internal/domain/model"
)

// -----------------------------
// Outward transactions
// -----------------------------

type OutwardTransactionRepository interface {
	// UpdateStatus fails with domain.ErrNotFound for an unknown instruction id.
	UpdateStatus(ctx context.Context, tx Tx, u model.OutwardStatusUpdate) error
}
