package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain/model"
)

// -----------------------------
// Inward transactions
// -----------------------------

type InwardTransactionRepository interface {
	// Create fails with domain.ErrDuplicateTransaction when the instruction id exists.
	Create(ctx context.Context, tx Tx, t *model.InwardTransaction) error
	FindByInstructionID(ctx context.Context, tx Tx, instructionID string) (*model.InwardTransaction, error)
	// SumCreditedSince totals credited amounts for an account from a point in time.
	SumCreditedSince(ctx context.Context, tx Tx, accountNumber string, since time.Time) (decimal.Decimal, error)
}
