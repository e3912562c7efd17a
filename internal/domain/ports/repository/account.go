package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain/model"
)

// -----------------------------
// Ledger accounts
// -----------------------------

type AccountRepository interface {
	FindByNumber(ctx context.Context, tx Tx, accountNumber string) (*model.LedgerAccount, error)
	Save(ctx context.Context, tx Tx, a *model.LedgerAccount) error
	// Credit adds amount to the balance of an active account.
	Credit(ctx context.Context, tx Tx, accountNumber string, amount decimal.Decimal) error
}
