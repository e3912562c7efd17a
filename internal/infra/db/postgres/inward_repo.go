package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/repository"
)

var _ repository.InwardTransactionRepository = (*inwardRepo)(nil)

type inwardRepo struct{ pool *pgxpool.Pool }

func NewInwardRepo(pool *pgxpool.Pool) *inwardRepo {
	return &inwardRepo{pool: pool}
}

func (r *inwardRepo) Create(ctx context.Context, tx repository.Tx, t *model.InwardTransaction) error {
	const q = `
INSERT INTO inward_transactions (
  id, instruction_id, amount, currency, creditor_account, creditor_type, debtor_account, debtor_bank, debtor_name, status, created_at
) VALUES (
  $1,$2,$3::numeric,$4,$5,$6,$7,$8,$9,$10,$11
);`

	_, err := execSQL(ctx, r.pool, tx, q, t.ID, t.InstructionID, t.Amount.String(), t.Currency, t.CreditorAccount, t.CreditorType, t.DebtorAccount, t.DebtorBank, t.DebtorName, t.Status, t.CreatedAt)
	if err != nil {
		switch {
		case isExecContextErr(err):
			return err
		case isUniqueViolation(err):
			return domain.ErrDuplicateTransaction
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *inwardRepo) FindByInstructionID(ctx context.Context, tx repository.Tx, instructionID string) (*model.InwardTransaction, error) {
	const q = `SELECT id, instruction_id, amount::text, currency, creditor_account, creditor_type, debtor_account, debtor_bank, debtor_name, status, created_at FROM inward_transactions WHERE instruction_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, instructionID)
	if err != nil {
		return nil, err
	}

	var (
		t      model.InwardTransaction
		amount string
	)
	if err := row.Scan(&t.ID, &t.InstructionID, &amount, &t.Currency, &t.CreditorAccount, &t.CreditorType, &t.DebtorAccount, &t.DebtorBank, &t.DebtorName, &t.Status, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &t, nil
}

func (r *inwardRepo) SumCreditedSince(ctx context.Context, tx repository.Tx, accountNumber string, since time.Time) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(amount),0)::text FROM inward_transactions WHERE creditor_account=$1 AND status='credited' AND created_at >= $2;`
	row, err := pickRow(ctx, r.pool, tx, q, accountNumber, since)
	if err != nil {
		return decimal.Zero, err
	}

	var sum string
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, domain.ErrReadDatabaseRow
	}
	d, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, domain.ErrReadDatabaseRow
	}
	return d, nil
}
