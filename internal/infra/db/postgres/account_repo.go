package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/repository"
)

var _ repository.AccountRepository = (*accountRepo)(nil)

type accountRepo struct{ pool *pgxpool.Pool }

func NewAccountRepo(pool *pgxpool.Pool) *accountRepo {
	return &accountRepo{pool: pool}
}

func (r *accountRepo) FindByNumber(ctx context.Context, tx repository.Tx, accountNumber string) (*model.LedgerAccount, error) {
	q := `SELECT account_number, account_type, account_name, status, balance::text, daily_limit::text, updated_at FROM accounts WHERE account_number=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, accountNumber)
	if err != nil {
		return nil, err
	}

	var (
		a              model.LedgerAccount
		balance, limit string
	)
	if err := row.Scan(&a.AccountNumber, &a.AccountType, &a.AccountName, &a.Status, &balance, &limit, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if a.DailyLimit, err = decimal.NewFromString(limit); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &a, nil
}

func (r *accountRepo) Save(ctx context.Context, tx repository.Tx, a *model.LedgerAccount) error {
	const q = `
INSERT INTO accounts (account_number, account_type, account_name, status, balance, daily_limit, updated_at)
VALUES ($1,$2,$3,$4,$5::numeric,$6::numeric,NOW())
ON CONFLICT (account_number) DO UPDATE SET
  account_type=$2, account_name=$3, status=$4, balance=$5::numeric, daily_limit=$6::numeric, updated_at=NOW();`

	_, err := execSQL(ctx, r.pool, tx, q, a.AccountNumber, a.AccountType, a.AccountName, a.Status, a.Balance.String(), a.DailyLimit.String())
	if err != nil {
		if isExecContextErr(err) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *accountRepo) Credit(ctx context.Context, tx repository.Tx, accountNumber string, amount decimal.Decimal) error {
	const q = `UPDATE accounts SET balance = balance + $2::numeric, updated_at=NOW() WHERE account_number=$1 AND status='active';`
	tag, err := execSQL(ctx, r.pool, tx, q, accountNumber, amount.String())
	if err != nil {
		if isExecContextErr(err) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
