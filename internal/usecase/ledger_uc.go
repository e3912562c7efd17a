// File: internal/usecase/ledger_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/adapter"
	"instapay-callback/internal/domain/ports/repository"
	"instapay-callback/internal/infra/logging"
)

// Compile-time checks
var (
	_ adapter.AccountValidator     = (*AccountCheckUC)(nil)
	_ adapter.BalanceChecker       = (*LimitCheckUC)(nil)
	_ adapter.TransactionProcessor = (*LedgerUC)(nil)
)

// settlementZone is the gateway's business-day timezone (PHT, no DST).
var settlementZone = time.FixedZone("PHT", 8*60*60)

// AccountCheckUC validates creditor accounts against the ledger.
type AccountCheckUC struct {
	accounts repository.AccountRepository
	log      *zerolog.Logger
}

func NewAccountCheckUseCase(accounts repository.AccountRepository, logger *zerolog.Logger) *AccountCheckUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AccountCheckUC{accounts: accounts, log: logger}
}

// ValidateAccount rejects unknown (AC01), closed (AC04) and non savings or
// current (AC03) accounts.
func (u *AccountCheckUC) ValidateAccount(ctx context.Context, account model.Account) (model.CheckResult, error) {
	defer logging.TraceDuration(u.log, "AccountCheckUC.ValidateAccount")()

	if account.AccountNumber == "" {
		return model.Fail(model.ReasonIncorrectAccountNumber, "IncorrectAccountNumber"), nil
	}
	acct, err := u.accounts.FindByNumber(ctx, nil, account.AccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.Fail(model.ReasonIncorrectAccountNumber, "IncorrectAccountNumber"), nil
		}
		return model.CheckResult{}, err
	}
	if acct.Status != model.LedgerAccountActive {
		return model.Fail(model.ReasonClosedAccountNumber, "ClosedAccountNumber"), nil
	}
	switch acct.AccountType {
	case model.AccountTypeSavings, model.AccountTypeCurrent:
	default:
		return model.Fail(model.ReasonInvalidCreditorAccount, "InvalidCreditorAccountNumber"), nil
	}
	return model.Pass, nil
}

// LimitCheckUC enforces the per-account daily inward limit.
type LimitCheckUC struct {
	accounts repository.AccountRepository
	inward   repository.InwardTransactionRepository
	now      func() time.Time
	log      *zerolog.Logger
}

func NewLimitCheckUseCase(accounts repository.AccountRepository, inward repository.InwardTransactionRepository, logger *zerolog.Logger) *LimitCheckUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LimitCheckUC{accounts: accounts, inward: inward, now: time.Now, log: logger}
}

// WithClock overrides the time source; used by tests.
func (u *LimitCheckUC) WithClock(now func() time.Time) *LimitCheckUC {
	u.now = now
	return u
}

func (u *LimitCheckUC) CheckBalance(ctx context.Context, accountNumber string, amount decimal.Decimal) (model.CheckResult, error) {
	defer logging.TraceDuration(u.log, "LimitCheckUC.CheckBalance")()

	acct, err := u.accounts.FindByNumber(ctx, nil, accountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.Fail(model.ReasonIncorrectAccountNumber, "IncorrectAccountNumber"), nil
		}
		return model.CheckResult{}, err
	}
	if acct.DailyLimit.Sign() <= 0 {
		return model.Pass, nil
	}

	now := u.now().In(settlementZone)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, settlementZone)
	today, err := u.inward.SumCreditedSince(ctx, nil, accountNumber, startOfDay)
	if err != nil {
		return model.CheckResult{}, err
	}
	if today.Add(amount).GreaterThan(acct.DailyLimit) {
		return model.Fail(model.ReasonNotAllowedAmount, "NotAllowedAmount - Exceeds daily limit"), nil
	}
	return model.Pass, nil
}

// LedgerUC books accepted inward transactions: one ledger record plus the
// balance credit, atomically.
type LedgerUC struct {
	accounts repository.AccountRepository
	inward   repository.InwardTransactionRepository
	tm       repository.TransactionManager
	now      func() time.Time
	log      *zerolog.Logger
}

func NewLedgerUseCase(accounts repository.AccountRepository, inward repository.InwardTransactionRepository, tm repository.TransactionManager, logger *zerolog.Logger) *LedgerUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LedgerUC{accounts: accounts, inward: inward, tm: tm, now: time.Now, log: logger}
}

func (u *LedgerUC) ProcessTransaction(ctx context.Context, tx model.NormalizedTransaction) (any, error) {
	defer logging.TraceDuration(u.log, "LedgerUC.ProcessTransaction")()

	if !tx.CreditorAccount.HasNumber() {
		return nil, domain.ErrInvalidArgument
	}
	rec := &model.InwardTransaction{
		ID:              uuid.NewString(),
		InstructionID:   tx.InstructionID,
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		CreditorAccount: tx.CreditorAccount.AccountNumber,
		CreditorType:    tx.CreditorAccount.AccountType,
		Status:          model.InwardStatusCredited,
		CreatedAt:       u.now(),
	}
	if d := tx.DebtorAccount; d != nil {
		rec.DebtorAccount = d.AccountNumber
		rec.DebtorBank = d.BankCode
		rec.DebtorName = d.AccountName
	}

	err := u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, qx repository.Tx) error {
		if err := u.inward.Create(ctx, qx, rec); err != nil {
			return err
		}
		return u.accounts.Credit(ctx, qx, rec.CreditorAccount, rec.Amount)
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"transaction_id": rec.ID,
		"processed_at":   rec.CreatedAt.In(settlementZone).Format("2006-01-02 15:04:05"),
	}, nil
}
