package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain/model"
)

// DuplicateChecker reports whether an instruction id was already seen.
// Implementations must be safe against concurrent identical ids.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, instructionID string) (bool, error)
}

// ClaimReleaser is implemented by duplicate checkers that reserve the id
// while checking. The reservation is released when the transaction ends up
// not accepted, so a gateway retry is not mistaken for a duplicate.
type ClaimReleaser interface {
	Release(ctx context.Context, instructionID string) error
}

// AccountValidator decides whether the creditor account may receive funds.
type AccountValidator interface {
	ValidateAccount(ctx context.Context, account model.Account) (model.CheckResult, error)
}

// BalanceChecker decides whether the amount is allowed for the account.
type BalanceChecker interface {
	CheckBalance(ctx context.Context, accountNumber string, amount decimal.Decimal) (model.CheckResult, error)
}

// TransactionProcessor books an accepted inward transaction. Any error
// rejects the transaction.
type TransactionProcessor interface {
	ProcessTransaction(ctx context.Context, tx model.NormalizedTransaction) (any, error)
}

// InwardCapabilities is the set of optional collaborators consulted while
// handling an inward transaction. Nil members are replaced by the No*
// variants below, which always pass.
type InwardCapabilities struct {
	Duplicates DuplicateChecker
	Accounts   AccountValidator
	Balances   BalanceChecker
	Processor  TransactionProcessor
}

// Func adapters.

type DuplicateCheckerFunc func(ctx context.Context, instructionID string) (bool, error)

func (f DuplicateCheckerFunc) IsDuplicate(ctx context.Context, instructionID string) (bool, error) {
	return f(ctx, instructionID)
}

type AccountValidatorFunc func(ctx context.Context, account model.Account) (model.CheckResult, error)

func (f AccountValidatorFunc) ValidateAccount(ctx context.Context, account model.Account) (model.CheckResult, error) {
	return f(ctx, account)
}

type BalanceCheckerFunc func(ctx context.Context, accountNumber string, amount decimal.Decimal) (model.CheckResult, error)

func (f BalanceCheckerFunc) CheckBalance(ctx context.Context, accountNumber string, amount decimal.Decimal) (model.CheckResult, error) {
	return f(ctx, accountNumber, amount)
}

type TransactionProcessorFunc func(ctx context.Context, tx model.NormalizedTransaction) (any, error)

func (f TransactionProcessorFunc) ProcessTransaction(ctx context.Context, tx model.NormalizedTransaction) (any, error) {
	return f(ctx, tx)
}

// No-op variants used when a capability is not configured.

type NoDuplicateCheck struct{}

func (NoDuplicateCheck) IsDuplicate(context.Context, string) (bool, error) { return false, nil }

type NoAccountValidation struct{}

func (NoAccountValidation) ValidateAccount(context.Context, model.Account) (model.CheckResult, error) {
	return model.Pass, nil
}

type NoBalanceCheck struct{}

func (NoBalanceCheck) CheckBalance(context.Context, string, decimal.Decimal) (model.CheckResult, error) {
	return model.Pass, nil
}

// NoProcessing accepts without side effects and without data.
type NoProcessing struct{}

func (NoProcessing) ProcessTransaction(context.Context, model.NormalizedTransaction) (any, error) {
	return nil, nil
}
