// File: internal/usecase/inward_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/adapter"
	"instapay-callback/internal/infra/logging"
)

// Compile-time check
var _ InwardUseCase = (*InwardUC)(nil)

// releaseTimeout bounds the claim release, which runs detached from the
// request context.
const releaseTimeout = 2 * time.Second

type InwardUseCase interface {
	adapter.InwardHandler
	// Validate runs the validation chain without booking anything. A valid
	// result keeps the duplicate claim on the instruction id, so a later
	// ProcessTransaction for the same payload is reported as DU03.
	Validate(ctx context.Context, payload model.Payload) (model.ValidationResult, error)
}

// InwardUC validates inward transactions and hands accepted ones to the
// configured processor.
type InwardUC struct {
	duplicates adapter.DuplicateChecker
	accounts   adapter.AccountValidator
	balances   adapter.BalanceChecker
	processor  adapter.TransactionProcessor
	log        *zerolog.Logger
}

// NewInwardUseCase builds the handler. Missing capabilities are replaced by
// their no-op variants, so the matching check always passes.
func NewInwardUseCase(caps adapter.InwardCapabilities, logger *zerolog.Logger) *InwardUC {
	if logger == nil {
		logger = logging.Nop()
	}
	uc := &InwardUC{
		duplicates: caps.Duplicates,
		accounts:   caps.Accounts,
		balances:   caps.Balances,
		processor:  caps.Processor,
		log:        logger,
	}
	if uc.duplicates == nil {
		uc.duplicates = adapter.NoDuplicateCheck{}
	}
	if uc.accounts == nil {
		uc.accounts = adapter.NoAccountValidation{}
	}
	if uc.balances == nil {
		uc.balances = adapter.NoBalanceCheck{}
	}
	if uc.processor == nil {
		uc.processor = adapter.NoProcessing{}
	}
	return uc
}

// Validate checks, in order: instruction id, amount, creditor account,
// duplicates, account validity, currency, balance. The first failing check
// decides the reason code. An error means a collaborator could not answer.
// The duplicate claim is released on rejection or error and held otherwise.
func (u *InwardUC) Validate(ctx context.Context, payload model.Payload) (model.ValidationResult, error) {
	defer logging.TraceDuration(u.log, "InwardUC.Validate")()

	tx := Normalize(payload)

	if tx.InstructionID == "" {
		// AM12 for a missing id is what the gateway expects, even though the
		// code belongs to the amount family.
		return model.InvalidResult(model.ReasonInvalidAmount, "InvalidAmount - Missing instruction_id"), nil
	}
	if tx.Amount.Sign() <= 0 {
		return model.InvalidResult(model.ReasonInvalidAmount, "InvalidAmount"), nil
	}
	if !tx.CreditorAccount.HasNumber() {
		return model.InvalidResult(model.ReasonIncorrectAccountNumber, "IncorrectAccountNumber"), nil
	}

	dup, err := u.duplicates.IsDuplicate(ctx, tx.InstructionID)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		return model.InvalidResult(model.ReasonDuplicateTransaction, "DuplicateTransaction"), nil
	}

	res, err := u.validateClaimed(ctx, &tx)
	if err != nil || !res.Valid {
		u.release(ctx, tx.InstructionID)
	}
	return res, err
}

// validateClaimed runs the checks that follow a successful duplicate claim.
func (u *InwardUC) validateClaimed(ctx context.Context, tx *model.NormalizedTransaction) (model.ValidationResult, error) {
	acct, err := u.accounts.ValidateAccount(ctx, *tx.CreditorAccount)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("account validation: %w", err)
	}
	if !acct.Valid {
		return invalidWithDefault(acct, model.ReasonIncorrectAccountNumber), nil
	}

	if tx.Currency != "" && tx.Currency != model.CurrencyPHP {
		return model.InvalidResult(model.ReasonInvalidTransactionCurrency, "InvalidTransactionCurrency"), nil
	}

	bal, err := u.balances.CheckBalance(ctx, tx.CreditorAccount.AccountNumber, tx.Amount)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("balance check: %w", err)
	}
	if !bal.Valid {
		return invalidWithDefault(bal, model.ReasonNotAllowedAmount), nil
	}

	return model.ValidResult(tx), nil
}

// release drops the claim even when ctx is already cancelled or past its
// deadline.
func (u *InwardUC) release(ctx context.Context, instructionID string) {
	r, ok := u.duplicates.(adapter.ClaimReleaser)
	if !ok {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := r.Release(rctx, instructionID); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Str("instruction_id", instructionID).Msg("release duplicate claim")
	}
}

func invalidWithDefault(r model.CheckResult, fallback model.ReasonCode) model.ValidationResult {
	code := r.ReasonCode
	if code == "" {
		code = fallback
	}
	desc := r.ReasonDescription
	if desc == "" {
		desc = code.Description()
	}
	if desc == "" {
		desc = fallback.Description()
	}
	return model.InvalidResult(code, desc)
}

// ProcessTransaction validates payload and, when valid, books it through the
// processor. A processor failure becomes a DS04 rejection: a transfer that
// the business side could not confirm is never accepted.
func (u *InwardUC) ProcessTransaction(ctx context.Context, payload model.Payload) (model.ProcessResult, error) {
	defer logging.TraceDuration(u.log, "InwardUC.ProcessTransaction")()

	v, err := u.Validate(ctx, payload)
	if err != nil {
		return model.ProcessResult{}, err
	}
	if !v.Valid {
		u.log.Info().
			Str("reason_code", string(v.ReasonCode)).
			Str("reason", v.ReasonDescription).
			Msg("inward transaction rejected")
		return model.RejectResult(v.ReasonCode, v.ReasonDescription, ""), nil
	}

	tx := *v.Transaction
	l := logging.With(logging.WithInstructionID(ctx, tx.InstructionID), u.log)

	data, err := u.processor.ProcessTransaction(ctx, tx)
	if err != nil {
		l.Warn().Err(err).Msg("transaction processor failed; rejecting")
		if !errors.Is(err, domain.ErrDuplicateTransaction) {
			u.release(ctx, tx.InstructionID)
		}
		return model.RejectResult(model.ReasonOrderRejected, "OrderRejected", err.Error()), nil
	}

	l.Info().Str("amount", tx.Amount.String()).Msg("inward transaction accepted")
	return model.AcceptResult(tx.InstructionID, data), nil
}
