package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account identifies one side of a transfer. Every field is optional; an
// empty string means the payload did not carry it.
type Account struct {
	AccountNumber string `json:"account_number,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
	BankCode      string `json:"bank_code,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// HasNumber reports whether the account carries an account number.
func (a *Account) HasNumber() bool { return a != nil && a.AccountNumber != "" }

// NormalizedTransaction is the shape-independent view of an inward payment
// request.
type NormalizedTransaction struct {
	InstructionID   string          `json:"instruction_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	CreditorAccount *Account        `json:"creditor_account,omitempty"`
	DebtorAccount   *Account        `json:"debtor_account,omitempty"`
}

type InwardStatus string

const (
	InwardStatusCredited InwardStatus = "credited"
)

// InwardTransaction is the ledger record of an accepted inward payment.
type InwardTransaction struct {
	ID              string
	InstructionID   string
	Amount          decimal.Decimal
	Currency        string
	CreditorAccount string
	CreditorType    string
	DebtorAccount   string
	DebtorBank      string
	DebtorName      string
	Status          InwardStatus
	CreatedAt       time.Time
}

type LedgerAccountStatus string

const (
	LedgerAccountActive LedgerAccountStatus = "active"
	LedgerAccountClosed LedgerAccountStatus = "closed"
)

// LedgerAccount is an account owned by the operator that can receive inward
// credits.
type LedgerAccount struct {
	AccountNumber string
	AccountType   string
	AccountName   string
	Status        LedgerAccountStatus
	Balance       decimal.Decimal
	DailyLimit    decimal.Decimal // zero means no limit
	UpdatedAt     time.Time
}

// OutwardStatusUpdate is a gateway status report for a transfer this system
// initiated.
type OutwardStatusUpdate struct {
	InstructionID     string
	Status            string // Accepted | ACTC | RJCT
	ReasonCode        ReasonCode
	ReasonDescription string
	ReceivedAt        time.Time
}
