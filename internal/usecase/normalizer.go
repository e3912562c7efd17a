package usecase

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"instapay-callback/internal/domain/model"
)

// Extraction rules. Each table is evaluated first-match-wins: the first path
// holding a non-null value decides the field, later paths are never merged in.
var (
	instructionIDRules = paths(
		"instruction_id",
		"InstructionId",
		"InstrId",
		"data.instruction_id",
		"data.InstrId",
		"GrpHdr.MsgId",
	)

	amountRules = paths(
		"amount",
		"TtlIntrBkSttlmAmt",
		"InstdAmt._value",
		"data.amount",
		"data.TtlIntrBkSttlmAmt",
		"CdtTrfTxInf.InstdAmt._value",
	)

	currencyRules = paths(
		"currency",
		"InstdAmt._Ccy",
		"data.currency",
		"CdtTrfTxInf.InstdAmt._Ccy",
	)

	creditorObjectRules = paths(
		"creditor_account",
		"creditorAccount",
		"data.creditor_account",
		"CdtTrfTxInf.CdtrAcct",
	)

	debtorObjectRules = paths(
		"debtor_account",
		"debtorAccount",
		"data.debtor_account",
		"CdtTrfTxInf.DbtrAcct",
	)

	// inside a nested account object
	accountNumberRules = paths("account_number", "Id.Othr.Id", "Id._Id")
	accountTypeRules   = paths("account_type", "Tp.Cd")
	bankCodeRules      = paths("bank_code", "bankCode")
	accountNameRules   = paths("account_name", "Nm")
	bankNameRules      = paths("bank_name")

	// status-update probing for the service-responses flow
	statusUpdateIDRules = paths("instruction_id", "InstructionId", "data.instruction_id")
	statusRules         = paths("status", "TransactionStatus", "data.status")
	reasonCodeRules     = paths("reason_code", "ReasonCode", "data.reason_code")
	reasonDescRules     = paths("reason_description", "ReasonDescription", "data.reason_description")
)

// flattened partner-callback shape
var (
	flatCreditorNumber = model.ParsePath("data.CdtrAcctId")
	flatCreditorName   = model.ParsePath("data.CdtrNm")
	flatDebtorNumber   = model.ParsePath("data.DBtrAcctId")
	flatDebtorName     = model.ParsePath("data.DbtrNm")
	flatDebtorBIC      = model.ParsePath("data.DBtrAgrBICFI")
)

func paths(keys ...string) []model.Path {
	out := make([]model.Path, len(keys))
	for i, k := range keys {
		out[i] = model.ParsePath(k)
	}
	return out
}

// firstString returns the winning value of rules rendered as a string. A
// winning value that is not a scalar yields "".
func firstString(p model.Payload, rules []model.Path) string {
	v, _, ok := p.First(rules)
	if !ok {
		return ""
	}
	s, _ := model.ScalarString(v)
	return s
}

// ExtractInstructionID returns the instruction id, or "" when absent.
func ExtractInstructionID(p model.Payload) string {
	return firstString(p, instructionIDRules)
}

// ExtractAmount returns the amount. A non-numeric winning value counts as
// absent.
func ExtractAmount(p model.Payload) (decimal.Decimal, bool) {
	v, _, ok := p.First(amountRules)
	if !ok {
		return decimal.Decimal{}, false
	}
	return model.Numeric(v)
}

// ExtractCurrency returns the currency, defaulting to PHP when no rule
// matches. A winning value that is an object or array is returned as its JSON
// text, so it never passes for PHP.
func ExtractCurrency(p model.Payload) string {
	v, _, ok := p.First(currencyRules)
	if !ok {
		return model.CurrencyPHP
	}
	if s, ok := model.ScalarString(v); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil || len(raw) == 0 {
		return "invalid"
	}
	return string(raw)
}

// ExtractCreditorAccount resolves the creditor from a nested account object
// or from the flattened partner-callback fields. Nil when neither is present.
func ExtractCreditorAccount(p model.Payload) *model.Account {
	if obj, ok := firstObject(p, creditorObjectRules); ok {
		return accountFromObject(obj, false)
	}
	if v, ok := p.Lookup(flatCreditorNumber); ok {
		num, _ := model.ScalarString(v)
		name, _ := lookupString(p, flatCreditorName)
		return &model.Account{AccountNumber: num, AccountName: name}
	}
	return nil
}

// ExtractDebtorAccount mirrors ExtractCreditorAccount for the paying side.
func ExtractDebtorAccount(p model.Payload) *model.Account {
	if obj, ok := firstObject(p, debtorObjectRules); ok {
		return accountFromObject(obj, true)
	}
	if v, ok := p.Lookup(flatDebtorNumber); ok {
		num, _ := model.ScalarString(v)
		name, _ := lookupString(p, flatDebtorName)
		bic, _ := lookupString(p, flatDebtorBIC)
		return &model.Account{AccountNumber: num, AccountName: name, BankCode: bic}
	}
	return nil
}

// Normalize extracts every field of a transaction from p. Fields that cannot
// be resolved are left zero; the validator decides what is fatal.
func Normalize(p model.Payload) model.NormalizedTransaction {
	amount, _ := ExtractAmount(p)
	return model.NormalizedTransaction{
		InstructionID:   ExtractInstructionID(p),
		Amount:          amount,
		Currency:        ExtractCurrency(p),
		CreditorAccount: ExtractCreditorAccount(p),
		DebtorAccount:   ExtractDebtorAccount(p),
	}
}

// firstObject applies first-match-wins to rules, but only a non-empty object
// counts as a match for the nested account shape.
func firstObject(p model.Payload, rules []model.Path) (model.Payload, bool) {
	_, path, ok := p.First(rules)
	if !ok {
		return nil, false
	}
	obj, ok := p.Object(path)
	if !ok || len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

func accountFromObject(obj model.Payload, withBankName bool) *model.Account {
	a := &model.Account{
		AccountNumber: firstString(obj, accountNumberRules),
		AccountType:   firstString(obj, accountTypeRules),
		BankCode:      firstString(obj, bankCodeRules),
		AccountName:   firstString(obj, accountNameRules),
	}
	if withBankName {
		a.BankName = firstString(obj, bankNameRules)
	}
	return a
}

func lookupString(p model.Payload, path model.Path) (string, bool) {
	v, ok := p.Lookup(path)
	if !ok {
		return "", false
	}
	return model.ScalarString(v)
}
