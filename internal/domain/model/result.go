package model

// ValidationResult is the verdict of the inward validation chain. Exactly one
// of Transaction (valid) or ReasonCode (invalid) is meaningful.
type ValidationResult struct {
	Valid             bool
	Transaction       *NormalizedTransaction
	ReasonCode        ReasonCode
	ReasonDescription string
}

func ValidResult(tx *NormalizedTransaction) ValidationResult {
	return ValidationResult{Valid: true, Transaction: tx}
}

func InvalidResult(code ReasonCode, description string) ValidationResult {
	return ValidationResult{ReasonCode: code, ReasonDescription: description}
}

// CheckResult is returned by account and balance collaborators. Empty
// ReasonCode or ReasonDescription on an invalid result means the caller's
// default applies.
type CheckResult struct {
	Valid             bool
	ReasonCode        ReasonCode
	ReasonDescription string
}

// Pass is a valid CheckResult.
var Pass = CheckResult{Valid: true}

// Fail builds an invalid CheckResult.
func Fail(code ReasonCode, description string) CheckResult {
	return CheckResult{ReasonCode: code, ReasonDescription: description}
}

// ProcessResult is the outcome of handling one inward transaction.
type ProcessResult struct {
	Reject            bool       `json:"reject"`
	Status            string     `json:"status,omitempty"`
	InstructionID     string     `json:"instruction_id,omitempty"`
	ReasonCode        ReasonCode `json:"reason_code,omitempty"`
	ReasonDescription string     `json:"reason_description,omitempty"`
	Message           string     `json:"message,omitempty"`
	Data              any        `json:"data,omitempty"`
}

// RejectResult builds a rejected ProcessResult.
func RejectResult(code ReasonCode, description, message string) ProcessResult {
	return ProcessResult{Reject: true, ReasonCode: code, ReasonDescription: description, Message: message}
}

// AcceptResult builds an accepted ProcessResult.
func AcceptResult(instructionID string, data any) ProcessResult {
	return ProcessResult{Status: "accepted", InstructionID: instructionID, Data: data}
}

// RequestDecision is what a plain service-request handler answers for an
// inward payload.
type RequestDecision struct {
	Reject            bool
	ReasonCode        ReasonCode
	ReasonDescription string
	Data              any
}
