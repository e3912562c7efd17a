package model

// ReasonCode is a rejection code from the payment-scheme taxonomy.
type ReasonCode string

const (
	ReasonIncorrectAccountNumber     ReasonCode = "AC01"
	ReasonInvalidCreditorAccount     ReasonCode = "AC03"
	ReasonClosedAccountNumber        ReasonCode = "AC04"
	ReasonNotAllowedAmount           ReasonCode = "AM02"
	ReasonInsufficientFunds          ReasonCode = "AM04"
	ReasonWrongAmount                ReasonCode = "AM09"
	ReasonInvalidTransactionCurrency ReasonCode = "AM11"
	ReasonInvalidAmount              ReasonCode = "AM12"
	ReasonDuplicateTransaction       ReasonCode = "DU03"
	ReasonOrderRejected              ReasonCode = "DS04"
)

var reasonDescriptions = map[ReasonCode]string{
	ReasonIncorrectAccountNumber:     "IncorrectAccountNumber",
	ReasonInvalidCreditorAccount:     "InvalidCreditorAccountNumber",
	ReasonClosedAccountNumber:        "ClosedAccountNumber",
	ReasonNotAllowedAmount:           "NotAllowedAmount",
	ReasonInsufficientFunds:          "InsufficientFunds",
	ReasonWrongAmount:                "WrongAmount",
	ReasonInvalidTransactionCurrency: "InvalidTransactionCurrency",
	ReasonInvalidAmount:              "InvalidAmount",
	ReasonDuplicateTransaction:       "DuplicateTransaction",
	ReasonOrderRejected:              "OrderRejected",
}

// Description returns the scheme name of the code, or "" for codes outside the taxonomy.
func (c ReasonCode) Description() string { return reasonDescriptions[c] }

// Known reports whether c belongs to the taxonomy.
func (c ReasonCode) Known() bool {
	_, ok := reasonDescriptions[c]
	return ok
}

// Transaction status codes used in callback envelopes.
const (
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
	StatusSuccess  = "Success"
	StatusError    = "Error"

	StatusACTC = "ACTC"
	StatusRJCT = "RJCT"
)

// Response codes.
const (
	ResponseCodeOK               = "200"
	ResponseCodeSuccess          = "201"
	ResponseCodeError            = "400"
	ResponseCodeUnauthorized     = "401"
	ResponseCodeNotFound         = "404"
	ResponseCodeMethodNotAllowed = "405"
	ResponseCodeInternalError    = "500"
)

// Account types accepted for inward credit.
const (
	AccountTypeSavings = "SA"
	AccountTypeCurrent = "CA"
)

// CurrencyPHP is the only settlement currency.
const CurrencyPHP = "PHP"

// Callback endpoints. Each flow answers to a logical name and a full path.
const (
	EndpointGetToken             = "GetToken"
	EndpointGetTokenPath         = "/ips-payments/service-responses/GetToken"
	EndpointServiceResponses     = "service-responses"
	EndpointServiceResponsesPath = "/ips-payments/service-responses"
	EndpointServiceRequests      = "service-requests"
	EndpointServiceRequestsPath  = "/ips-payments/service-requests"
)
