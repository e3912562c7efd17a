package model

// Outcome tags which variant of the callback response an Envelope holds.
type Outcome string

const (
	OutcomeTokenIssued Outcome = "token_issued"
	OutcomeSuccess     Outcome = "success"
	OutcomeAccepted    Outcome = "accepted"
	OutcomeRejected    Outcome = "rejected"
	OutcomeError       Outcome = "error"
)

// Envelope is the protocol response returned to the gateway for a callback.
type Envelope struct {
	Outcome Outcome `json:"-"`

	Code              string     `json:"code"`
	Status            string     `json:"status"`
	Token             string     `json:"token,omitempty"`
	ReasonCode        ReasonCode `json:"reason_code,omitempty"`
	ReasonDescription string     `json:"reason_description,omitempty"`
	Message           string     `json:"message,omitempty"`
	Data              any        `json:"data,omitempty"`
}

func TokenEnvelope(token string) Envelope {
	return Envelope{
		Outcome: OutcomeTokenIssued,
		Code:    ResponseCodeSuccess,
		Status:  StatusSuccess,
		Token:   token,
		Data:    map[string]any{"message": "Approved"},
	}
}

func SuccessEnvelope(data any) Envelope {
	return Envelope{Outcome: OutcomeSuccess, Code: ResponseCodeOK, Status: StatusSuccess, Data: data}
}

func AcceptedEnvelope(data any) Envelope {
	if data == nil {
		data = []any{}
	}
	return Envelope{Outcome: OutcomeAccepted, Code: StatusACTC, Status: StatusAccepted, Data: data}
}

// RejectedEnvelope fills in DS04/OrderRejected when the code or description
// is missing.
func RejectedEnvelope(code ReasonCode, description, message string) Envelope {
	if code == "" {
		code = ReasonOrderRejected
	}
	if description == "" {
		description = ReasonOrderRejected.Description()
	}
	return Envelope{
		Outcome:           OutcomeRejected,
		Code:              StatusRJCT,
		Status:            StatusRejected,
		ReasonCode:        code,
		ReasonDescription: description,
		Message:           message,
	}
}

func ErrorEnvelope(code, message string) Envelope {
	return Envelope{Outcome: OutcomeError, Code: code, Status: StatusError, Message: message}
}
