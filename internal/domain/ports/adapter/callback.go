package adapter

import (
	"context"
	"time"

	"instapay-callback/internal/domain/model"
)

// ServiceResponseHandler consumes status updates for outward transfers.
type ServiceResponseHandler interface {
	HandleServiceResponse(ctx context.Context, payload model.Payload) (any, error)
}

// ServiceRequestHandler decides on an inward payload without the built-in
// validation chain.
type ServiceRequestHandler interface {
	HandleServiceRequest(ctx context.Context, payload model.Payload) (model.RequestDecision, error)
}

// InwardHandler runs validation and processing for an inward payload.
type InwardHandler interface {
	ProcessTransaction(ctx context.Context, payload model.Payload) (model.ProcessResult, error)
}

// TokenIssuer signs and checks the bearer tokens exchanged with the gateway.
type TokenIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
	Verify(token string) bool
}

type ServiceResponseHandlerFunc func(ctx context.Context, payload model.Payload) (any, error)

func (f ServiceResponseHandlerFunc) HandleServiceResponse(ctx context.Context, payload model.Payload) (any, error) {
	return f(ctx, payload)
}

type ServiceRequestHandlerFunc func(ctx context.Context, payload model.Payload) (model.RequestDecision, error)

func (f ServiceRequestHandlerFunc) HandleServiceRequest(ctx context.Context, payload model.Payload) (model.RequestDecision, error) {
	return f(ctx, payload)
}
