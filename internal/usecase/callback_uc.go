// File: internal/usecase/callback_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/adapter"
	"instapay-callback/internal/infra/logging"
)

// Flow names one of the callback flows a request can be routed to.
type Flow string

const (
	FlowGetToken         Flow = "get_token"
	FlowServiceResponses Flow = "service_responses"
	FlowServiceRequests  Flow = "service_requests"
)

// routes maps endpoint identifiers to flows. Matching is exact and
// case-sensitive; there is no fallback.
var routes = map[string]Flow{
	model.EndpointGetToken:             FlowGetToken,
	model.EndpointGetTokenPath:         FlowGetToken,
	model.EndpointServiceResponses:     FlowServiceResponses,
	model.EndpointServiceResponsesPath: FlowServiceResponses,
	model.EndpointServiceRequests:      FlowServiceRequests,
	model.EndpointServiceRequestsPath:  FlowServiceRequests,
}

// Route resolves an endpoint to its flow.
func Route(endpoint string) (Flow, bool) {
	f, ok := routes[endpoint]
	return f, ok
}

// CallbackConfig is the fixed set of collaborators a dispatcher works with.
// Everything except Tokens is optional; a flow whose collaborator is missing
// fails with domain.ErrHandlerNotConfigured.
type CallbackConfig struct {
	Tokens          adapter.TokenIssuer
	ResponseHandler adapter.ServiceResponseHandler
	InwardHandler   adapter.InwardHandler
	RequestHandler  adapter.ServiceRequestHandler
	NewSubjectID    func() string // defaults to uuid.NewString
}

// Compile-time check
var _ CallbackUseCase = (*CallbackUC)(nil)

type CallbackUseCase interface {
	// Dispatch routes one callback and returns its envelope. Errors are
	// reserved for configuration problems and unknown endpoints.
	Dispatch(ctx context.Context, endpoint string, payload model.Payload) (model.Envelope, error)
	// VerifyToken checks a bearer token previously issued by GetToken.
	VerifyToken(token string) bool
}

// CallbackUC is stateless between calls; it only reads its configuration.
type CallbackUC struct {
	cfg CallbackConfig
	log *zerolog.Logger
}

func NewCallbackUseCase(cfg CallbackConfig, logger *zerolog.Logger) *CallbackUC {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.NewSubjectID == nil {
		cfg.NewSubjectID = uuid.NewString
	}
	return &CallbackUC{cfg: cfg, log: logger}
}

func (u *CallbackUC) Dispatch(ctx context.Context, endpoint string, payload model.Payload) (model.Envelope, error) {
	flow, ok := Route(endpoint)
	if !ok {
		return model.Envelope{}, fmt.Errorf("%w: %s", domain.ErrUnknownEndpoint, endpoint)
	}
	if payload == nil {
		payload = model.Payload{}
	}

	ctx = logging.WithEndpoint(ctx, endpoint)
	switch flow {
	case FlowGetToken:
		return u.handleGetToken(ctx, payload)
	case FlowServiceResponses:
		return u.handleServiceResponse(ctx, payload)
	default:
		return u.handleServiceRequest(ctx, payload)
	}
}

func (u *CallbackUC) VerifyToken(token string) bool {
	if u.cfg.Tokens == nil {
		return false
	}
	return u.cfg.Tokens.Verify(token)
}

func (u *CallbackUC) handleGetToken(ctx context.Context, payload model.Payload) (model.Envelope, error) {
	if u.cfg.Tokens == nil {
		return model.Envelope{}, domain.ErrSigningUnavailable
	}
	subject := ""
	if v, ok := payload.Lookup(model.Path{"partner_uuid"}); ok {
		subject, _ = model.ScalarString(v)
	}
	if subject == "" {
		subject = u.cfg.NewSubjectID()
	}

	token, exp, err := u.cfg.Tokens.Issue(subject)
	if err != nil {
		return model.Envelope{}, fmt.Errorf("issue token: %w", err)
	}
	logging.With(ctx, u.log).Debug().Time("expires_at", exp).Msg("token issued")
	return model.TokenEnvelope(token), nil
}

func (u *CallbackUC) handleServiceResponse(ctx context.Context, payload model.Payload) (model.Envelope, error) {
	if u.cfg.ResponseHandler == nil {
		return model.Envelope{}, fmt.Errorf("%w: service response handler", domain.ErrHandlerNotConfigured)
	}

	id := firstString(payload, statusUpdateIDRules)
	if id == "" {
		return model.ErrorEnvelope(model.ResponseCodeError, "Missing instruction_id"), nil
	}
	ctx = logging.WithInstructionID(ctx, id)

	result, err := u.cfg.ResponseHandler.HandleServiceResponse(ctx, payload)
	if err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("service response handler failed")
		return model.ErrorEnvelope(model.ResponseCodeInternalError, err.Error()), nil
	}
	return model.SuccessEnvelope(result), nil
}

func (u *CallbackUC) handleServiceRequest(ctx context.Context, payload model.Payload) (model.Envelope, error) {
	if u.cfg.InwardHandler != nil {
		res, err := u.cfg.InwardHandler.ProcessTransaction(ctx, payload)
		if err != nil {
			logging.With(ctx, u.log).Warn().Err(err).Msg("inward handler failed")
			return model.RejectedEnvelope(model.ReasonOrderRejected, "OrderRejected", err.Error()), nil
		}
		if res.Reject {
			return model.RejectedEnvelope(res.ReasonCode, res.ReasonDescription, res.Message), nil
		}
		return model.AcceptedEnvelope(res.Data), nil
	}

	if u.cfg.RequestHandler == nil {
		return model.Envelope{}, fmt.Errorf("%w: service request handler or inward handler", domain.ErrHandlerNotConfigured)
	}
	dec, err := u.cfg.RequestHandler.HandleServiceRequest(ctx, payload)
	if err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("service request handler failed")
		return model.RejectedEnvelope(model.ReasonOrderRejected, "OrderRejected", err.Error()), nil
	}
	if dec.Reject {
		return model.RejectedEnvelope(dec.ReasonCode, dec.ReasonDescription, ""), nil
	}
	return model.AcceptedEnvelope(dec.Data), nil
}
