//go:build !integration

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/adapter"
)

func TestRoute(t *testing.T) {
	cases := map[string]Flow{
		"GetToken":                                 FlowGetToken,
		"/ips-payments/service-responses/GetToken": FlowGetToken,
		"service-responses":                        FlowServiceResponses,
		"/ips-payments/service-responses":          FlowServiceResponses,
		"service-requests":                         FlowServiceRequests,
		"/ips-payments/service-requests":           FlowServiceRequests,
	}
	for endpoint, want := range cases {
		got, ok := Route(endpoint)
		if !ok || got != want {
			t.Errorf("Route(%q) = %q,%v; want %q", endpoint, got, ok, want)
		}
	}
	for _, endpoint := range []string{"foo", "gettoken", "/ips-payments/service-requests/", ""} {
		if _, ok := Route(endpoint); ok {
			t.Errorf("Route(%q) should not match", endpoint)
		}
	}
}

func TestCallbackUC_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	uc := NewCallbackUseCase(CallbackConfig{Tokens: &fakeTokens{}}, nil)
	_, err := uc.Dispatch(context.Background(), "foo", model.Payload{})
	require.ErrorIs(t, err, domain.ErrUnknownEndpoint)
}

func TestCallbackUC_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("uses partner uuid as subject", func(t *testing.T) {
		tokens := &fakeTokens{}
		uc := NewCallbackUseCase(CallbackConfig{Tokens: tokens}, nil)

		env, err := uc.Dispatch(context.Background(), "GetToken", model.Payload{"partner_uuid": "P-1"})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeTokenIssued, env.Outcome)
		assert.Equal(t, "201", env.Code)
		assert.Equal(t, "Success", env.Status)
		assert.Equal(t, "tok-P-1", env.Token)
		assert.Equal(t, map[string]any{"message": "Approved"}, env.Data)
		assert.True(t, uc.VerifyToken(env.Token))
	})

	t.Run("generates a subject when none is given", func(t *testing.T) {
		tokens := &fakeTokens{}
		uc := NewCallbackUseCase(CallbackConfig{
			Tokens:       tokens,
			NewSubjectID: func() string { return "generated" },
		}, nil)

		env, err := uc.Dispatch(context.Background(), "/ips-payments/service-responses/GetToken", nil)
		require.NoError(t, err)
		assert.Equal(t, "tok-generated", env.Token)
		assert.Equal(t, []string{"generated"}, tokens.subjects)
	})

	t.Run("without signer", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{}, nil)
		_, err := uc.Dispatch(context.Background(), "GetToken", model.Payload{})
		require.ErrorIs(t, err, domain.ErrSigningUnavailable)
		assert.False(t, uc.VerifyToken("anything"))
	})

	t.Run("signer failure", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{Tokens: &fakeTokens{err: errBoom}}, nil)
		_, err := uc.Dispatch(context.Background(), "GetToken", model.Payload{})
		require.ErrorIs(t, err, errBoom)
	})
}

func TestCallbackUC_ServiceResponses(t *testing.T) {
	t.Parallel()

	echo := adapter.ServiceResponseHandlerFunc(func(_ context.Context, p model.Payload) (any, error) {
		return map[string]any{"seen": ExtractInstructionID(p)}, nil
	})

	t.Run("success", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{ResponseHandler: echo}, nil)
		env, err := uc.Dispatch(context.Background(), "service-responses", model.Payload{"instruction_id": "O1"})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeSuccess, env.Outcome)
		assert.Equal(t, "200", env.Code)
		assert.Equal(t, "Success", env.Status)
		assert.Equal(t, map[string]any{"seen": "O1"}, env.Data)
	})

	t.Run("nested id", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{ResponseHandler: echo}, nil)
		env, err := uc.Dispatch(context.Background(), "service-responses", model.Payload{"data": map[string]any{"instruction_id": "O2"}})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeSuccess, env.Outcome)
	})

	t.Run("missing instruction id", func(t *testing.T) {
		called := false
		uc := NewCallbackUseCase(CallbackConfig{
			ResponseHandler: adapter.ServiceResponseHandlerFunc(func(context.Context, model.Payload) (any, error) {
				called = true
				return nil, nil
			}),
		}, nil)
		env, err := uc.Dispatch(context.Background(), "service-responses", model.Payload{"status": "ACTC"})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeError, env.Outcome)
		assert.Equal(t, "400", env.Code)
		assert.Equal(t, "Error", env.Status)
		assert.Equal(t, "Missing instruction_id", env.Message)
		assert.False(t, called)
	})

	t.Run("handler error", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{
			ResponseHandler: adapter.ServiceResponseHandlerFunc(func(context.Context, model.Payload) (any, error) {
				return nil, errBoom
			}),
		}, nil)
		env, err := uc.Dispatch(context.Background(), "service-responses", model.Payload{"instruction_id": "O1"})
		require.NoError(t, err)
		assert.Equal(t, "500", env.Code)
		assert.Equal(t, "Error", env.Status)
		assert.Equal(t, "boom", env.Message)
	})

	t.Run("not configured", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{}, nil)
		_, err := uc.Dispatch(context.Background(), "service-responses", model.Payload{"instruction_id": "O1"})
		require.ErrorIs(t, err, domain.ErrHandlerNotConfigured)
	})
}

type stubInward struct {
	res model.ProcessResult
	err error
}

func (s stubInward) ProcessTransaction(context.Context, model.Payload) (model.ProcessResult, error) {
	return s.res, s.err
}

func TestCallbackUC_ServiceRequests(t *testing.T) {
	t.Parallel()

	t.Run("inward accepted with default data", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{InwardHandler: NewInwardUseCase(adapter.InwardCapabilities{}, nil)}, nil)
		env, err := uc.Dispatch(context.Background(), "service-requests", validPayload("I1"))
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeAccepted, env.Outcome)
		assert.Equal(t, "ACTC", env.Code)
		assert.Equal(t, "Accepted", env.Status)
		assert.Equal(t, []any{}, env.Data)
	})

	t.Run("inward rejected", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{InwardHandler: NewInwardUseCase(adapter.InwardCapabilities{}, nil)}, nil)
		env, err := uc.Dispatch(context.Background(), "/ips-payments/service-requests", model.Payload{"amount": 0})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeRejected, env.Outcome)
		assert.Equal(t, "RJCT", env.Code)
		assert.Equal(t, "Rejected", env.Status)
		assert.Equal(t, model.ReasonInvalidAmount, env.ReasonCode)
	})

	t.Run("inward reject without code uses defaults", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{InwardHandler: stubInward{res: model.ProcessResult{Reject: true}}}, nil)
		env, err := uc.Dispatch(context.Background(), "service-requests", model.Payload{})
		require.NoError(t, err)
		assert.Equal(t, model.ReasonOrderRejected, env.ReasonCode)
		assert.Equal(t, "OrderRejected", env.ReasonDescription)
	})

	t.Run("inward error becomes DS04", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{InwardHandler: stubInward{err: errBoom}}, nil)
		env, err := uc.Dispatch(context.Background(), "service-requests", model.Payload{})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeRejected, env.Outcome)
		assert.Equal(t, model.ReasonOrderRejected, env.ReasonCode)
		assert.Equal(t, "boom", env.Message)
	})

	t.Run("inward handler takes precedence", func(t *testing.T) {
		requestCalled := false
		uc := NewCallbackUseCase(CallbackConfig{
			InwardHandler: stubInward{res: model.AcceptResult("I1", "booked")},
			RequestHandler: adapter.ServiceRequestHandlerFunc(func(context.Context, model.Payload) (model.RequestDecision, error) {
				requestCalled = true
				return model.RequestDecision{}, nil
			}),
		}, nil)
		env, err := uc.Dispatch(context.Background(), "service-requests", model.Payload{})
		require.NoError(t, err)
		assert.Equal(t, "booked", env.Data)
		assert.False(t, requestCalled)
	})

	t.Run("request handler fallback", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{
			RequestHandler: adapter.ServiceRequestHandlerFunc(func(context.Context, model.Payload) (model.RequestDecision, error) {
				return model.RequestDecision{Reject: true, ReasonCode: model.ReasonClosedAccountNumber}, nil
			}),
		}, nil)
		env, err := uc.Dispatch(context.Background(), "service-requests", model.Payload{})
		require.NoError(t, err)
		assert.Equal(t, model.ReasonClosedAccountNumber, env.ReasonCode)
		assert.Equal(t, "OrderRejected", env.ReasonDescription)
	})

	t.Run("request handler error", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{
			RequestHandler: adapter.ServiceRequestHandlerFunc(func(context.Context, model.Payload) (model.RequestDecision, error) {
				return model.RequestDecision{}, errBoom
			}),
		}, nil)
		env, err := uc.Dispatch(context.Background(), "service-requests", model.Payload{})
		require.NoError(t, err)
		assert.Equal(t, model.ReasonOrderRejected, env.ReasonCode)
	})

	t.Run("nothing configured", func(t *testing.T) {
		uc := NewCallbackUseCase(CallbackConfig{}, nil)
		_, err := uc.Dispatch(context.Background(), "service-requests", model.Payload{})
		require.ErrorIs(t, err, domain.ErrHandlerNotConfigured)
	})
}
