//go:build !integration

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
)

func TestOutwardStatusUC_HandleServiceResponse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemOutwardRepo("O1")
	uc := NewOutwardStatusUseCase(repo, nil)
	received := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return received }

	out, err := uc.HandleServiceResponse(ctx, model.Payload{
		"instruction_id":     "O1",
		"status":             "RJCT",
		"reason_code":        "AC04",
		"reason_description": "ClosedAccountNumber",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"instruction_id": "O1",
		"status":         "processed",
		"message":        "Transaction status updated successfully",
	}, out)

	require.Len(t, repo.updates, 1)
	assert.Equal(t, model.OutwardStatusUpdate{
		InstructionID:     "O1",
		Status:            "RJCT",
		ReasonCode:        model.ReasonClosedAccountNumber,
		ReasonDescription: "ClosedAccountNumber",
		ReceivedAt:        received,
	}, repo.updates[0])

	_, err = uc.HandleServiceResponse(ctx, model.Payload{"instruction_id": "unknown"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.HandleServiceResponse(ctx, model.Payload{"status": "ACTC"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOutwardStatusUC_ThroughDispatcher(t *testing.T) {
	t.Parallel()

	repo := newMemOutwardRepo("O1")
	uc := NewCallbackUseCase(CallbackConfig{ResponseHandler: NewOutwardStatusUseCase(repo, nil)}, nil)

	env, err := uc.Dispatch(context.Background(), "service-responses", model.Payload{"InstructionId": "O1", "TransactionStatus": "ACTC"})
	require.NoError(t, err)
	assert.Equal(t, "200", env.Code)

	env, err = uc.Dispatch(context.Background(), "service-responses", model.Payload{"instruction_id": "O9"})
	require.NoError(t, err)
	assert.Equal(t, "500", env.Code)
	assert.Equal(t, domain.ErrNotFound.Error(), env.Message)
}
