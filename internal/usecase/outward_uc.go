// File: internal/usecase/outward_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/adapter"
	"instapay-callback/internal/domain/ports/repository"
	"instapay-callback/internal/infra/logging"
)

var _ adapter.ServiceResponseHandler = (*OutwardStatusUC)(nil)

// OutwardStatusUC records gateway status reports for outward transfers.
type OutwardStatusUC struct {
	outward repository.OutwardTransactionRepository
	now     func() time.Time
	log     *zerolog.Logger
}

func NewOutwardStatusUseCase(outward repository.OutwardTransactionRepository, logger *zerolog.Logger) *OutwardStatusUC {
	if logger == nil {
		logger = logging.Nop()
	}
	return &OutwardStatusUC{outward: outward, now: time.Now, log: logger}
}

// ParseStatusUpdate reads the instruction id, status and reason from a
// service-responses payload in any of its supported shapes.
func ParseStatusUpdate(payload model.Payload) model.OutwardStatusUpdate {
	return model.OutwardStatusUpdate{
		InstructionID:     firstString(payload, statusUpdateIDRules),
		Status:            firstString(payload, statusRules),
		ReasonCode:        model.ReasonCode(firstString(payload, reasonCodeRules)),
		ReasonDescription: firstString(payload, reasonDescRules),
	}
}

func (u *OutwardStatusUC) HandleServiceResponse(ctx context.Context, payload model.Payload) (any, error) {
	defer logging.TraceDuration(u.log, "OutwardStatusUC.HandleServiceResponse")()

	upd := ParseStatusUpdate(payload)
	if upd.InstructionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	upd.ReceivedAt = u.now()

	if err := u.outward.UpdateStatus(ctx, nil, upd); err != nil {
		return nil, err
	}
	logging.With(ctx, u.log).Info().
		Str("status", upd.Status).
		Str("reason_code", string(upd.ReasonCode)).
		Str("reason_description", upd.ReasonDescription).
		Msg("outward status updated")

	return map[string]any{
		"instruction_id": upd.InstructionID,
		"status":         "processed",
		"message":        "Transaction status updated successfully",
	}, nil
}
