package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"instapay-callback/internal/domain"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/domain/ports/repository"
)

var _ repository.OutwardTransactionRepository = (*outwardRepo)(nil)

type outwardRepo struct{ pool *pgxpool.Pool }

func NewOutwardRepo(pool *pgxpool.Pool) *outwardRepo {
	return &outwardRepo{pool: pool}
}

func (r *outwardRepo) UpdateStatus(ctx context.Context, tx repository.Tx, u model.OutwardStatusUpdate) error {
	const q = `UPDATE outward_transactions
		SET status=$2, reason_code=NULLIF($3,''), reason_description=NULLIF($4,''), status_received_at=$5, updated_at=NOW()
		WHERE instruction_id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, u.InstructionID, u.Status, string(u.ReasonCode), u.ReasonDescription, u.ReceivedAt)
	if err != nil {
		if isExecContextErr(err) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
