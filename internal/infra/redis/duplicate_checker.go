package redis

import (
	"context"
	"time"

	"instapay-callback/internal/domain/ports/adapter"
	"instapay-callback/internal/infra/metrics"
)

var (
	_ adapter.DuplicateChecker = (*DuplicateChecker)(nil)
	_ adapter.ClaimReleaser    = (*DuplicateChecker)(nil)
)

// DuplicateChecker claims instruction ids with SET NX. The first caller for
// an id wins the claim; every later caller, concurrent or not, sees a
// duplicate until the TTL expires.
type DuplicateChecker struct {
	client RedisClient
	ttl    time.Duration
}

func NewDuplicateChecker(client RedisClient, ttl time.Duration) *DuplicateChecker {
	return &DuplicateChecker{client: client, ttl: ttl}
}

func (d *DuplicateChecker) IsDuplicate(ctx context.Context, instructionID string) (bool, error) {
	claimed, err := d.client.SetNX(ctx, InstructionKey(instructionID), time.Now().Unix(), d.ttl)
	if err != nil {
		metrics.ObserveDuplicateClaim("error")
		return false, err
	}
	if !claimed {
		metrics.ObserveDuplicateClaim("duplicate")
		return true, nil
	}
	metrics.ObserveDuplicateClaim("claimed")
	return false, nil
}

// Release drops the claim on an instruction id so the gateway may retry it.
func (d *DuplicateChecker) Release(ctx context.Context, instructionID string) error {
	return d.client.Del(ctx, InstructionKey(instructionID))
}

func InstructionKey(instructionID string) string {
	return "instapay:instruction:" + instructionID
}
