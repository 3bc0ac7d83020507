package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-core/internal/clock"
	"github.com/spec-kit/commerce-core/internal/events"
	"github.com/spec-kit/commerce-core/internal/repository"
)

// ExpirySweepJob flips time-limited licensed assets whose expiry has passed
// to Expired. Strictly forward-moving: nothing ever leaves Expired here.
type ExpirySweepJob struct {
	clock      clock.Clock
	dispatcher events.Dispatcher
	interval   time.Duration
}

// NewExpirySweepJob constructs the job.
func NewExpirySweepJob(clk clock.Clock, dispatcher events.Dispatcher, interval time.Duration) *ExpirySweepJob {
	return &ExpirySweepJob{
		clock:      clk,
		dispatcher: dispatcher,
		interval:   interval,
	}
}

func (j *ExpirySweepJob) Name() string { return "expiry_sweep" }

func (j *ExpirySweepJob) Interval() time.Duration { return j.interval }

func (j *ExpirySweepJob) Execute(ctx context.Context, tx pgx.Tx) (int, error) {
	licenses := repository.NewLicenseRepository(tx)
	now := j.clock.Now()

	keys, err := licenses.ExpireOverdueKeys(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expire license keys: %w", err)
	}
	accounts, err := licenses.ExpireOverdueAccounts(ctx, now)
	if err != nil {
		return int(keys), fmt.Errorf("expire accounts: %w", err)
	}

	publish(ctx, j.dispatcher, events.EventAssetsExpired, j.Name(), now, events.AssetsExpiredPayload{
		Keys:     keys,
		Accounts: accounts,
	})
	return int(keys + accounts), nil
}
