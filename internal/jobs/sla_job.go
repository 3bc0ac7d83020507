package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-core/internal/clock"
	"github.com/spec-kit/commerce-core/internal/domain"
	"github.com/spec-kit/commerce-core/internal/events"
	"github.com/spec-kit/commerce-core/internal/repository"
	"github.com/spec-kit/commerce-core/internal/sla"
)

// SlaRecomputeJob recalculates the SLA status of every open ticket with an
// SLA rule attached. Only tickets whose status actually changed are written.
type SlaRecomputeJob struct {
	clock         clock.Clock
	dispatcher    events.Dispatcher
	interval      time.Duration
	warningWindow time.Duration
}

// NewSlaRecomputeJob constructs the job.
func NewSlaRecomputeJob(clk clock.Clock, dispatcher events.Dispatcher, interval, warningWindow time.Duration) *SlaRecomputeJob {
	return &SlaRecomputeJob{
		clock:         clk,
		dispatcher:    dispatcher,
		interval:      interval,
		warningWindow: warningWindow,
	}
}

func (j *SlaRecomputeJob) Name() string { return "sla_recompute" }

func (j *SlaRecomputeJob) Interval() time.Duration { return j.interval }

func (j *SlaRecomputeJob) Execute(ctx context.Context, tx pgx.Tx) (int, error) {
	tickets := repository.NewTicketRepository(tx)

	open, err := tickets.ListOpenWithSlaRule(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open tickets: %w", err)
	}

	now := j.clock.Now()
	changed := make(map[domain.SlaStatus][]string)
	for _, ticket := range open {
		next := sla.Evaluate(now, ticket, j.warningWindow)
		if next != ticket.SlaStatus {
			changed[next] = append(changed[next], ticket.ID)
		}
	}

	var written int64
	for status, ids := range changed {
		n, err := tickets.UpdateSlaStatuses(ctx, status, ids)
		if err != nil {
			return int(written), fmt.Errorf("update sla status %s: %w", status, err)
		}
		written += n
	}

	publish(ctx, j.dispatcher, events.EventSlaStatusesRecomputed, j.Name(), now, events.SlaStatusesRecomputedPayload{
		Evaluated: len(open),
		Changed:   int(written),
	})
	return int(written), nil
}
