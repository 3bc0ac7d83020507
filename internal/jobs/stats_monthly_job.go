package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-core/internal/clock"
	"github.com/spec-kit/commerce-core/internal/events"
	"github.com/spec-kit/commerce-core/internal/repository"
	"github.com/spec-kit/commerce-core/internal/stats"
)

// MonthlyStatsJob fully recomputes the per-support-plan rollup for every
// month in the trailing window.
type MonthlyStatsJob struct {
	clock        clock.Clock
	dispatcher   events.Dispatcher
	interval     time.Duration
	windowMonths int
}

// NewMonthlyStatsJob constructs the job over a trailing window of months.
func NewMonthlyStatsJob(clk clock.Clock, dispatcher events.Dispatcher, interval time.Duration, windowMonths int) *MonthlyStatsJob {
	return &MonthlyStatsJob{
		clock:        clk,
		dispatcher:   dispatcher,
		interval:     interval,
		windowMonths: windowMonths,
	}
}

func (j *MonthlyStatsJob) Name() string { return "stats_monthly" }

func (j *MonthlyStatsJob) Interval() time.Duration { return j.interval }

func (j *MonthlyStatsJob) Execute(ctx context.Context, tx pgx.Tx) (int, error) {
	now := j.clock.Now()
	months := stats.LastMonths(now, j.windowMonths)
	from := months[0]
	to := months[len(months)-1].AddDate(0, 1, 0)

	tickets := repository.NewTicketRepository(tx)
	chats := repository.NewChatRepository(tx)
	payments := repository.NewPaymentRepository(tx)
	subscriptions := repository.NewSubscriptionRepository(tx)
	statsRepo := repository.NewStatsRepository(tx)

	var src stats.MonthlySources
	var err error
	if src.Subscriptions, err = subscriptions.ListStartedBefore(ctx, to); err != nil {
		return 0, fmt.Errorf("load subscriptions: %w", err)
	}
	if src.PlanIDs, err = subscriptions.ListPlanIDs(ctx); err != nil {
		return 0, fmt.Errorf("load plans: %w", err)
	}
	if src.Payments, err = payments.ListPaidBetween(ctx, from, to); err != nil {
		return 0, fmt.Errorf("load payments: %w", err)
	}
	if src.Tickets, err = tickets.ListTouchingWindow(ctx, from, to); err != nil {
		return 0, fmt.Errorf("load tickets: %w", err)
	}
	if src.Sessions, err = chats.ListSessionsTouchingWindow(ctx, from, to); err != nil {
		return 0, fmt.Errorf("load chat sessions: %w", err)
	}

	rows := 0
	for _, month := range months {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		for _, row := range stats.BuildMonthlyPlanRows(month, src) {
			if err := statsRepo.UpsertMonthlyPlan(ctx, row); err != nil {
				return rows, fmt.Errorf("upsert monthly plan %s: %w", month.Format("2006-01"), err)
			}
			rows++
		}
	}

	publish(ctx, j.dispatcher, events.EventStatsRebuilt, j.Name(), now, events.StatsRebuiltPayload{
		Granularity: events.GranularityMonthly,
		Periods:     months,
		Rows:        rows,
	})
	return rows, nil
}
