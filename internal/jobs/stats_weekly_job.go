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

// WeeklyStatsJob fully recomputes the severity x priority ticket rollup and
// the per-priority chat rollup for every ISO week in the trailing window.
type WeeklyStatsJob struct {
	clock       clock.Clock
	dispatcher  events.Dispatcher
	interval    time.Duration
	windowWeeks int
}

// NewWeeklyStatsJob constructs the job over a trailing window of ISO weeks.
func NewWeeklyStatsJob(clk clock.Clock, dispatcher events.Dispatcher, interval time.Duration, windowWeeks int) *WeeklyStatsJob {
	return &WeeklyStatsJob{
		clock:       clk,
		dispatcher:  dispatcher,
		interval:    interval,
		windowWeeks: windowWeeks,
	}
}

func (j *WeeklyStatsJob) Name() string { return "stats_weekly" }

func (j *WeeklyStatsJob) Interval() time.Duration { return j.interval }

func (j *WeeklyStatsJob) Execute(ctx context.Context, tx pgx.Tx) (int, error) {
	now := j.clock.Now()
	weeks := stats.LastWeeks(now, j.windowWeeks)
	from := weeks[0]
	to := weeks[len(weeks)-1].AddDate(0, 0, 7)

	tickets := repository.NewTicketRepository(tx)
	chats := repository.NewChatRepository(tx)
	statsRepo := repository.NewStatsRepository(tx)

	windowTickets, err := tickets.ListTouchingWindow(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("load tickets: %w", err)
	}
	sessions, err := chats.ListSessionsTouchingWindow(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("load chat sessions: %w", err)
	}
	messages, err := chats.ListMessagesForSessionsStartedBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("load chat messages: %w", err)
	}

	rows := 0
	for _, week := range weeks {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		for _, row := range stats.BuildWeeklyClassificationRows(now, week, windowTickets) {
			if err := statsRepo.UpsertWeeklyClassification(ctx, row); err != nil {
				return rows, fmt.Errorf("upsert weekly classification %s: %w", week.Format("2006-01-02"), err)
			}
			rows++
		}
		for _, row := range stats.BuildWeeklyChatRows(week, sessions, messages) {
			if err := statsRepo.UpsertWeeklyChat(ctx, row); err != nil {
				return rows, fmt.Errorf("upsert weekly chat %s: %w", week.Format("2006-01-02"), err)
			}
			rows++
		}
	}

	publish(ctx, j.dispatcher, events.EventStatsRebuilt, j.Name(), now, events.StatsRebuiltPayload{
		Granularity: events.GranularityWeekly,
		Periods:     weeks,
		Rows:        rows,
	})
	return rows, nil
}
