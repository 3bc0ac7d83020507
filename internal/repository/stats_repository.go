package repository

import (
	"context"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// StatsRepository persists rollup rows. Every write is an upsert on the
// row's natural key that overwrites all derived fields, never accumulates.
type StatsRepository interface {
	UpsertDailyOverview(ctx context.Context, row domain.DailyOverviewStat) error
	UpsertDailyStaff(ctx context.Context, row domain.DailyStaffStat) error
	UpsertWeeklyClassification(ctx context.Context, row domain.WeeklyClassificationStat) error
	UpsertWeeklyChat(ctx context.Context, row domain.WeeklyChatStat) error
	UpsertMonthlyPlan(ctx context.Context, row domain.MonthlyPlanStat) error
}

type statsRepository struct {
	db Querier
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(db Querier) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) UpsertDailyOverview(ctx context.Context, row domain.DailyOverviewStat) error {
	const query = `
        INSERT INTO stats_daily_overview (
            date, new_tickets, closed_tickets, open_tickets, new_chat_sessions,
            avg_first_response_minutes, avg_resolution_minutes,
            response_sla_met, response_sla_total, resolution_sla_met, resolution_sla_total,
            avg_chat_first_response_minutes, avg_chat_duration_minutes, avg_messages_per_session
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        ON CONFLICT (date) DO UPDATE SET
            new_tickets=EXCLUDED.new_tickets,
            closed_tickets=EXCLUDED.closed_tickets,
            open_tickets=EXCLUDED.open_tickets,
            new_chat_sessions=EXCLUDED.new_chat_sessions,
            avg_first_response_minutes=EXCLUDED.avg_first_response_minutes,
            avg_resolution_minutes=EXCLUDED.avg_resolution_minutes,
            response_sla_met=EXCLUDED.response_sla_met,
            response_sla_total=EXCLUDED.response_sla_total,
            resolution_sla_met=EXCLUDED.resolution_sla_met,
            resolution_sla_total=EXCLUDED.resolution_sla_total,
            avg_chat_first_response_minutes=EXCLUDED.avg_chat_first_response_minutes,
            avg_chat_duration_minutes=EXCLUDED.avg_chat_duration_minutes,
            avg_messages_per_session=EXCLUDED.avg_messages_per_session`
	_, err := r.db.Exec(ctx, query,
		row.Date,
		row.NewTickets,
		row.ClosedTickets,
		row.OpenTickets,
		row.NewChatSessions,
		row.AvgFirstResponseMinutes,
		row.AvgResolutionMinutes,
		row.ResponseSlaMet,
		row.ResponseSlaTotal,
		row.ResolutionSlaMet,
		row.ResolutionSlaTotal,
		row.AvgChatFirstResponseMinutes,
		row.AvgChatDurationMinutes,
		row.AvgMessagesPerSession,
	)
	return err
}

func (r *statsRepository) UpsertDailyStaff(ctx context.Context, row domain.DailyStaffStat) error {
	const query = `
        INSERT INTO stats_daily_staff (
            date, staff_id, tickets_assigned, tickets_resolved,
            avg_first_response_minutes, avg_resolution_minutes,
            response_sla_met, response_sla_total, resolution_sla_met, resolution_sla_total,
            chat_sessions_handled, ticket_messages, chat_messages
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        ON CONFLICT (date, staff_id) DO UPDATE SET
            tickets_assigned=EXCLUDED.tickets_assigned,
            tickets_resolved=EXCLUDED.tickets_resolved,
            avg_first_response_minutes=EXCLUDED.avg_first_response_minutes,
            avg_resolution_minutes=EXCLUDED.avg_resolution_minutes,
            response_sla_met=EXCLUDED.response_sla_met,
            response_sla_total=EXCLUDED.response_sla_total,
            resolution_sla_met=EXCLUDED.resolution_sla_met,
            resolution_sla_total=EXCLUDED.resolution_sla_total,
            chat_sessions_handled=EXCLUDED.chat_sessions_handled,
            ticket_messages=EXCLUDED.ticket_messages,
            chat_messages=EXCLUDED.chat_messages`
	_, err := r.db.Exec(ctx, query,
		row.Date,
		row.StaffID,
		row.TicketsAssigned,
		row.TicketsResolved,
		row.AvgFirstResponseMinutes,
		row.AvgResolutionMinutes,
		row.ResponseSlaMet,
		row.ResponseSlaTotal,
		row.ResolutionSlaMet,
		row.ResolutionSlaTotal,
		row.ChatSessionsHandled,
		row.TicketMessages,
		row.ChatMessages,
	)
	return err
}

func (r *statsRepository) UpsertWeeklyClassification(ctx context.Context, row domain.WeeklyClassificationStat) error {
	const query = `
        INSERT INTO stats_weekly_classification (
            week_start, severity, priority, ticket_count,
            response_sla_met, response_sla_total, resolution_sla_met, resolution_sla_total,
            avg_first_response_minutes, avg_resolution_minutes
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (week_start, severity, priority) DO UPDATE SET
            ticket_count=EXCLUDED.ticket_count,
            response_sla_met=EXCLUDED.response_sla_met,
            response_sla_total=EXCLUDED.response_sla_total,
            resolution_sla_met=EXCLUDED.resolution_sla_met,
            resolution_sla_total=EXCLUDED.resolution_sla_total,
            avg_first_response_minutes=EXCLUDED.avg_first_response_minutes,
            avg_resolution_minutes=EXCLUDED.avg_resolution_minutes`
	_, err := r.db.Exec(ctx, query,
		row.WeekStart,
		row.Severity,
		row.Priority,
		row.TicketCount,
		row.ResponseSlaMet,
		row.ResponseSlaTotal,
		row.ResolutionSlaMet,
		row.ResolutionSlaTotal,
		row.AvgFirstResponseMinutes,
		row.AvgResolutionMinutes,
	)
	return err
}

func (r *statsRepository) UpsertWeeklyChat(ctx context.Context, row domain.WeeklyChatStat) error {
	const query = `
        INSERT INTO stats_weekly_chat (
            week_start, priority, session_count,
            avg_first_response_minutes, avg_duration_minutes,
            duration_under_5, duration_5_to_10, duration_10_to_20, duration_over_20
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (week_start, priority) DO UPDATE SET
            session_count=EXCLUDED.session_count,
            avg_first_response_minutes=EXCLUDED.avg_first_response_minutes,
            avg_duration_minutes=EXCLUDED.avg_duration_minutes,
            duration_under_5=EXCLUDED.duration_under_5,
            duration_5_to_10=EXCLUDED.duration_5_to_10,
            duration_10_to_20=EXCLUDED.duration_10_to_20,
            duration_over_20=EXCLUDED.duration_over_20`
	_, err := r.db.Exec(ctx, query,
		row.WeekStart,
		row.Priority,
		row.SessionCount,
		row.AvgFirstResponseMinutes,
		row.AvgDurationMinutes,
		row.DurationUnder5,
		row.Duration5To10,
		row.Duration10To20,
		row.DurationOver20,
	)
	return err
}

func (r *statsRepository) UpsertMonthlyPlan(ctx context.Context, row domain.MonthlyPlanStat) error {
	const query = `
        INSERT INTO stats_monthly_plan (
            month, plan_id, active_subscriptions, new_subscriptions,
            revenue_cents, ticket_count, chat_session_count
        ) VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (month, plan_id) DO UPDATE SET
            active_subscriptions=EXCLUDED.active_subscriptions,
            new_subscriptions=EXCLUDED.new_subscriptions,
            revenue_cents=EXCLUDED.revenue_cents,
            ticket_count=EXCLUDED.ticket_count,
            chat_session_count=EXCLUDED.chat_session_count`
	_, err := r.db.Exec(ctx, query,
		row.Month,
		row.PlanID,
		row.ActiveSubscriptions,
		row.NewSubscriptions,
		row.RevenueCents,
		row.TicketCount,
		row.ChatSessionCount,
	)
	return err
}
