package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// TicketRepository reads tickets for SLA recomputation and aggregation and
// writes back derived SLA statuses.
type TicketRepository interface {
	ListOpenWithSlaRule(ctx context.Context) ([]domain.Ticket, error)
	UpdateSlaStatuses(ctx context.Context, status domain.SlaStatus, ids []string) (int64, error)
	ListTouchingWindow(ctx context.Context, from, to time.Time) ([]domain.Ticket, error)
	ListStaffMessagesBetween(ctx context.Context, from, to time.Time) ([]domain.TicketMessage, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, requester_user_id, assignee_staff_id, status, severity, priority,
        sla_rule_id, sla_status, created_at, first_response_due_at, first_responded_at,
        resolution_due_at, resolved_at, closed_at`

func (r *ticketRepository) ListOpenWithSlaRule(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets
        WHERE status = ANY($1) AND sla_rule_id IS NOT NULL`
	rows, err := r.db.Query(ctx, query, statusStrings(domain.OpenTicketStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateSlaStatuses(ctx context.Context, status domain.SlaStatus, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `UPDATE tickets SET sla_status=$1 WHERE id = ANY($2)`
	cmd, err := r.db.Exec(ctx, query, status, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ListTouchingWindow returns every ticket that was open at any point inside
// the window plus everything created in it. Tickets closed before the window
// start cannot affect any rollup in it.
func (r *ticketRepository) ListTouchingWindow(ctx context.Context, from, to time.Time) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets
        WHERE created_at < $2 AND (closed_at IS NULL OR closed_at >= $1)`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListStaffMessagesBetween(ctx context.Context, from, to time.Time) ([]domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, author_type, author_staff_id, sent_at
        FROM ticket_messages
        WHERE author_type=$1 AND sent_at >= $2 AND sent_at < $3`
	rows, err := r.db.Query(ctx, query, domain.AuthorTypeStaff, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(&msg.ID, &msg.TicketID, &msg.AuthorType, &msg.AuthorID, &msg.SentAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.RequesterID,
			&ticket.AssigneeID,
			&ticket.Status,
			&ticket.Severity,
			&ticket.Priority,
			&ticket.SlaRuleID,
			&ticket.SlaStatus,
			&ticket.CreatedAt,
			&ticket.FirstResponseDueAt,
			&ticket.FirstRespondedAt,
			&ticket.ResolutionDueAt,
			&ticket.ResolvedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func statusStrings(statuses []domain.TicketStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
