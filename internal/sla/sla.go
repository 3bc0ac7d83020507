package sla

import (
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// Evaluate derives a ticket's SLA status from the clock and its stored
// deadlines. It is a pure function: given fixed deadlines, advancing now can
// only move the result OK -> Warning -> Overdue, never backward.
//
// The overall status is the worse of the first-response leg and the
// resolution leg.
func Evaluate(now time.Time, ticket domain.Ticket, warningWindow time.Duration) domain.SlaStatus {
	response := evaluateLeg(now, ticket.FirstResponseDueAt, ticket.FirstRespondedAt, warningWindow)
	resolution := evaluateLeg(now, ticket.ResolutionDueAt, ticket.ResolvedAt, warningWindow)
	return worse(response, resolution)
}

// evaluateLeg classifies one deadline/event pair:
//   - no deadline: OK
//   - event at or before the deadline: OK
//   - event after the deadline, or deadline passed with no event: Overdue
//   - deadline within the warning window: Warning
func evaluateLeg(now time.Time, due, actual *time.Time, warningWindow time.Duration) domain.SlaStatus {
	if due == nil {
		return domain.SlaStatusOK
	}
	if actual != nil {
		if !actual.After(*due) {
			return domain.SlaStatusOK
		}
		return domain.SlaStatusOverdue
	}
	if now.After(*due) {
		return domain.SlaStatusOverdue
	}
	if due.Sub(now) <= warningWindow {
		return domain.SlaStatusWarning
	}
	return domain.SlaStatusOK
}

var statusRank = map[domain.SlaStatus]int{
	domain.SlaStatusOK:      0,
	domain.SlaStatusWarning: 1,
	domain.SlaStatusOverdue: 2,
}

func worse(a, b domain.SlaStatus) domain.SlaStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}
