package stats

import (
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// MonthlySources bundles the raw records for the per-plan monthly rebuild.
type MonthlySources struct {
	Subscriptions []domain.PlanSubscription
	Payments      []domain.Payment
	Tickets       []domain.Ticket
	Sessions      []domain.ChatSession
	PlanIDs       []string
}

// BuildMonthlyPlanRows computes one row per known support plan for the
// month. Plans with no subscribers yield all-zero rows.
func BuildMonthlyPlanRows(monthStart time.Time, src MonthlySources) []domain.MonthlyPlanStat {
	monthEnd := monthStart.AddDate(0, 1, 0)
	subByID := subscriptionIndex(src.Subscriptions)

	rows := make([]domain.MonthlyPlanStat, 0, len(src.PlanIDs))
	for _, planID := range src.PlanIDs {
		row := domain.MonthlyPlanStat{Month: monthStart, PlanID: planID}

		subscribers := make(map[string]struct{})
		for _, sub := range src.Subscriptions {
			if sub.PlanID != planID {
				continue
			}
			if inRange(sub.StartedAt, monthStart, monthEnd) {
				row.NewSubscriptions++
			}
			if activeAt(sub, monthEnd) {
				row.ActiveSubscriptions++
			}
			// Anyone whose subscription overlapped the month counts as a
			// subscriber for ticket/chat attribution.
			if sub.StartedAt.Before(monthEnd) && (sub.ExpiresAt == nil || sub.ExpiresAt.After(monthStart)) {
				subscribers[sub.UserID] = struct{}{}
			}
		}

		for _, p := range src.Payments {
			if p.Status != domain.PaymentStatusPaid || p.PaidAt == nil || !inRange(*p.PaidAt, monthStart, monthEnd) {
				continue
			}
			if p.SubscriptionID == nil {
				continue
			}
			if sub, ok := subByID[*p.SubscriptionID]; ok && sub.PlanID == planID {
				row.RevenueCents += p.AmountCents
			}
		}

		for _, t := range src.Tickets {
			if !inRange(t.CreatedAt, monthStart, monthEnd) {
				continue
			}
			if _, ok := subscribers[t.RequesterID]; ok {
				row.TicketCount++
			}
		}

		for _, s := range src.Sessions {
			if !inRange(s.StartedAt, monthStart, monthEnd) {
				continue
			}
			if _, ok := subscribers[s.CustomerID]; ok {
				row.ChatSessionCount++
			}
		}

		rows = append(rows, row)
	}
	return rows
}

// activeAt reports whether a subscription is live at the given instant:
// started, not cancelled, and not yet expired.
func activeAt(sub domain.PlanSubscription, at time.Time) bool {
	if !sub.StartedAt.Before(at) {
		return false
	}
	if sub.Status == domain.SubscriptionStatusCancelled {
		return false
	}
	return sub.ExpiresAt == nil || sub.ExpiresAt.After(at)
}

func subscriptionIndex(subs []domain.PlanSubscription) map[string]domain.PlanSubscription {
	index := make(map[string]domain.PlanSubscription, len(subs))
	for _, sub := range subs {
		index[sub.ID] = sub
	}
	return index
}
