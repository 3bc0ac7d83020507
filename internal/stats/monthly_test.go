package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-core/internal/domain"
)

var monthStart = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func subscription(id, planID, userID string, started time.Time, expires *time.Time) domain.PlanSubscription {
	return domain.PlanSubscription{
		ID:        id,
		PlanID:    planID,
		UserID:    userID,
		Status:    domain.SubscriptionStatusActive,
		StartedAt: started,
		ExpiresAt: expires,
	}
}

func TestBuildMonthlyPlanRowsSubscriptionCounts(t *testing.T) {
	nextYear := monthStart.AddDate(1, 0, 0)
	expiredMidMonth := monthStart.AddDate(0, 0, 15)

	cancelled := subscription("sub3", "gold", "u3", monthStart.AddDate(0, -1, 0), &nextYear)
	cancelled.Status = domain.SubscriptionStatusCancelled

	src := MonthlySources{
		PlanIDs: []string{"gold", "silver"},
		Subscriptions: []domain.PlanSubscription{
			// Started this month, still live at month end.
			subscription("sub1", "gold", "u1", monthStart.AddDate(0, 0, 3), &nextYear),
			// Carried over from earlier, live at month end.
			subscription("sub2", "gold", "u2", monthStart.AddDate(0, -2, 0), nil),
			// Cancelled: never active.
			cancelled,
			// Expired mid-month: overlaps but not active at month end.
			subscription("sub4", "gold", "u4", monthStart.AddDate(0, -1, 0), &expiredMidMonth),
		},
	}

	rows := BuildMonthlyPlanRows(monthStart, src)
	require.Len(t, rows, 2)

	gold := rows[0]
	assert.Equal(t, "gold", gold.PlanID)
	assert.Equal(t, 1, gold.NewSubscriptions)
	assert.Equal(t, 2, gold.ActiveSubscriptions)

	// Plan with no subscribers still gets its zero row.
	assert.Equal(t, domain.MonthlyPlanStat{Month: monthStart, PlanID: "silver"}, rows[1])
}

func TestBuildMonthlyPlanRowsRevenue(t *testing.T) {
	paidIn := monthStart.AddDate(0, 0, 5)
	paidOut := monthStart.AddDate(0, 1, 2)
	subID := "sub1"

	src := MonthlySources{
		PlanIDs: []string{"gold"},
		Subscriptions: []domain.PlanSubscription{
			subscription(subID, "gold", "u1", monthStart.AddDate(0, -1, 0), nil),
		},
		Payments: []domain.Payment{
			{ID: "p1", SubscriptionID: &subID, Status: domain.PaymentStatusPaid, AmountCents: 4900, PaidAt: &paidIn},
			// Paid outside the month.
			{ID: "p2", SubscriptionID: &subID, Status: domain.PaymentStatusPaid, AmountCents: 4900, PaidAt: &paidOut},
			// Not paid: pending amounts never count.
			{ID: "p3", SubscriptionID: &subID, Status: domain.PaymentStatusPending, AmountCents: 4900},
		},
	}

	rows := BuildMonthlyPlanRows(monthStart, src)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(4900), rows[0].RevenueCents)
}

func TestBuildMonthlyPlanRowsAttributesActivityToSubscribers(t *testing.T) {
	src := MonthlySources{
		PlanIDs: []string{"gold"},
		Subscriptions: []domain.PlanSubscription{
			subscription("sub1", "gold", "subscriber", monthStart.AddDate(0, -1, 0), nil),
		},
		Tickets: []domain.Ticket{
			{ID: "t1", RequesterID: "subscriber", CreatedAt: monthStart.AddDate(0, 0, 4)},
			{ID: "t2", RequesterID: "stranger", CreatedAt: monthStart.AddDate(0, 0, 4)},
			{ID: "t3", RequesterID: "subscriber", CreatedAt: monthStart.AddDate(0, -1, 4)},
		},
		Sessions: []domain.ChatSession{
			{ID: "s1", CustomerID: "subscriber", StartedAt: monthStart.AddDate(0, 0, 6)},
			{ID: "s2", CustomerID: "stranger", StartedAt: monthStart.AddDate(0, 0, 6)},
		},
	}

	rows := BuildMonthlyPlanRows(monthStart, src)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TicketCount)
	assert.Equal(t, 1, rows[0].ChatSessionCount)
}

func TestBuildMonthlyPlanRowsIdempotent(t *testing.T) {
	src := MonthlySources{
		PlanIDs: []string{"gold"},
		Subscriptions: []domain.PlanSubscription{
			subscription("sub1", "gold", "u1", monthStart.AddDate(0, 0, 1), nil),
		},
	}

	assert.Equal(t, BuildMonthlyPlanRows(monthStart, src), BuildMonthlyPlanRows(monthStart, src))
}
