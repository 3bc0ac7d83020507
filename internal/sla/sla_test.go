package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/commerce-core/internal/domain"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func TestEvaluateResponseDeadline(t *testing.T) {
	warningWindow := 30 * time.Minute
	ticket := domain.Ticket{
		CreatedAt:          ts("2026-08-01T08:00:00Z"),
		FirstResponseDueAt: tsp("2026-08-01T09:30:00Z"),
	}

	cases := []struct {
		name string
		now  time.Time
		want domain.SlaStatus
	}{
		{"well before due", ts("2026-08-01T08:30:00Z"), domain.SlaStatusOK},
		{"inside warning window", ts("2026-08-01T09:00:00Z"), domain.SlaStatusWarning},
		{"exactly due", ts("2026-08-01T09:30:00Z"), domain.SlaStatusWarning},
		{"one minute past due", ts("2026-08-01T09:31:00Z"), domain.SlaStatusOverdue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.now, ticket, warningWindow))
		})
	}
}

func TestEvaluateRespondedOnTime(t *testing.T) {
	ticket := domain.Ticket{
		FirstResponseDueAt: tsp("2026-08-01T09:30:00Z"),
		FirstRespondedAt:   tsp("2026-08-01T09:10:00Z"),
	}

	// Once responded within the deadline, the leg stays OK no matter how far
	// the clock advances.
	assert.Equal(t, domain.SlaStatusOK, Evaluate(ts("2026-08-05T00:00:00Z"), ticket, 30*time.Minute))
}

func TestEvaluateLateResponseStaysOverdue(t *testing.T) {
	ticket := domain.Ticket{
		FirstResponseDueAt: tsp("2026-08-01T09:30:00Z"),
		FirstRespondedAt:   tsp("2026-08-01T10:00:00Z"),
	}

	assert.Equal(t, domain.SlaStatusOverdue, Evaluate(ts("2026-08-01T10:05:00Z"), ticket, 30*time.Minute))
}

func TestEvaluateNoDeadlines(t *testing.T) {
	assert.Equal(t, domain.SlaStatusOK, Evaluate(ts("2026-08-01T09:00:00Z"), domain.Ticket{}, 30*time.Minute))
}

func TestEvaluateWorstLegWins(t *testing.T) {
	ticket := domain.Ticket{
		FirstResponseDueAt: tsp("2026-08-01T09:30:00Z"),
		FirstRespondedAt:   tsp("2026-08-01T09:00:00Z"),
		ResolutionDueAt:    tsp("2026-08-01T12:00:00Z"),
	}

	// Response leg is settled OK; the resolution leg drives the result.
	assert.Equal(t, domain.SlaStatusWarning, Evaluate(ts("2026-08-01T11:45:00Z"), ticket, 30*time.Minute))
	assert.Equal(t, domain.SlaStatusOverdue, Evaluate(ts("2026-08-01T12:01:00Z"), ticket, 30*time.Minute))
}

func TestEvaluateMonotonicUnderAdvancingClock(t *testing.T) {
	ticket := domain.Ticket{
		FirstResponseDueAt: tsp("2026-08-01T09:30:00Z"),
		ResolutionDueAt:    tsp("2026-08-01T14:00:00Z"),
	}
	warningWindow := 30 * time.Minute

	prev := domain.SlaStatusOK
	for now := ts("2026-08-01T08:00:00Z"); now.Before(ts("2026-08-01T16:00:00Z")); now = now.Add(7 * time.Minute) {
		got := Evaluate(now, ticket, warningWindow)
		assert.GreaterOrEqual(t, statusRank[got], statusRank[prev],
			"status regressed from %s to %s at %s", prev, got, now)
		prev = got
	}
	assert.Equal(t, domain.SlaStatusOverdue, prev)
}
