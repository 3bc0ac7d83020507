package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStartIsMonday(t *testing.T) {
	// 2026-08-29 is a Saturday; its ISO week opens Monday the 24th.
	saturday := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), WeekStart(saturday))

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(monday))

	sunday := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
}

func TestLastDaysAscending(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	days := LastDays(now, 3)

	assert.Equal(t, []time.Time{
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}, days)
}

func TestLastMonthsCrossesYearBoundary(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	months := LastMonths(now, 3)

	assert.Equal(t, []time.Time{
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, months)
}

func TestMeanAccEmptyYieldsZero(t *testing.T) {
	var acc meanAcc
	assert.Equal(t, 0.0, acc.mean())

	acc.add(4)
	acc.add(8)
	assert.Equal(t, 6.0, acc.mean())
}

func TestSlaTallyCountsOnlyDecidedOutcomes(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	pastDue := now.Add(-time.Hour)
	futureDue := now.Add(time.Hour)
	onTime := pastDue.Add(-10 * time.Minute)
	late := pastDue.Add(10 * time.Minute)

	var tally slaTally
	tally.observe(now, nil, nil)            // no deadline: excluded
	tally.observe(now, &futureDue, nil)     // undecided: excluded
	tally.observe(now, &pastDue, nil)       // deadline passed, no event: missed
	tally.observe(now, &pastDue, &onTime)   // met
	tally.observe(now, &pastDue, &late)     // missed
	tally.observe(now, &futureDue, &onTime) // event before a future deadline: met

	assert.Equal(t, 2, tally.met)
	assert.Equal(t, 4, tally.total)
}
