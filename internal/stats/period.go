package stats

import "time"

// DayStart truncates an instant to UTC midnight.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart truncates to the Monday 00:00 UTC opening the ISO week.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart truncates to the first of the month, 00:00 UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// LastDays returns the day starts of the trailing n-day window ending today,
// in ascending order.
func LastDays(now time.Time, n int) []time.Time {
	today := DayStart(now)
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

// LastWeeks returns the week starts of the trailing n-week window ending with
// the current week, in ascending order.
func LastWeeks(now time.Time, n int) []time.Time {
	current := WeekStart(now)
	weeks := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		weeks = append(weeks, current.AddDate(0, 0, -7*i))
	}
	return weeks
}

// LastMonths returns the month starts of the trailing n-month window ending
// with the current month, in ascending order.
func LastMonths(now time.Time, n int) []time.Time {
	current := MonthStart(now)
	months := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, current.AddDate(0, -i, 0))
	}
	return months
}

// inRange reports from <= t < to.
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// meanAcc accumulates a mean that only counts observed values. An empty
// accumulator yields zero, never NaN.
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) {
	a.sum += v
	a.n++
}

func (a *meanAcc) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// slaTally counts met-vs-total for one deadline kind. A record enters the
// total only once its outcome is decided: either the event happened, or the
// deadline passed without it. Records with no deadline, or with an
// undecided future deadline, are excluded entirely.
type slaTally struct {
	met   int
	total int
}

func (t *slaTally) observe(now time.Time, due, actual *time.Time) {
	if due == nil {
		return
	}
	if actual != nil {
		t.total++
		if !actual.After(*due) {
			t.met++
		}
		return
	}
	if now.After(*due) {
		t.total++
	}
}

func minutesBetween(start, end time.Time) float64 {
	return end.Sub(start).Minutes()
}
