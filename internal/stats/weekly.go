package stats

import (
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// BuildWeeklyClassificationRows computes one row per severity x priority
// combination for the week, zero-valued rows included, so every consumer
// sees a complete grid per period.
func BuildWeeklyClassificationRows(now, weekStart time.Time, tickets []domain.Ticket) []domain.WeeklyClassificationStat {
	weekEnd := weekStart.AddDate(0, 0, 7)

	rows := make([]domain.WeeklyClassificationStat, 0, len(domain.Severities)*len(domain.Priorities))
	for _, severity := range domain.Severities {
		for _, priority := range domain.Priorities {
			row := domain.WeeklyClassificationStat{
				WeekStart: weekStart,
				Severity:  severity,
				Priority:  priority,
			}

			var frLatency, resLatency meanAcc
			var respTally, resTally slaTally

			for _, t := range tickets {
				if t.Severity != severity || t.Priority != priority {
					continue
				}
				if !inRange(t.CreatedAt, weekStart, weekEnd) {
					continue
				}
				row.TicketCount++
				respTally.observe(now, t.FirstResponseDueAt, t.FirstRespondedAt)
				resTally.observe(now, t.ResolutionDueAt, t.ResolvedAt)
				if t.FirstRespondedAt != nil {
					frLatency.add(minutesBetween(t.CreatedAt, *t.FirstRespondedAt))
				}
				if t.ResolvedAt != nil {
					resLatency.add(minutesBetween(t.CreatedAt, *t.ResolvedAt))
				}
			}

			row.ResponseSlaMet = respTally.met
			row.ResponseSlaTotal = respTally.total
			row.ResolutionSlaMet = resTally.met
			row.ResolutionSlaTotal = resTally.total
			row.AvgFirstResponseMinutes = frLatency.mean()
			row.AvgResolutionMinutes = resLatency.mean()
			rows = append(rows, row)
		}
	}
	return rows
}

// BuildWeeklyChatRows computes one row per priority for the week with the
// fixed duration histogram (<5, 5-10, 10-20, >20 minutes). Sessions without
// a known end time are excluded from the histogram and the duration mean but
// still counted.
func BuildWeeklyChatRows(weekStart time.Time, sessions []domain.ChatSession, messages []domain.ChatMessage) []domain.WeeklyChatStat {
	weekEnd := weekStart.AddDate(0, 0, 7)
	firstStaffReply := firstStaffMessageTimes(messages)

	rows := make([]domain.WeeklyChatStat, 0, len(domain.Priorities))
	for _, priority := range domain.Priorities {
		row := domain.WeeklyChatStat{WeekStart: weekStart, Priority: priority}

		var frLatency, duration meanAcc

		for _, s := range sessions {
			if s.Priority != priority || !inRange(s.StartedAt, weekStart, weekEnd) {
				continue
			}
			row.SessionCount++
			if replyAt, ok := firstStaffReply[s.ID]; ok {
				frLatency.add(minutesBetween(s.StartedAt, replyAt))
			}
			ended := s.EndedAt()
			if ended == nil {
				continue
			}
			minutes := minutesBetween(s.StartedAt, *ended)
			duration.add(minutes)
			switch {
			case minutes < 5:
				row.DurationUnder5++
			case minutes < 10:
				row.Duration5To10++
			case minutes < 20:
				row.Duration10To20++
			default:
				row.DurationOver20++
			}
		}

		row.AvgFirstResponseMinutes = frLatency.mean()
		row.AvgDurationMinutes = duration.mean()
		rows = append(rows, row)
	}
	return rows
}
