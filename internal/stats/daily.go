package stats

import (
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// DailySources bundles the raw records a daily rebuild reads once per run
// and then slices per day in memory.
type DailySources struct {
	Tickets       []domain.Ticket
	Sessions      []domain.ChatSession
	ChatMessages  []domain.ChatMessage
	StaffMessages []domain.TicketMessage
	StaffIDs      []string
}

// BuildDailyOverview computes the platform-wide rollup for one day. A day
// with no activity yields a fully zero-valued row, never an absent one.
func BuildDailyOverview(now, day time.Time, src DailySources) domain.DailyOverviewStat {
	dayEnd := day.Add(24 * time.Hour)
	row := domain.DailyOverviewStat{Date: day}

	var frLatency, resLatency meanAcc
	var respTally, resTally slaTally

	for _, t := range src.Tickets {
		if inRange(t.CreatedAt, day, dayEnd) {
			row.NewTickets++
			respTally.observe(now, t.FirstResponseDueAt, t.FirstRespondedAt)
			resTally.observe(now, t.ResolutionDueAt, t.ResolvedAt)
			if t.FirstRespondedAt != nil {
				frLatency.add(minutesBetween(t.CreatedAt, *t.FirstRespondedAt))
			}
			if t.ResolvedAt != nil {
				resLatency.add(minutesBetween(t.CreatedAt, *t.ResolvedAt))
			}
		}
		if t.ClosedAt != nil && inRange(*t.ClosedAt, day, dayEnd) {
			row.ClosedTickets++
		}
		// Open at end of day: created by then and not yet closed.
		if t.CreatedAt.Before(dayEnd) && (t.ClosedAt == nil || !t.ClosedAt.Before(dayEnd)) {
			row.OpenTickets++
		}
	}

	firstStaffReply := firstStaffMessageTimes(src.ChatMessages)
	messageCounts := messagesPerSession(src.ChatMessages)

	var chatFR, chatDuration, chatMessages meanAcc
	for _, s := range src.Sessions {
		if !inRange(s.StartedAt, day, dayEnd) {
			continue
		}
		row.NewChatSessions++
		if replyAt, ok := firstStaffReply[s.ID]; ok {
			chatFR.add(minutesBetween(s.StartedAt, replyAt))
		}
		if ended := s.EndedAt(); ended != nil {
			chatDuration.add(minutesBetween(s.StartedAt, *ended))
		}
		chatMessages.add(float64(messageCounts[s.ID]))
	}

	row.AvgFirstResponseMinutes = frLatency.mean()
	row.AvgResolutionMinutes = resLatency.mean()
	row.ResponseSlaMet = respTally.met
	row.ResponseSlaTotal = respTally.total
	row.ResolutionSlaMet = resTally.met
	row.ResolutionSlaTotal = resTally.total
	row.AvgChatFirstResponseMinutes = chatFR.mean()
	row.AvgChatDurationMinutes = chatDuration.mean()
	row.AvgMessagesPerSession = chatMessages.mean()
	return row
}

// BuildDailyStaffRows computes one row per active staff member for the day,
// including all-zero rows for agents with no activity.
func BuildDailyStaffRows(now, day time.Time, src DailySources) []domain.DailyStaffStat {
	dayEnd := day.Add(24 * time.Hour)
	sessionStaff := sessionStaffIndex(src.Sessions)

	rows := make([]domain.DailyStaffStat, 0, len(src.StaffIDs))
	for _, staffID := range src.StaffIDs {
		row := domain.DailyStaffStat{Date: day, StaffID: staffID}

		var frLatency, resLatency meanAcc
		var respTally, resTally slaTally

		for _, t := range src.Tickets {
			if t.AssigneeID == nil || *t.AssigneeID != staffID {
				continue
			}
			if inRange(t.CreatedAt, day, dayEnd) {
				row.TicketsAssigned++
				respTally.observe(now, t.FirstResponseDueAt, t.FirstRespondedAt)
				resTally.observe(now, t.ResolutionDueAt, t.ResolvedAt)
				if t.FirstRespondedAt != nil {
					frLatency.add(minutesBetween(t.CreatedAt, *t.FirstRespondedAt))
				}
				if t.ResolvedAt != nil {
					resLatency.add(minutesBetween(t.CreatedAt, *t.ResolvedAt))
				}
			}
			if t.ResolvedAt != nil && inRange(*t.ResolvedAt, day, dayEnd) {
				row.TicketsResolved++
			}
		}

		for _, s := range src.Sessions {
			if s.StaffID != nil && *s.StaffID == staffID && inRange(s.StartedAt, day, dayEnd) {
				row.ChatSessionsHandled++
			}
		}

		for _, m := range src.StaffMessages {
			if m.AuthorID != nil && *m.AuthorID == staffID && inRange(m.SentAt, day, dayEnd) {
				row.TicketMessages++
			}
		}

		for _, m := range src.ChatMessages {
			if m.SenderRole != domain.ChatSenderStaff || !inRange(m.SentAt, day, dayEnd) {
				continue
			}
			if sessionStaff[m.SessionID] == staffID {
				row.ChatMessages++
			}
		}

		row.AvgFirstResponseMinutes = frLatency.mean()
		row.AvgResolutionMinutes = resLatency.mean()
		row.ResponseSlaMet = respTally.met
		row.ResponseSlaTotal = respTally.total
		row.ResolutionSlaMet = resTally.met
		row.ResolutionSlaTotal = resTally.total
		rows = append(rows, row)
	}
	return rows
}

// firstStaffMessageTimes maps each session to the earliest staff reply in it.
func firstStaffMessageTimes(messages []domain.ChatMessage) map[string]time.Time {
	first := make(map[string]time.Time)
	for _, m := range messages {
		if m.SenderRole != domain.ChatSenderStaff {
			continue
		}
		if existing, ok := first[m.SessionID]; !ok || m.SentAt.Before(existing) {
			first[m.SessionID] = m.SentAt
		}
	}
	return first
}

func messagesPerSession(messages []domain.ChatMessage) map[string]int {
	counts := make(map[string]int)
	for _, m := range messages {
		counts[m.SessionID]++
	}
	return counts
}

func sessionStaffIndex(sessions []domain.ChatSession) map[string]string {
	index := make(map[string]string)
	for _, s := range sessions {
		if s.StaffID != nil {
			index[s.ID] = *s.StaffID
		}
	}
	return index
}
