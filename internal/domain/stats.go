package domain

import "time"

// DailyOverviewStat is the platform-wide rollup for one calendar day.
// Natural key: Date.
type DailyOverviewStat struct {
	Date                        time.Time
	NewTickets                  int
	ClosedTickets               int
	OpenTickets                 int
	NewChatSessions             int
	AvgFirstResponseMinutes     float64
	AvgResolutionMinutes        float64
	ResponseSlaMet              int
	ResponseSlaTotal            int
	ResolutionSlaMet            int
	ResolutionSlaTotal          int
	AvgChatFirstResponseMinutes float64
	AvgChatDurationMinutes      float64
	AvgMessagesPerSession       float64
}

// DailyStaffStat is the per-agent rollup for one calendar day.
// Natural key: Date + StaffID.
type DailyStaffStat struct {
	Date                    time.Time
	StaffID                 string
	TicketsAssigned         int
	TicketsResolved         int
	AvgFirstResponseMinutes float64
	AvgResolutionMinutes    float64
	ResponseSlaMet          int
	ResponseSlaTotal        int
	ResolutionSlaMet        int
	ResolutionSlaTotal      int
	ChatSessionsHandled     int
	TicketMessages          int
	ChatMessages            int
}

// WeeklyClassificationStat groups ticket outcomes by severity and priority
// for one ISO week. Natural key: WeekStart + Severity + Priority.
type WeeklyClassificationStat struct {
	WeekStart               time.Time
	Severity                TicketSeverity
	Priority                Priority
	TicketCount             int
	ResponseSlaMet          int
	ResponseSlaTotal        int
	ResolutionSlaMet        int
	ResolutionSlaTotal      int
	AvgFirstResponseMinutes float64
	AvgResolutionMinutes    float64
}

// WeeklyChatStat groups chat sessions by priority for one ISO week, with a
// fixed duration histogram. Natural key: WeekStart + Priority.
type WeeklyChatStat struct {
	WeekStart               time.Time
	Priority                Priority
	SessionCount            int
	AvgFirstResponseMinutes float64
	AvgDurationMinutes      float64
	DurationUnder5          int
	Duration5To10           int
	Duration10To20          int
	DurationOver20          int
}

// MonthlyPlanStat is the per-support-plan rollup for one calendar month.
// Natural key: Month + PlanID.
type MonthlyPlanStat struct {
	Month               time.Time
	PlanID              string
	ActiveSubscriptions int
	NewSubscriptions    int
	RevenueCents        int64
	TicketCount         int
	ChatSessionCount    int
}
