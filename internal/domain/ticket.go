package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// OpenTicketStatuses are the states in which SLA deadlines still apply.
var OpenTicketStatuses = []TicketStatus{TicketStatusNew, TicketStatusInProgress}

// TicketSeverity enumerates impact levels.
type TicketSeverity string

const (
	TicketSeverityLow      TicketSeverity = "LOW"
	TicketSeverityMedium   TicketSeverity = "MEDIUM"
	TicketSeverityHigh     TicketSeverity = "HIGH"
	TicketSeverityCritical TicketSeverity = "CRITICAL"
)

// Severities lists all severities in reporting order.
var Severities = []TicketSeverity{TicketSeverityLow, TicketSeverityMedium, TicketSeverityHigh, TicketSeverityCritical}

// Priority enumerates urgency for tickets and chat sessions.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Priorities lists all priorities in reporting order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// SlaStatus classifies whether a ticket is on track against its deadlines.
type SlaStatus string

const (
	SlaStatusOK      SlaStatus = "OK"
	SlaStatusWarning SlaStatus = "WARNING"
	SlaStatusOverdue SlaStatus = "OVERDUE"
)

// Ticket is the aggregate for support requests. The surrounding CRUD layer
// owns every field except SlaStatus, which the recompute job derives.
type Ticket struct {
	ID                 string
	RequesterID        string
	AssigneeID         *string
	Status             TicketStatus
	Severity           TicketSeverity
	Priority           Priority
	SlaRuleID          *string
	SlaStatus          SlaStatus
	CreatedAt          time.Time
	FirstResponseDueAt *time.Time
	FirstRespondedAt   *time.Time
	ResolutionDueAt    *time.Time
	ResolvedAt         *time.Time
	ClosedAt           *time.Time
}

// MessageAuthorType identifies who wrote a ticket message.
type MessageAuthorType string

const (
	AuthorTypeCustomer MessageAuthorType = "CUSTOMER"
	AuthorTypeStaff    MessageAuthorType = "STAFF"
)

// TicketMessage is a single reply on a ticket; aggregation input only.
type TicketMessage struct {
	ID         string
	TicketID   string
	AuthorType MessageAuthorType
	AuthorID   *string
	SentAt     time.Time
}
