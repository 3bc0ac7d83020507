package domain

import "time"

// ChatSenderRole identifies who sent a chat message.
type ChatSenderRole string

const (
	ChatSenderStaff    ChatSenderRole = "STAFF"
	ChatSenderCustomer ChatSenderRole = "CUSTOMER"
)

// ChatSession is a live-support conversation; aggregation input only.
type ChatSession struct {
	ID            string
	CustomerID    string
	StaffID       *string
	Priority      Priority
	StartedAt     time.Time
	ClosedAt      *time.Time
	LastMessageAt *time.Time
}

// EndedAt returns the best-known end of the session: the explicit close time,
// falling back to the last message time.
func (s ChatSession) EndedAt() *time.Time {
	if s.ClosedAt != nil {
		return s.ClosedAt
	}
	return s.LastMessageAt
}

// ChatMessage is a single message within a chat session.
type ChatMessage struct {
	ID         string
	SessionID  string
	SenderRole ChatSenderRole
	SentAt     time.Time
}
