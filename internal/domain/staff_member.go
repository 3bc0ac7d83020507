package domain

// StaffMember models a support agent. Only identity and active flag matter to
// the aggregation pipeline; everything else lives in the admin layer.
type StaffMember struct {
	ID     string
	Name   string
	Active bool
}
