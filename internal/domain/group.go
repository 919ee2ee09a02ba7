package domain

import "time"

// Group is the domain model for partner groups.
type Group struct {
	ID                   int64
	GroupID              *int64
	Name                 string
	StaffName            *string
	Email                *string
	Phone                *string
	Title                *string
	Birthday             *time.Time
	RegistrationBusiness *string
	OpenDate             time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Age returns the group's contact age in full years, or nil when no birthday
// is recorded.
func (g *Group) Age(now time.Time) *int {
	if g.Birthday == nil {
		return nil
	}
	b := *g.Birthday
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return &age
}
