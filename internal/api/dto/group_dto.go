package dto

import (
	"time"

	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/repository"
)

// CreateGroupRequest payload for new groups.
type CreateGroupRequest struct {
	GroupID              *int64     `json:"group_id,omitempty"`
	Name                 string     `json:"name"`
	StaffName            *string    `json:"staff_name,omitempty"`
	Email                *string    `json:"email,omitempty"`
	Phone                *string    `json:"phone,omitempty"`
	Title                *string    `json:"title,omitempty"`
	Birthday             *time.Time `json:"birthday,omitempty"`
	RegistrationBusiness *string    `json:"registration_business,omitempty"`
	OpenDate             *time.Time `json:"opendate,omitempty"`
}

// UpdateGroupRequest payload for partial updates.
type UpdateGroupRequest struct {
	GroupID              *int64     `json:"group_id,omitempty"`
	Name                 *string    `json:"name,omitempty"`
	StaffName            *string    `json:"staff_name,omitempty"`
	Email                *string    `json:"email,omitempty"`
	Phone                *string    `json:"phone,omitempty"`
	Title                *string    `json:"title,omitempty"`
	Birthday             *time.Time `json:"birthday,omitempty"`
	RegistrationBusiness *string    `json:"registration_business,omitempty"`
	OpenDate             *time.Time `json:"opendate,omitempty"`
}

// GroupResponse is the wire shape for a group.
type GroupResponse struct {
	ID                   int64      `json:"id"`
	GroupID              *int64     `json:"group_id"`
	Name                 string     `json:"name"`
	StaffName            *string    `json:"staff_name"`
	Email                *string    `json:"email"`
	Phone                *string    `json:"phone"`
	Title                *string    `json:"title"`
	Birthday             *time.Time `json:"birthday"`
	RegistrationBusiness *string    `json:"registration_business"`
	OpenDate             time.Time  `json:"opendate"`
	HasStaff             bool       `json:"has_staff"`
	HasContact           bool       `json:"has_contact"`
	Age                  *int       `json:"age"`
}

// FromGroup maps a domain group to its wire shape.
func FromGroup(group *domain.Group) GroupResponse {
	return GroupResponse{
		ID:                   group.ID,
		GroupID:              group.GroupID,
		Name:                 group.Name,
		StaffName:            group.StaffName,
		Email:                group.Email,
		Phone:                group.Phone,
		Title:                group.Title,
		Birthday:             group.Birthday,
		RegistrationBusiness: group.RegistrationBusiness,
		OpenDate:             group.OpenDate,
		HasStaff:             group.StaffName != nil,
		HasContact:           group.Email != nil || group.Phone != nil,
		Age:                  group.Age(time.Now()),
	}
}

// FromGroups maps a slice of groups.
func FromGroups(groups []domain.Group) []GroupResponse {
	out := make([]GroupResponse, len(groups))
	for i := range groups {
		out[i] = FromGroup(&groups[i])
	}
	return out
}

// GroupListResponse is the envelope for listing groups.
type GroupListResponse struct {
	Data       []GroupResponse `json:"data"`
	Pagination PaginationMeta  `json:"pagination"`
}

// GroupStatsResponse is the wire shape for group statistics.
type GroupStatsResponse struct {
	Total        int64 `json:"total_groups"`
	WithStaff    int64 `json:"groups_with_staff"`
	WithContact  int64 `json:"groups_with_contact"`
	OpenedLast30 int64 `json:"opened_last_30d"`
}

// FromGroupStats maps repository stats to the wire shape.
func FromGroupStats(stats *repository.GroupStats) GroupStatsResponse {
	return GroupStatsResponse{
		Total:        stats.Total,
		WithStaff:    stats.WithStaff,
		WithContact:  stats.WithContact,
		OpenedLast30: stats.OpenedLast30,
	}
}
