package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/events"
	"github.com/ed-platform/account-service/internal/repository"
	apperrors "github.com/ed-platform/account-service/pkg/util"
)

// GroupService implements group directory operations.
type GroupService struct {
	groups     repository.GroupRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewGroupService builds the service.
func NewGroupService(groups repository.GroupRepository, dispatcher events.Dispatcher, logger *zap.Logger) *GroupService {
	return &GroupService{groups: groups, dispatcher: dispatcher, logger: logger}
}

// ListGroupsParams captures query parameters for listing.
type ListGroupsParams struct {
	Page      int
	Limit     int
	Search    *string
	SortBy    string
	SortOrder string
}

// GroupPage is a paginated listing result.
type GroupPage struct {
	Groups     []domain.Group
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// List returns groups matching the filter, paginated.
func (s *GroupService) List(ctx context.Context, params ListGroupsParams) (*GroupPage, error) {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		return nil, apperrors.NewValidationError("invalid pagination parameters", map[string]any{"limit": params.Limit})
	}

	sortBy := params.SortBy
	if sortBy != "" {
		if _, ok := repository.GroupSortColumn(sortBy); !ok {
			return nil, apperrors.NewValidationError("invalid sort column", map[string]any{"sort_by": sortBy})
		}
	}
	sortDesc := true
	if params.SortOrder != "" {
		switch strings.ToUpper(params.SortOrder) {
		case "ASC":
			sortDesc = false
		case "DESC":
			sortDesc = true
		default:
			return nil, apperrors.NewValidationError("invalid sort order", map[string]any{"sort_order": params.SortOrder})
		}
	}

	filter := repository.GroupFilter{
		Search:   params.Search,
		SortBy:   sortBy,
		SortDesc: sortDesc,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	total, err := s.groups.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	groups, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return &GroupPage{
		Groups:     groups,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns a single group by primary key.
func (s *GroupService) Get(ctx context.Context, id int64) (*domain.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("group", map[string]any{"id": id})
		}
		return nil, err
	}
	return group, nil
}

// GetByGroupID returns a group by its business identifier.
func (s *GroupService) GetByGroupID(ctx context.Context, groupID int64) (*domain.Group, error) {
	group, err := s.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("group", map[string]any{"group_id": groupID})
		}
		return nil, err
	}
	return group, nil
}

// GetByIdentifier finds a group by email or phone.
func (s *GroupService) GetByIdentifier(ctx context.Context, identifier string) (*domain.Group, error) {
	group, err := s.groups.GetByEmailOrPhone(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("group", map[string]any{"identifier": identifier})
		}
		return nil, err
	}
	return group, nil
}

// CreateGroupInput carries new-group fields.
type CreateGroupInput struct {
	GroupID              *int64
	Name                 string
	StaffName            *string
	Email                *string
	Phone                *string
	Title                *string
	Birthday             *time.Time
	RegistrationBusiness *string
	OpenDate             *time.Time
}

// Create registers a new group. Names are unique case-insensitively; the open
// date defaults to now.
func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("group name is required", nil)
	}
	if input.Email != nil && !ValidEmail(*input.Email) {
		return nil, apperrors.NewValidationError("invalid email format", nil)
	}
	if input.Phone != nil && !ValidPhone(*input.Phone) {
		return nil, apperrors.NewValidationError("invalid phone number format", nil)
	}

	if _, err := s.groups.GetByName(ctx, input.Name); err == nil {
		return nil, apperrors.NewConflict("group name already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	openDate := time.Now()
	if input.OpenDate != nil {
		openDate = *input.OpenDate
	}

	group := &domain.Group{
		GroupID:              input.GroupID,
		Name:                 input.Name,
		StaffName:            input.StaffName,
		Email:                input.Email,
		Phone:                input.Phone,
		Title:                input.Title,
		Birthday:             input.Birthday,
		RegistrationBusiness: input.RegistrationBusiness,
		OpenDate:             openDate,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventGroupCreated,
			Timestamp: time.Now(),
			Payload:   events.GroupCreatedPayload{GroupID: group.ID, Name: group.Name},
		})
	}
	return group, nil
}

// UpdateGroupInput carries partial-update fields.
type UpdateGroupInput struct {
	GroupID              *int64
	Name                 *string
	StaffName            *string
	Email                *string
	Phone                *string
	Title                *string
	Birthday             *time.Time
	RegistrationBusiness *string
	OpenDate             *time.Time
}

// Update applies a partial update, re-checking name uniqueness on rename.
func (s *GroupService) Update(ctx context.Context, id int64, input UpdateGroupInput) (*domain.Group, error) {
	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && !strings.EqualFold(*input.Name, group.Name) {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.NewValidationError("group name is required", nil)
		}
		if _, err := s.groups.GetByName(ctx, *input.Name); err == nil {
			return nil, apperrors.NewConflict("group name already exists", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		group.Name = *input.Name
	}
	if input.Email != nil {
		if !ValidEmail(*input.Email) {
			return nil, apperrors.NewValidationError("invalid email format", nil)
		}
		group.Email = input.Email
	}
	if input.Phone != nil {
		if !ValidPhone(*input.Phone) {
			return nil, apperrors.NewValidationError("invalid phone number format", nil)
		}
		group.Phone = input.Phone
	}
	if input.GroupID != nil {
		group.GroupID = input.GroupID
	}
	if input.StaffName != nil {
		group.StaffName = input.StaffName
	}
	if input.Title != nil {
		group.Title = input.Title
	}
	if input.Birthday != nil {
		group.Birthday = input.Birthday
	}
	if input.RegistrationBusiness != nil {
		group.RegistrationBusiness = input.RegistrationBusiness
	}
	if input.OpenDate != nil {
		group.OpenDate = *input.OpenDate
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group.
func (s *GroupService) Delete(ctx context.Context, id int64) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("group", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// Stats returns directory-wide counters.
func (s *GroupService) Stats(ctx context.Context) (*repository.GroupStats, error) {
	return s.groups.Stats(ctx)
}

// OpenedBetween lists groups whose open date falls within the range.
func (s *GroupService) OpenedBetween(ctx context.Context, from, to time.Time) ([]domain.Group, error) {
	if !from.Before(to) {
		return nil, apperrors.NewValidationError("start date must precede end date", nil)
	}
	return s.groups.ListOpenedBetween(ctx, from, to)
}

// UpcomingBirthdays lists groups with a birthday in the next N days.
func (s *GroupService) UpcomingBirthdays(ctx context.Context, days int) ([]domain.Group, error) {
	if days == 0 {
		days = 30
	}
	if days < 1 || days > 365 {
		return nil, apperrors.NewValidationError("days must be between 1 and 365", map[string]any{"days": days})
	}
	return s.groups.ListUpcomingBirthdays(ctx, days)
}
