package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/repository"
)

type fakeGroupRepo struct {
	groups map[int64]*domain.Group
	nextID int64
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[int64]*domain.Group{}, nextID: 1}
}

func (f *fakeGroupRepo) Create(_ context.Context, group *domain.Group) error {
	group.ID = f.nextID
	f.nextID++
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt
	copied := *group
	f.groups[group.ID] = &copied
	return nil
}

func (f *fakeGroupRepo) Update(_ context.Context, group *domain.Group) error {
	if _, ok := f.groups[group.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *group
	f.groups[group.ID] = &copied
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.groups[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.groups, id)
	return nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id int64) (*domain.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *group
	return &copied, nil
}

func (f *fakeGroupRepo) GetByGroupID(_ context.Context, groupID int64) (*domain.Group, error) {
	for _, group := range f.groups {
		if group.GroupID != nil && *group.GroupID == groupID {
			copied := *group
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGroupRepo) GetByName(_ context.Context, name string) (*domain.Group, error) {
	for _, group := range f.groups {
		if strings.EqualFold(group.Name, name) {
			copied := *group
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGroupRepo) GetByEmailOrPhone(_ context.Context, identifier string) (*domain.Group, error) {
	for _, group := range f.groups {
		if (group.Email != nil && *group.Email == identifier) ||
			(group.Phone != nil && *group.Phone == identifier) {
			copied := *group
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGroupRepo) List(_ context.Context, _ repository.GroupFilter) ([]domain.Group, error) {
	out := []domain.Group{}
	for _, group := range f.groups {
		out = append(out, *group)
	}
	return out, nil
}

func (f *fakeGroupRepo) Count(_ context.Context, _ repository.GroupFilter) (int64, error) {
	return int64(len(f.groups)), nil
}

func (f *fakeGroupRepo) Stats(_ context.Context) (*repository.GroupStats, error) {
	stats := &repository.GroupStats{}
	for _, group := range f.groups {
		stats.Total++
		if group.StaffName != nil {
			stats.WithStaff++
		}
		if group.Email != nil || group.Phone != nil {
			stats.WithContact++
		}
	}
	return stats, nil
}

func (f *fakeGroupRepo) ListOpenedBetween(_ context.Context, from, to time.Time) ([]domain.Group, error) {
	out := []domain.Group{}
	for _, group := range f.groups {
		if !group.OpenDate.Before(from) && !group.OpenDate.After(to) {
			out = append(out, *group)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) ListUpcomingBirthdays(_ context.Context, _ int) ([]domain.Group, error) {
	out := []domain.Group{}
	for _, group := range f.groups {
		if group.Birthday != nil {
			out = append(out, *group)
		}
	}
	return out, nil
}

func newTestGroupService(repo *fakeGroupRepo) *GroupService {
	return NewGroupService(repo, nil, zap.NewNop())
}

func TestCreateGroup(t *testing.T) {
	svc := newTestGroupService(newFakeGroupRepo())

	group, err := svc.Create(context.Background(), CreateGroupInput{Name: "Northern Branch"})
	require.NoError(t, err)
	assert.Equal(t, "Northern Branch", group.Name)
	assert.False(t, group.OpenDate.IsZero(), "open date defaults to now")
}

func TestCreateGroupValidation(t *testing.T) {
	svc := newTestGroupService(newFakeGroupRepo())

	_, err := svc.Create(context.Background(), CreateGroupInput{Name: "  "})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	bad := "not-an-email"
	_, err = svc.Create(context.Background(), CreateGroupInput{Name: "G", Email: &bad})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	badPhone := "xyz"
	_, err = svc.Create(context.Background(), CreateGroupInput{Name: "G", Phone: &badPhone})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestCreateGroupDuplicateName(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := newTestGroupService(repo)

	_, err := svc.Create(context.Background(), CreateGroupInput{Name: "Northern Branch"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateGroupInput{Name: "northern branch"})
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))
}

func TestGroupRename(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := newTestGroupService(repo)

	first, err := svc.Create(context.Background(), CreateGroupInput{Name: "First"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateGroupInput{Name: "Second"})
	require.NoError(t, err)

	taken := "Second"
	_, err = svc.Update(context.Background(), first.ID, UpdateGroupInput{Name: &taken})
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))

	fresh := "Renamed"
	updated, err := svc.Update(context.Background(), first.ID, UpdateGroupInput{Name: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestOpenedBetweenValidation(t *testing.T) {
	svc := newTestGroupService(newFakeGroupRepo())

	now := time.Now()
	_, err := svc.OpenedBetween(context.Background(), now, now.Add(-time.Hour))
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestUpcomingBirthdaysValidation(t *testing.T) {
	svc := newTestGroupService(newFakeGroupRepo())

	_, err := svc.UpcomingBirthdays(context.Background(), 400)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	_, err = svc.UpcomingBirthdays(context.Background(), -1)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	groups, err := svc.UpcomingBirthdays(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupAge(t *testing.T) {
	birthday := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	group := &domain.Group{Birthday: &birthday}

	age := group.Age(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, age)
	assert.Equal(t, 34, *age)

	age = group.Age(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, age)
	assert.Equal(t, 35, *age)

	assert.Nil(t, (&domain.Group{}).Age(time.Now()))
}
