package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ed-platform/account-service/internal/domain"
)

const groupColumns = `id, group_id, name, staff_name, email, phone, title, birthday,
       registration_business, opendate, created_at, updated_at`

var groupSortColumns = map[string]string{
	"id":         "id",
	"group_id":   "group_id",
	"name":       "name",
	"staff_name": "staff_name",
	"opendate":   "opendate",
	"birthday":   "birthday",
}

// GroupSortColumn resolves a client sort key to its column.
func GroupSortColumn(key string) (string, bool) {
	col, ok := groupSortColumns[key]
	return col, ok
}

// GroupFilter captures list parameters.
type GroupFilter struct {
	Search   *string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// GroupStats aggregates directory-wide counters.
type GroupStats struct {
	Total        int64
	WithStaff    int64
	WithContact  int64
	OpenedLast30 int64
}

// GroupRepository defines persistence access for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Group, error)
	GetByGroupID(ctx context.Context, groupID int64) (*domain.Group, error)
	GetByName(ctx context.Context, name string) (*domain.Group, error)
	GetByEmailOrPhone(ctx context.Context, identifier string) (*domain.Group, error)
	List(ctx context.Context, filter GroupFilter) ([]domain.Group, error)
	Count(ctx context.Context, filter GroupFilter) (int64, error)
	Stats(ctx context.Context) (*GroupStats, error)
	ListOpenedBetween(ctx context.Context, from, to time.Time) ([]domain.Group, error)
	ListUpcomingBirthdays(ctx context.Context, days int) ([]domain.Group, error)
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository returns a Postgres-backed implementation.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	const query = `
        INSERT INTO ed_group (group_id, name, staff_name, email, phone, title, birthday,
                              registration_business, opendate)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		group.GroupID,
		group.Name,
		group.StaffName,
		group.Email,
		group.Phone,
		group.Title,
		group.Birthday,
		group.RegistrationBusiness,
		group.OpenDate,
	).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
}

func (r *groupRepository) Update(ctx context.Context, group *domain.Group) error {
	const query = `
        UPDATE ed_group SET group_id=$1, name=$2, staff_name=$3, email=$4, phone=$5, title=$6,
            birthday=$7, registration_business=$8, opendate=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		group.GroupID,
		group.Name,
		group.StaffName,
		group.Email,
		group.Phone,
		group.Title,
		group.Birthday,
		group.RegistrationBusiness,
		group.OpenDate,
		group.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ed_group WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM ed_group WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *groupRepository) GetByGroupID(ctx context.Context, groupID int64) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM ed_group WHERE group_id=$1`
	return r.fetchSingle(ctx, query, groupID)
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM ed_group WHERE UPPER(name)=UPPER($1)`
	return r.fetchSingle(ctx, query, name)
}

func (r *groupRepository) GetByEmailOrPhone(ctx context.Context, identifier string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM ed_group WHERE email=$1 OR phone=$1`
	return r.fetchSingle(ctx, query, identifier)
}

func (r *groupRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Group, error) {
	var group domain.Group
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&group.ID,
		&group.GroupID,
		&group.Name,
		&group.StaffName,
		&group.Email,
		&group.Phone,
		&group.Title,
		&group.Birthday,
		&group.RegistrationBusiness,
		&group.OpenDate,
		&group.CreatedAt,
		&group.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &group, nil
}

func groupFilterClauses(filter GroupFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR staff_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)",
			n, n, n, n))
	}
	return clauses, args
}

func (r *groupRepository) List(ctx context.Context, filter GroupFilter) ([]domain.Group, error) {
	clauses, args := groupFilterClauses(filter)

	sortCol := "opendate"
	if col, ok := groupSortColumns[filter.SortBy]; ok {
		sortCol = col
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := `SELECT ` + groupColumns + ` FROM ed_group WHERE ` + strings.Join(clauses, " AND ") +
		fmt.Sprintf(" ORDER BY %s %s", sortCol, direction)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryMany(ctx, query, args...)
}

func (r *groupRepository) Count(ctx context.Context, filter GroupFilter) (int64, error) {
	clauses, args := groupFilterClauses(filter)
	query := `SELECT COUNT(*) FROM ed_group WHERE ` + strings.Join(clauses, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *groupRepository) Stats(ctx context.Context) (*GroupStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE staff_name IS NOT NULL),
               COUNT(*) FILTER (WHERE email IS NOT NULL OR phone IS NOT NULL),
               COUNT(*) FILTER (WHERE opendate >= NOW() - INTERVAL '30 days')
        FROM ed_group`

	var stats GroupStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.WithStaff,
		&stats.WithContact,
		&stats.OpenedLast30,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *groupRepository) ListOpenedBetween(ctx context.Context, from, to time.Time) ([]domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM ed_group
        WHERE opendate BETWEEN $1 AND $2 ORDER BY opendate`
	return r.queryMany(ctx, query, from, to)
}

func (r *groupRepository) ListUpcomingBirthdays(ctx context.Context, days int) ([]domain.Group, error) {
	// Month-day comparison mirrors the Oracle source; ranges spanning the
	// year boundary return the pre-wrap portion only.
	query := `SELECT ` + groupColumns + ` FROM ed_group
        WHERE birthday IS NOT NULL
          AND to_char(birthday, 'MM-DD') BETWEEN to_char(NOW(), 'MM-DD')
              AND to_char(NOW() + make_interval(days => $1), 'MM-DD')
        ORDER BY to_char(birthday, 'MM-DD')`
	return r.queryMany(ctx, query, days)
}

func (r *groupRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Group, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		var group domain.Group
		if err := rows.Scan(
			&group.ID,
			&group.GroupID,
			&group.Name,
			&group.StaffName,
			&group.Email,
			&group.Phone,
			&group.Title,
			&group.Birthday,
			&group.RegistrationBusiness,
			&group.OpenDate,
			&group.CreatedAt,
			&group.UpdatedAt,
		); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}
