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

const accountColumns = `id, phone, email, password_hash, first_name, last_name, status,
       email_verified, failed_login_attempts, locked, locked_until, role, language,
       user_code, device_id, created_at, last_login_at, updated_at`

// accountSortColumns whitelists client-facing sort keys. ORDER BY cannot be a
// bound parameter, so only mapped columns ever reach the query text.
var accountSortColumns = map[string]string{
	"user_id":         "id",
	"phone":           "phone",
	"email":           "email",
	"first_name":      "first_name",
	"last_name":       "last_name",
	"created_date":    "created_at",
	"last_login_date": "last_login_at",
}

// AccountSortColumn resolves a client sort key to its column.
func AccountSortColumn(key string) (string, bool) {
	col, ok := accountSortColumns[key]
	return col, ok
}

// AccountFilter captures list parameters.
type AccountFilter struct {
	Status   *domain.AccountStatus
	Search   *string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// AccountStats aggregates directory-wide counters.
type AccountStats struct {
	Total          int64
	Active         int64
	Inactive       int64
	Suspended      int64
	Pending        int64
	EmailVerified  int64
	Locked         int64
	RecentLogins30 int64
}

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByPhoneOrEmail(ctx context.Context, identifier string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	Count(ctx context.Context, filter AccountFilter) (int64, error)
	Stats(ctx context.Context) (*AccountStats, error)
	SetLock(ctx context.Context, id int64, locked bool, until *time.Time) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status domain.AccountStatus) error
	BulkSetLock(ctx context.Context, ids []int64, locked bool) error
	RecordLogin(ctx context.Context, id int64) error
	RecordFailedLogin(ctx context.Context, id int64) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO ed_user (phone, email, password_hash, first_name, last_name, status,
                             email_verified, role, language, user_code, device_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Phone,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Status,
		account.EmailVerified,
		account.Role,
		account.Language,
		account.UserCode,
		account.DeviceID,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE ed_user SET phone=$1, email=$2, password_hash=$3, first_name=$4, last_name=$5,
            status=$6, email_verified=$7, role=$8, language=$9, device_id=$10, updated_at=NOW()
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		account.Phone,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Status,
		account.EmailVerified,
		account.Role,
		account.Language,
		account.DeviceID,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ed_user WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM ed_user WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM ed_user WHERE phone=$1`
	return r.fetchSingle(ctx, query, phone)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM ed_user WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) GetByPhoneOrEmail(ctx context.Context, identifier string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM ed_user WHERE phone=$1 OR email=$1`
	return r.fetchSingle(ctx, query, identifier)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Phone,
		&account.Email,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.Status,
		&account.EmailVerified,
		&account.FailedLoginAttempts,
		&account.Locked,
		&account.LockedUntil,
		&account.Role,
		&account.Language,
		&account.UserCode,
		&account.DeviceID,
		&account.CreatedAt,
		&account.LastLoginAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func accountFilterClauses(filter AccountFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(phone ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			n, n, n, n))
	}
	return clauses, args
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]domain.Account, error) {
	clauses, args := accountFilterClauses(filter)

	sortCol := "created_at"
	if col, ok := accountSortColumns[filter.SortBy]; ok {
		sortCol = col
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := `SELECT ` + accountColumns + ` FROM ed_user WHERE ` + strings.Join(clauses, " AND ") +
		fmt.Sprintf(" ORDER BY %s %s", sortCol, direction)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.Phone,
			&account.Email,
			&account.PasswordHash,
			&account.FirstName,
			&account.LastName,
			&account.Status,
			&account.EmailVerified,
			&account.FailedLoginAttempts,
			&account.Locked,
			&account.LockedUntil,
			&account.Role,
			&account.Language,
			&account.UserCode,
			&account.DeviceID,
			&account.CreatedAt,
			&account.LastLoginAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Count(ctx context.Context, filter AccountFilter) (int64, error) {
	clauses, args := accountFilterClauses(filter)
	query := `SELECT COUNT(*) FROM ed_user WHERE ` + strings.Join(clauses, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *accountRepository) Stats(ctx context.Context) (*AccountStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='ACTIVE'),
               COUNT(*) FILTER (WHERE status='INACTIVE'),
               COUNT(*) FILTER (WHERE status='SUSPENDED'),
               COUNT(*) FILTER (WHERE status='PENDING'),
               COUNT(*) FILTER (WHERE email_verified),
               COUNT(*) FILTER (WHERE locked),
               COUNT(*) FILTER (WHERE last_login_at >= NOW() - INTERVAL '30 days')
        FROM ed_user`

	var stats AccountStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Active,
		&stats.Inactive,
		&stats.Suspended,
		&stats.Pending,
		&stats.EmailVerified,
		&stats.Locked,
		&stats.RecentLogins30,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *accountRepository) SetLock(ctx context.Context, id int64, locked bool, until *time.Time) error {
	const query = `
        UPDATE ed_user SET locked=$1, locked_until=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, locked, until, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status domain.AccountStatus) error {
	const query = `
        UPDATE ed_user SET status=$1, updated_at=NOW() WHERE id = ANY($2)`
	_, err := r.pool.Exec(ctx, query, status, ids)
	return err
}

func (r *accountRepository) BulkSetLock(ctx context.Context, ids []int64, locked bool) error {
	const query = `
        UPDATE ed_user SET locked=$1, locked_until=NULL, updated_at=NOW() WHERE id = ANY($2)`
	_, err := r.pool.Exec(ctx, query, locked, ids)
	return err
}

func (r *accountRepository) RecordLogin(ctx context.Context, id int64) error {
	const query = `
        UPDATE ed_user SET failed_login_attempts=0, last_login_at=NOW(), updated_at=NOW()
        WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *accountRepository) RecordFailedLogin(ctx context.Context, id int64) error {
	const query = `
        UPDATE ed_user SET failed_login_attempts=failed_login_attempts+1, updated_at=NOW()
        WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
