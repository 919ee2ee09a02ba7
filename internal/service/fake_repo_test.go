package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/repository"
)

// fakeAccountRepo is an in-memory AccountRepository for tests.
type fakeAccountRepo struct {
	accounts map[int64]*domain.Account
	nextID   int64
	lookups  int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[int64]*domain.Account{}, nextID: 1}
}

func (f *fakeAccountRepo) add(account domain.Account) *domain.Account {
	account.ID = f.nextID
	f.nextID++
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	account.UpdatedAt = account.CreatedAt
	f.accounts[account.ID] = &account
	return f.accounts[account.ID]
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	account.ID = f.nextID
	f.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if _, ok := f.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) GetByPhone(_ context.Context, phone string) (*domain.Account, error) {
	f.lookups++
	for _, account := range f.accounts {
		if account.Phone == phone {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetByPhoneOrEmail(_ context.Context, identifier string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Phone == identifier || account.Email == identifier {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) matches(account *domain.Account, filter repository.AccountFilter) bool {
	if filter.Status != nil && account.Status != *filter.Status {
		return false
	}
	if filter.Search != nil {
		needle := strings.ToLower(*filter.Search)
		hay := strings.ToLower(account.Phone + " " + account.Email)
		if account.FirstName != nil {
			hay += " " + strings.ToLower(*account.FirstName)
		}
		if account.LastName != nil {
			hay += " " + strings.ToLower(*account.LastName)
		}
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	return true
}

func (f *fakeAccountRepo) List(_ context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	out := []domain.Account{}
	for _, account := range f.accounts {
		if f.matches(account, filter) {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) Count(_ context.Context, filter repository.AccountFilter) (int64, error) {
	var total int64
	for _, account := range f.accounts {
		if f.matches(account, filter) {
			total++
		}
	}
	return total, nil
}

func (f *fakeAccountRepo) Stats(_ context.Context) (*repository.AccountStats, error) {
	stats := &repository.AccountStats{}
	for _, account := range f.accounts {
		stats.Total++
		switch account.Status {
		case domain.AccountStatusActive:
			stats.Active++
		case domain.AccountStatusInactive:
			stats.Inactive++
		case domain.AccountStatusSuspended:
			stats.Suspended++
		case domain.AccountStatusPending:
			stats.Pending++
		}
		if account.EmailVerified {
			stats.EmailVerified++
		}
		if account.Locked {
			stats.Locked++
		}
	}
	return stats, nil
}

func (f *fakeAccountRepo) SetLock(_ context.Context, id int64, locked bool, until *time.Time) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.Locked = locked
	account.LockedUntil = until
	return nil
}

func (f *fakeAccountRepo) BulkUpdateStatus(_ context.Context, ids []int64, status domain.AccountStatus) error {
	for _, id := range ids {
		if account, ok := f.accounts[id]; ok {
			account.Status = status
		}
	}
	return nil
}

func (f *fakeAccountRepo) BulkSetLock(_ context.Context, ids []int64, locked bool) error {
	for _, id := range ids {
		if account, ok := f.accounts[id]; ok {
			account.Locked = locked
			account.LockedUntil = nil
		}
	}
	return nil
}

func (f *fakeAccountRepo) RecordLogin(_ context.Context, id int64) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	account.FailedLoginAttempts = 0
	account.LastLoginAt = &now
	return nil
}

func (f *fakeAccountRepo) RecordFailedLogin(_ context.Context, id int64) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.FailedLoginAttempts++
	return nil
}

// fakeThrottle records throttle interactions for tests.
type fakeThrottle struct {
	allowed  bool
	failures []string
	resets   []string
}

func (f *fakeThrottle) Allow(_ context.Context, _ string) bool {
	return f.allowed
}

func (f *fakeThrottle) RecordFailure(_ context.Context, phone string) error {
	f.failures = append(f.failures, phone)
	return nil
}

func (f *fakeThrottle) Reset(_ context.Context, phone string) error {
	f.resets = append(f.resets, phone)
	return nil
}
