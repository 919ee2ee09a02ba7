package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ed-platform/account-service/internal/domain"
	apperrors "github.com/ed-platform/account-service/pkg/util"
)

func newTestAccountService(repo *fakeAccountRepo) *AccountService {
	return NewAccountService(testAuthConfig(), AccountDependencies{
		AccountRepo: repo,
		Logger:      zap.NewNop(),
	})
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestCreateAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestAccountService(repo)

	account, err := svc.Create(context.Background(), CreateAccountInput{
		Phone:    "0900000000",
		Email:    "user@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusActive, account.Status)
	assert.Len(t, account.UserCode, 8)
	assert.Equal(t, strings.ToUpper(account.UserCode), account.UserCode)
	assert.True(t, strings.HasPrefix(account.PasswordHash, "$2"), "new accounts use bcrypt digests")
}

func TestCreateAccountValidation(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo())

	cases := []struct {
		name  string
		input CreateAccountInput
	}{
		{"bad phone", CreateAccountInput{Phone: "abc", Email: "user@example.com", Password: "longenough"}},
		{"bad email", CreateAccountInput{Phone: "0900000000", Email: "nope", Password: "longenough"}},
		{"short password", CreateAccountInput{Phone: "0900000000", Email: "user@example.com", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
		})
	}
}

func TestCreateAccountDuplicatePhone(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(repo, "0900000000", "secret1", domain.AccountStatusActive)
	svc := newTestAccountService(repo)

	_, err := svc.Create(context.Background(), CreateAccountInput{
		Phone:    "0900000000",
		Email:    "other@example.com",
		Password: "longenough",
	})
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))
}

func TestListAccountsValidation(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo())

	_, err := svc.List(context.Background(), ListAccountsParams{Limit: 1000})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	_, err = svc.List(context.Background(), ListAccountsParams{SortBy: "password_hash"})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	_, err = svc.List(context.Background(), ListAccountsParams{SortOrder: "SIDEWAYS"})
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestListAccountsPagination(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(repo, "0900000001", "secret1", domain.AccountStatusActive)
	seedAccount(repo, "0900000002", "secret1", domain.AccountStatusSuspended)
	svc := newTestAccountService(repo)

	page, err := svc.List(context.Background(), ListAccountsParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(1), page.TotalPages)

	status := domain.AccountStatusSuspended
	page, err = svc.List(context.Background(), ListAccountsParams{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestUpdateAccountUniqueness(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(repo, "0900000001", "secret1", domain.AccountStatusActive)
	second := seedAccount(repo, "0900000002", "secret1", domain.AccountStatusActive)
	svc := newTestAccountService(repo)

	taken := "0900000001"
	_, err := svc.Update(context.Background(), second.ID, UpdateAccountInput{Phone: &taken})
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))
}

func TestBulkAction(t *testing.T) {
	repo := newFakeAccountRepo()
	a := seedAccount(repo, "0900000001", "secret1", domain.AccountStatusActive)
	b := seedAccount(repo, "0900000002", "secret1", domain.AccountStatusActive)
	svc := newTestAccountService(repo)

	require.NoError(t, svc.BulkAction(context.Background(), []int64{a.ID, b.ID}, "suspend"))
	assert.Equal(t, domain.AccountStatusSuspended, repo.accounts[a.ID].Status)
	assert.Equal(t, domain.AccountStatusSuspended, repo.accounts[b.ID].Status)

	require.NoError(t, svc.BulkAction(context.Background(), []int64{a.ID}, "lock"))
	assert.True(t, repo.accounts[a.ID].Locked)

	err := svc.BulkAction(context.Background(), []int64{a.ID}, "explode")
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	err = svc.BulkAction(context.Background(), nil, "lock")
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestLockUnlock(t *testing.T) {
	repo := newFakeAccountRepo()
	account := seedAccount(repo, "0900000001", "secret1", domain.AccountStatusActive)
	svc := newTestAccountService(repo)

	require.NoError(t, svc.Lock(context.Background(), account.ID, nil))
	assert.True(t, repo.accounts[account.ID].Locked)

	require.NoError(t, svc.Unlock(context.Background(), account.ID))
	assert.False(t, repo.accounts[account.ID].Locked)

	err := svc.Lock(context.Background(), 9999, nil)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestGetMissingAccount(t *testing.T) {
	svc := newTestAccountService(newFakeAccountRepo())

	_, err := svc.Get(context.Background(), 123)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}
