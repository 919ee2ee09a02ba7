package dto

import (
	"time"

	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/repository"
)

// CreateUserRequest payload for new accounts.
type CreateUserRequest struct {
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// UpdateUserRequest payload for partial updates.
type UpdateUserRequest struct {
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	UserStatus    *string `json:"user_status,omitempty"`
	EmailVerified *bool   `json:"is_email_verified,omitempty"`
	Role          *string `json:"role,omitempty"`
	Language      *string `json:"language,omitempty"`
}

// LockUserRequest payload for account locking.
type LockUserRequest struct {
	LockUntil *time.Time `json:"lock_until,omitempty"`
}

// BulkActionRequest payload for bulk status changes.
type BulkActionRequest struct {
	UserIDs []int64 `json:"user_ids"`
	Action  string  `json:"action"`
}

// UserResponse is the wire shape for an account. The password digest is
// never included.
type UserResponse struct {
	ID                  int64      `json:"id"`
	Phone               string     `json:"phone"`
	Email               string     `json:"email"`
	FirstName           *string    `json:"first_name"`
	LastName            *string    `json:"last_name"`
	UserStatus          string     `json:"user_status"`
	EmailVerified       bool       `json:"is_email_verified"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	Locked              bool       `json:"is_account_locked"`
	LockedUntil         *time.Time `json:"account_locked_until"`
	Role                *string    `json:"role"`
	Language            *string    `json:"language"`
	UserCode            string     `json:"user_code"`
	CreatedAt           time.Time  `json:"created_date"`
	LastLoginAt         *time.Time `json:"last_login_date"`
}

// FromAccount maps a domain account to its wire shape.
func FromAccount(account *domain.Account) UserResponse {
	return UserResponse{
		ID:                  account.ID,
		Phone:               account.Phone,
		Email:               account.Email,
		FirstName:           account.FirstName,
		LastName:            account.LastName,
		UserStatus:          string(account.Status),
		EmailVerified:       account.EmailVerified,
		FailedLoginAttempts: account.FailedLoginAttempts,
		Locked:              account.Locked,
		LockedUntil:         account.LockedUntil,
		Role:                account.Role,
		Language:            account.Language,
		UserCode:            account.UserCode,
		CreatedAt:           account.CreatedAt,
		LastLoginAt:         account.LastLoginAt,
	}
}

// FromAccounts maps a slice of accounts.
func FromAccounts(accounts []domain.Account) []UserResponse {
	out := make([]UserResponse, len(accounts))
	for i := range accounts {
		out[i] = FromAccount(&accounts[i])
	}
	return out
}

// PaginationMeta describes a page of results.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// UserListResponse is the envelope for listing accounts.
type UserListResponse struct {
	Data       []UserResponse `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// UserStatsResponse is the wire shape for directory statistics.
type UserStatsResponse struct {
	Total          int64 `json:"total_users"`
	Active         int64 `json:"active_users"`
	Inactive       int64 `json:"inactive_users"`
	Suspended      int64 `json:"suspended_users"`
	Pending        int64 `json:"pending_users"`
	EmailVerified  int64 `json:"verified_users"`
	Locked         int64 `json:"locked_users"`
	RecentLogins30 int64 `json:"recent_logins_30d"`
}

// FromAccountStats maps repository stats to the wire shape.
func FromAccountStats(stats *repository.AccountStats) UserStatsResponse {
	return UserStatsResponse{
		Total:          stats.Total,
		Active:         stats.Active,
		Inactive:       stats.Inactive,
		Suspended:      stats.Suspended,
		Pending:        stats.Pending,
		EmailVerified:  stats.EmailVerified,
		Locked:         stats.Locked,
		RecentLogins30: stats.RecentLogins30,
	}
}
