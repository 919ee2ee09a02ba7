package domain

import "time"

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusPending   AccountStatus = "PENDING"
	AccountStatusReset     AccountStatus = "RESET"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

// Account is the domain model for registered users. The phone number is the
// natural key used for login.
type Account struct {
	ID                  int64
	Phone               string
	Email               string
	PasswordHash        string
	FirstName           *string
	LastName            *string
	Status              AccountStatus
	EmailVerified       bool
	FailedLoginAttempts int
	Locked              bool
	LockedUntil         *time.Time
	Role                *string
	Language            *string
	UserCode            string
	DeviceID            *string
	CreatedAt           time.Time
	LastLoginAt         *time.Time
	UpdatedAt           time.Time
}

// DisplayName joins the name parts, falling back to the phone number.
func (a *Account) DisplayName() string {
	switch {
	case a.FirstName != nil && a.LastName != nil:
		return *a.FirstName + " " + *a.LastName
	case a.FirstName != nil:
		return *a.FirstName
	case a.LastName != nil:
		return *a.LastName
	default:
		return a.Phone
	}
}
