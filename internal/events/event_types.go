package events

import (
	"time"

	"github.com/ed-platform/account-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventAccountCreated EventType = "account_created"
	EventAccountLocked  EventType = "account_locked"
	EventGroupCreated   EventType = "group_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	AccountID int64  `json:"account_id"`
	Phone     string `json:"phone"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Phone  string `json:"phone"`
	Reason string `json:"reason"`
}

// AccountCreatedPayload payload.
type AccountCreatedPayload struct {
	AccountID int64                `json:"account_id"`
	Phone     string               `json:"phone"`
	Email     string               `json:"email"`
	Status    domain.AccountStatus `json:"status"`
}

// AccountLockedPayload payload.
type AccountLockedPayload struct {
	AccountID   int64      `json:"account_id"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}

// GroupCreatedPayload payload.
type GroupCreatedPayload struct {
	GroupID int64  `json:"group_id"`
	Name    string `json:"name"`
}
