package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ed-platform/account-service/internal/auth"
	"github.com/ed-platform/account-service/internal/config"
	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/events"
	"github.com/ed-platform/account-service/internal/repository"
	apperrors "github.com/ed-platform/account-service/pkg/util"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// AccountService implements account directory operations.
type AccountService struct {
	accounts   repository.AccountRepository
	hasher     auth.PasswordHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AccountDependencies encapsulates collaborator requirements.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAccountService builds the service. New accounts are hashed with bcrypt;
// login-side verification handles legacy digests separately.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		hasher:     auth.BcryptHasher{Cost: cfg.Auth.BcryptCost},
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ListAccountsParams captures query parameters for listing.
type ListAccountsParams struct {
	Page      int
	Limit     int
	Status    *domain.AccountStatus
	Search    *string
	SortBy    string
	SortOrder string
}

// AccountPage is a paginated listing result.
type AccountPage struct {
	Accounts   []domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// List returns accounts matching the filter, paginated.
func (s *AccountService) List(ctx context.Context, params ListAccountsParams) (*AccountPage, error) {
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
		if _, ok := repository.AccountSortColumn(sortBy); !ok {
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

	filter := repository.AccountFilter{
		Status:   params.Status,
		Search:   params.Search,
		SortBy:   sortBy,
		SortDesc: sortDesc,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	total, err := s.accounts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return &AccountPage{
		Accounts:   accounts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns a single account by id.
func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return account, nil
}

// GetByIdentifier finds an account by phone or email.
func (s *AccountService) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	account, err := s.accounts.GetByPhoneOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"identifier": identifier})
		}
		return nil, err
	}
	return account, nil
}

// CreateAccountInput carries new-account fields.
type CreateAccountInput struct {
	Phone     string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Role      *string
	Language  *string
}

// Create registers a new account. The stored digest is bcrypt; the generated
// user code is an uppercase 8-character handle.
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if !ValidPhone(input.Phone) {
		return nil, apperrors.NewValidationError("invalid phone number format", nil)
	}
	if !ValidEmail(input.Email) {
		return nil, apperrors.NewValidationError("invalid email format", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	if err := s.ensurePhoneFree(ctx, input.Phone, 0); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Digest(input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Phone:        input.Phone,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Status:       domain.AccountStatusActive,
		Role:         input.Role,
		Language:     input.Language,
		UserCode:     generateUserCode(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventAccountCreated, events.AccountCreatedPayload{
		AccountID: account.ID,
		Phone:     account.Phone,
		Email:     account.Email,
		Status:    account.Status,
	})
	return account, nil
}

// UpdateAccountInput carries partial-update fields.
type UpdateAccountInput struct {
	Phone         *string
	Email         *string
	FirstName     *string
	LastName      *string
	Status        *domain.AccountStatus
	EmailVerified *bool
	Role          *string
	Language      *string
}

// Update applies a partial update, re-checking uniqueness on contact changes.
func (s *AccountService) Update(ctx context.Context, id int64, input UpdateAccountInput) (*domain.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil && *input.Phone != account.Phone {
		if !ValidPhone(*input.Phone) {
			return nil, apperrors.NewValidationError("invalid phone number format", nil)
		}
		if err := s.ensurePhoneFree(ctx, *input.Phone, id); err != nil {
			return nil, err
		}
		account.Phone = *input.Phone
	}
	if input.Email != nil && *input.Email != account.Email {
		if !ValidEmail(*input.Email) {
			return nil, apperrors.NewValidationError("invalid email format", nil)
		}
		if err := s.ensureEmailFree(ctx, *input.Email, id); err != nil {
			return nil, err
		}
		account.Email = *input.Email
	}
	if input.FirstName != nil {
		account.FirstName = input.FirstName
	}
	if input.LastName != nil {
		account.LastName = input.LastName
	}
	if input.Status != nil {
		account.Status = *input.Status
	}
	if input.EmailVerified != nil {
		account.EmailVerified = *input.EmailVerified
	}
	if input.Role != nil {
		account.Role = input.Role
	}
	if input.Language != nil {
		account.Language = input.Language
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// Stats returns directory-wide counters.
func (s *AccountService) Stats(ctx context.Context) (*repository.AccountStats, error) {
	return s.accounts.Stats(ctx)
}

// Lock locks the account, optionally until a given time.
func (s *AccountService) Lock(ctx context.Context, id int64, until *time.Time) error {
	if err := s.accounts.SetLock(ctx, id, true, until); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	s.publish(ctx, events.EventAccountLocked, events.AccountLockedPayload{
		AccountID:   id,
		LockedUntil: until,
	})
	return nil
}

// Unlock clears the lock.
func (s *AccountService) Unlock(ctx context.Context, id int64) error {
	if err := s.accounts.SetLock(ctx, id, false, nil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// BulkAction applies one verb to a set of accounts.
func (s *AccountService) BulkAction(ctx context.Context, ids []int64, action string) error {
	if len(ids) == 0 {
		return apperrors.NewValidationError("user_ids required", nil)
	}

	switch action {
	case "activate":
		return s.accounts.BulkUpdateStatus(ctx, ids, domain.AccountStatusActive)
	case "deactivate":
		return s.accounts.BulkUpdateStatus(ctx, ids, domain.AccountStatusInactive)
	case "suspend":
		return s.accounts.BulkUpdateStatus(ctx, ids, domain.AccountStatusSuspended)
	case "lock":
		return s.accounts.BulkSetLock(ctx, ids, true)
	case "unlock":
		return s.accounts.BulkSetLock(ctx, ids, false)
	default:
		return apperrors.NewValidationError("unknown bulk action", map[string]any{"action": action})
	}
}

func (s *AccountService) ensurePhoneFree(ctx context.Context, phone string, selfID int64) error {
	existing, err := s.accounts.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.NewConflict("phone number already registered", nil)
	}
	return nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.NewConflict("email already registered", nil)
	}
	return nil
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func generateUserCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
