package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ed-platform/account-service/internal/api/dto"
	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/service"
)

var accountStatusFilters = map[string]domain.AccountStatus{
	"ACTIVE":    domain.AccountStatusActive,
	"INACTIVE":  domain.AccountStatusInactive,
	"SUSPENDED": domain.AccountStatusSuspended,
	"PENDING":   domain.AccountStatusPending,
}

// UsersHandler exposes account directory endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accountService *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accountService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	params := service.ListAccountsParams{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := accountStatusFilters[raw]
		if !ok {
			return fiber.NewError(http.StatusBadRequest, "invalid status filter")
		}
		params.Status = &status
	}
	if search := c.Query("search"); search != "" {
		params.Search = &search
	}

	page, err := h.accounts.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.JSON(dto.UserListResponse{
		Data: dto.FromAccounts(page.Accounts),
		Pagination: dto.PaginationMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// Stats handles GET /users/stats.
func (h *UsersHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.accounts.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAccountStats(stats)})
}

// Search handles GET /users/search/:identifier.
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	account, err := h.accounts.GetByIdentifier(c.Context(), c.Params("identifier"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAccount(account)})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	account, err := h.accounts.Get(c.Context(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAccount(account)})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Phone == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "phone, email, password required")
	}

	account, err := h.accounts.Create(c.Context(), service.CreateAccountInput{
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Language:  req.Language,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAccount(account)})
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	input := service.UpdateAccountInput{
		Phone:         req.Phone,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		EmailVerified: req.EmailVerified,
		Role:          req.Role,
		Language:      req.Language,
	}
	if req.UserStatus != nil {
		status, ok := accountStatusFilters[*req.UserStatus]
		if !ok {
			return fiber.NewError(http.StatusBadRequest, "invalid user status")
		}
		input.Status = &status
	}

	account, err := h.accounts.Update(c.Context(), int64(id), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAccount(account)})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	if err := h.accounts.Delete(c.Context(), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Lock handles POST /users/:id/lock.
func (h *UsersHandler) Lock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}

	var req dto.LockUserRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	if err := h.accounts.Lock(c.Context(), int64(id), req.LockUntil); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "account locked"})
}

// Unlock handles POST /users/:id/unlock.
func (h *UsersHandler) Unlock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	if err := h.accounts.Unlock(c.Context(), int64(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "account unlocked"})
}

// BulkAction handles POST /users/bulk-action.
func (h *UsersHandler) BulkAction(c *fiber.Ctx) error {
	var req dto.BulkActionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.accounts.BulkAction(c.Context(), req.UserIDs, req.Action); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "bulk action applied",
		"count":   len(req.UserIDs),
	})
}
