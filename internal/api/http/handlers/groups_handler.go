package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ed-platform/account-service/internal/api/dto"
	"github.com/ed-platform/account-service/internal/service"
)

// GroupsHandler exposes group directory endpoints.
type GroupsHandler struct {
	groups *service.GroupService
}

// NewGroupsHandler constructs handler.
func NewGroupsHandler(groupService *service.GroupService) *GroupsHandler {
	return &GroupsHandler{groups: groupService}
}

// List handles GET /groups.
func (h *GroupsHandler) List(c *fiber.Ctx) error {
	params := service.ListGroupsParams{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if search := c.Query("search"); search != "" {
		params.Search = &search
	}

	page, err := h.groups.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.JSON(dto.GroupListResponse{
		Data: dto.FromGroups(page.Groups),
		Pagination: dto.PaginationMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// Stats handles GET /groups/stats.
func (h *GroupsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.groups.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromGroupStats(stats)})
}

// Get handles GET /groups/:id.
func (h *GroupsHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid group id")
	}
	group, err := h.groups.Get(c.Context(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromGroup(group)})
}

// GetByGroupID handles GET /groups/group-id/:groupId.
func (h *GroupsHandler) GetByGroupID(c *fiber.Ctx) error {
	groupID, err := strconv.ParseInt(c.Params("groupId"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid group id")
	}
	group, err := h.groups.GetByGroupID(c.Context(), groupID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromGroup(group)})
}

// Search handles GET /groups/search/:identifier.
func (h *GroupsHandler) Search(c *fiber.Ctx) error {
	group, err := h.groups.GetByIdentifier(c.Context(), c.Params("identifier"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromGroup(group)})
}

// DateRange handles GET /groups/date-range.
func (h *GroupsHandler) DateRange(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("start_date"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid start_date")
	}
	to, err := parseDate(c.Query("end_date"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid end_date")
	}

	groups, err := h.groups.OpenedBetween(c.Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  dto.FromGroups(groups),
		"count": len(groups),
	})
}

// Birthdays handles GET /groups/birthdays.
func (h *GroupsHandler) Birthdays(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	groups, err := h.groups.UpcomingBirthdays(c.Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":       dto.FromGroups(groups),
		"count":      len(groups),
		"days_range": days,
	})
}

// Create handles POST /groups.
func (h *GroupsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	group, err := h.groups.Create(c.Context(), service.CreateGroupInput{
		GroupID:              req.GroupID,
		Name:                 req.Name,
		StaffName:            req.StaffName,
		Email:                req.Email,
		Phone:                req.Phone,
		Title:                req.Title,
		Birthday:             req.Birthday,
		RegistrationBusiness: req.RegistrationBusiness,
		OpenDate:             req.OpenDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromGroup(group)})
}

// Update handles PATCH /groups/:id.
func (h *GroupsHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid group id")
	}

	var req dto.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	group, err := h.groups.Update(c.Context(), int64(id), service.UpdateGroupInput{
		GroupID:              req.GroupID,
		Name:                 req.Name,
		StaffName:            req.StaffName,
		Email:                req.Email,
		Phone:                req.Phone,
		Title:                req.Title,
		Birthday:             req.Birthday,
		RegistrationBusiness: req.RegistrationBusiness,
		OpenDate:             req.OpenDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromGroup(group)})
}

// Delete handles DELETE /groups/:id.
func (h *GroupsHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid group id")
	}
	if err := h.groups.Delete(c.Context(), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
