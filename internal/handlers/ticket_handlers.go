package handlers

import (
	"net/http"
	"strconv"

	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// TicketHandlers handles maintenance tickets.
type TicketHandlers struct {
	ticketService services.TicketService
	tenantService services.TenantService
}

func NewTicketHandlers(ticketService services.TicketService, tenantService services.TenantService) *TicketHandlers {
	return &TicketHandlers{
		ticketService: ticketService,
		tenantService: tenantService,
	}
}

// Create handles POST /v1/tickets. Tenants raise tickets for themselves;
// staff can raise one on any tenant's behalf.
func (h *TicketHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		TenantID    string `json:"tenant_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Category    string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ticket := &models.Ticket{
		HostelID:    hostelID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	}

	role, _ := common.GetRoleFromContext(ctx)
	if role == models.RoleTenant {
		userID, ok := common.GetUserIDFromContext(ctx)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		tenant, err := h.tenantService.GetByUserID(ctx, hostelID, userID)
		if err != nil {
			return handleServiceError(c, err)
		}
		ticket.TenantID = tenant.ID
	} else {
		tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		ticket.TenantID = tenantID
	}

	if err := h.ticketService.Create(ctx, ticket); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

// Get handles GET /v1/tickets/:id
func (h *TicketHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.ticketService.GetByID(ctx, hostelID, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// UpdateStatus handles PUT /v1/tickets/:id/status
func (h *TicketHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		Status     string  `json:"status"`
		AssignedTo *string `json:"assigned_to"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ticket, err := h.ticketService.UpdateStatus(ctx, hostelID, id, req.Status, parseOptionalUUID(req.AssignedTo))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// List handles GET /v1/tickets
func (h *TicketHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit, offset := common.PageToOffset(page, limit)

	filter := &models.TicketSearchFilter{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("search"),
		Limit:  limit,
		Offset: offset,
	}

	role, _ := common.GetRoleFromContext(ctx)
	if role == models.RoleTenant {
		userID, ok := common.GetUserIDFromContext(ctx)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		tenant, err := h.tenantService.GetByUserID(ctx, hostelID, userID)
		if err != nil {
			return handleServiceError(c, err)
		}
		filter.TenantID = &tenant.ID
	} else if tenantParam := c.QueryParam("tenant_id"); tenantParam != "" {
		tenantID, err := common.ValidateUUID(tenantParam, "tenant_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.TenantID = &tenantID
	}

	tickets, total, err := h.ticketService.List(ctx, hostelID, filter)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, common.NewPaginated(tickets, total, page, limit))
}
