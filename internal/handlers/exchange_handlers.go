package handlers

import (
	"net/http"
	"strconv"

	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// ExchangeHandlers handles room exchange requests.
type ExchangeHandlers struct {
	exchangeService services.ExchangeService
	tenantService   services.TenantService
}

func NewExchangeHandlers(exchangeService services.ExchangeService, tenantService services.TenantService) *ExchangeHandlers {
	return &ExchangeHandlers{
		exchangeService: exchangeService,
		tenantService:   tenantService,
	}
}

// Submit handles POST /v1/exchange-requests
func (h *ExchangeHandlers) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		TenantID      string `json:"tenant_id"`
		DesiredRoomID string `json:"desired_room_id"`
		Reason        string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	desiredRoomID, err := common.ValidateUUID(req.DesiredRoomID, "desired_room_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request := &models.ExchangeRequest{
		HostelID:      hostelID,
		DesiredRoomID: desiredRoomID,
		Reason:        req.Reason,
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
		request.TenantID = tenant.ID
	} else {
		tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		request.TenantID = tenantID
	}

	if err := h.exchangeService.Submit(ctx, request); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

// List handles GET /v1/exchange-requests
func (h *ExchangeHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit, offset := common.PageToOffset(page, limit)

	filter := &models.RequestSearchFilter{
		Status: c.QueryParam("status"),
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
	}

	requests, total, err := h.exchangeService.List(ctx, hostelID, filter)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, common.NewPaginated(requests, total, page, limit))
}

// Approve handles POST /v1/exchange-requests/:id/approve
func (h *ExchangeHandlers) Approve(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}
	approverID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.exchangeService.Approve(ctx, hostelID, id, approverID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// Reject handles POST /v1/exchange-requests/:id/reject
func (h *ExchangeHandlers) Reject(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}
	approverID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.exchangeService.Reject(ctx, hostelID, id, approverID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}
