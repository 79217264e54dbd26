package handlers

import (
	"net/http"
	"strconv"

	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// VacatingHandlers handles vacating requests.
type VacatingHandlers struct {
	vacatingService services.VacatingService
	tenantService   services.TenantService
}

func NewVacatingHandlers(vacatingService services.VacatingService, tenantService services.TenantService) *VacatingHandlers {
	return &VacatingHandlers{
		vacatingService: vacatingService,
		tenantService:   tenantService,
	}
}

// Submit handles POST /v1/vacating-requests. Tenants submit for
// themselves; staff can submit for any tenant.
func (h *VacatingHandlers) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		TenantID   string `json:"tenant_id"`
		VacateDate string `json:"vacate_date"`
		Reason     string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	vacateDate, err := common.ValidateDateFormat(req.VacateDate, "vacate_date")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request := &models.VacatingRequest{
		HostelID:   hostelID,
		VacateDate: vacateDate,
		Reason:     req.Reason,
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

	if err := h.vacatingService.Submit(ctx, request); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

// MyRequests handles GET /v1/vacating-requests/my-requests
func (h *VacatingHandlers) MyRequests(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	tenant, err := h.tenantService.GetByUserID(ctx, hostelID, userID)
	if err != nil {
		return handleServiceError(c, err)
	}

	filter := &models.RequestSearchFilter{TenantID: &tenant.ID, Limit: 50}
	requests, total, err := h.vacatingService.List(ctx, hostelID, filter)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, common.NewPaginated(requests, total, 1, 50))
}

// List handles GET /v1/vacating-requests
func (h *VacatingHandlers) List(c echo.Context) error {
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

	requests, total, err := h.vacatingService.List(ctx, hostelID, filter)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, common.NewPaginated(requests, total, page, limit))
}

// Approve handles POST /v1/vacating-requests/:id/approve
func (h *VacatingHandlers) Approve(c echo.Context) error {
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

	var req struct {
		SettlementAmount float64 `json:"settlement_amount"`
		RefundAmount     float64 `json:"refund_amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	request, err := h.vacatingService.Approve(ctx, hostelID, id, approverID, req.SettlementAmount, req.RefundAmount)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// Reject handles POST /v1/vacating-requests/:id/reject
func (h *VacatingHandlers) Reject(c echo.Context) error {
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

	request, err := h.vacatingService.Reject(ctx, hostelID, id, approverID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// Complete handles POST /v1/vacating-requests/:id/complete
func (h *VacatingHandlers) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.vacatingService.Complete(ctx, hostelID, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}
