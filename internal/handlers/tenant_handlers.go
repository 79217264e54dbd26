package handlers

import (
	"net/http"
	"strconv"

	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles HTTP requests for the tenant roster.
type TenantHandlers struct {
	tenantService services.TenantService
	smsService    services.SMSService
}

func NewTenantHandlers(tenantService services.TenantService, smsService services.SMSService) *TenantHandlers {
	return &TenantHandlers{
		tenantService: tenantService,
		smsService:    smsService,
	}
}

// Onboard handles POST /v1/tenants
func (h *TenantHandlers) Onboard(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		FirstName       string  `json:"first_name"`
		LastName        string  `json:"last_name"`
		Email           string  `json:"email"`
		Phone           string  `json:"phone"`
		AadhaarNumber   string  `json:"aadhaar_number"`
		RoomID          *string `json:"room_id"`
		MoveInDate      *string `json:"move_in_date"`
		EmergencyName   string  `json:"emergency_name"`
		EmergencyPhone  string  `json:"emergency_phone"`
		SecurityDeposit float64 `json:"security_deposit"`
		Password        string  `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	input := &services.OnboardTenantInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		AadhaarNumber:   req.AadhaarNumber,
		EmergencyName:   req.EmergencyName,
		EmergencyPhone:  req.EmergencyPhone,
		SecurityDeposit: req.SecurityDeposit,
		Password:        req.Password,
	}

	if req.RoomID != nil && *req.RoomID != "" {
		roomID, err := common.ValidateUUID(*req.RoomID, "room_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		input.RoomID = &roomID
	}
	if req.MoveInDate != nil && *req.MoveInDate != "" {
		moveIn, err := common.ValidateDateFormat(*req.MoveInDate, "move_in_date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		input.MoveInDate = &moveIn
	}

	result, err := h.tenantService.Onboard(ctx, hostelID, input)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// Get handles GET /v1/tenants/:id
func (h *TenantHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenant, err := h.tenantService.GetByID(ctx, hostelID, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// MyInfo handles GET /v1/tenants/my-info for the tenant role.
func (h *TenantHandlers) MyInfo(c echo.Context) error {
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
	return c.JSON(http.StatusOK, tenant)
}

// Update handles PUT /v1/tenants/:id
func (h *TenantHandlers) Update(c echo.Context) error {
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
		FirstName       string  `json:"first_name"`
		LastName        string  `json:"last_name"`
		Email           string  `json:"email"`
		Phone           string  `json:"phone"`
		AadhaarNumber   string  `json:"aadhaar_number"`
		MoveInDate      *string `json:"move_in_date"`
		EmergencyName   string  `json:"emergency_name"`
		EmergencyPhone  string  `json:"emergency_phone"`
		SecurityDeposit float64 `json:"security_deposit"`
		Active          bool    `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant := &models.Tenant{
		ID:              id,
		HostelID:        hostelID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		AadhaarNumber:   req.AadhaarNumber,
		EmergencyName:   req.EmergencyName,
		EmergencyPhone:  req.EmergencyPhone,
		SecurityDeposit: req.SecurityDeposit,
		Active:          req.Active,
	}
	if req.MoveInDate != nil && *req.MoveInDate != "" {
		moveIn, err := common.ValidateDateFormat(*req.MoveInDate, "move_in_date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		tenant.MoveInDate = &moveIn
	}

	if err := h.tenantService.Update(ctx, hostelID, tenant); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// Offboard handles DELETE /v1/tenants/:id
func (h *TenantHandlers) Offboard(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.tenantService.Offboard(ctx, hostelID, id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/tenants
func (h *TenantHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit, offset := common.PageToOffset(page, limit)

	filter := &models.TenantSearchFilter{
		Query:  c.QueryParam("search"),
		Limit:  limit,
		Offset: offset,
	}
	if activeParam := c.QueryParam("active"); activeParam != "" {
		active := activeParam == "true"
		filter.Active = &active
	}
	if roomParam := c.QueryParam("room_id"); roomParam != "" {
		roomID, err := common.ValidateUUID(roomParam, "room_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.RoomID = &roomID
	}

	tenants, total, err := h.tenantService.List(ctx, hostelID, filter)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, common.NewPaginated(tenants, total, page, limit))
}

// Stats handles GET /v1/tenants/stats
func (h *TenantHandlers) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	stats, err := h.tenantService.Stats(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// SendSMS handles POST /v1/tenants/:id/send-sms
func (h *TenantHandlers) SendSMS(c echo.Context) error {
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
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Message, "message"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenant, err := h.tenantService.GetByID(ctx, hostelID, id)
	if err != nil {
		return handleServiceError(c, err)
	}

	result, err := h.smsService.Send(ctx, hostelID, tenant.Phone, req.Message, models.SMSCategoryManual)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "SMS delivery failed")
	}
	return c.JSON(http.StatusOK, result)
}

// SendManualSMS handles POST /v1/sms/send for arbitrary numbers.
func (h *TenantHandlers) SendManualSMS(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidatePhone(req.Phone, "phone"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateRequiredString(req.Message, "message"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.smsService.Send(ctx, hostelID, req.Phone, req.Message, models.SMSCategoryManual)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "SMS delivery failed")
	}
	return c.JSON(http.StatusOK, result)
}
