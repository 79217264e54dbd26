package handlers

import (
	"net/http"
	"strconv"

	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// RoomHandlers handles HTTP requests for rooms and occupancy moves.
type RoomHandlers struct {
	roomService      services.RoomService
	occupancyService services.OccupancyService
}

func NewRoomHandlers(roomService services.RoomService, occupancyService services.OccupancyService) *RoomHandlers {
	return &RoomHandlers{
		roomService:      roomService,
		occupancyService: occupancyService,
	}
}

// Create handles POST /v1/rooms
func (h *RoomHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		Number   string  `json:"number"`
		Type     string  `json:"type"`
		Rent     float64 `json:"rent"`
		Capacity int     `json:"capacity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	room := &models.Room{
		HostelID: hostelID,
		Number:   req.Number,
		Type:     req.Type,
		Rent:     req.Rent,
		Capacity: req.Capacity,
	}
	if err := h.roomService.Create(ctx, room); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// Get handles GET /v1/rooms/:id
func (h *RoomHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	room, err := h.roomService.GetByID(ctx, hostelID, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Update handles PUT /v1/rooms/:id
func (h *RoomHandlers) Update(c echo.Context) error {
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
		Number   string  `json:"number"`
		Type     string  `json:"type"`
		Rent     float64 `json:"rent"`
		Capacity int     `json:"capacity"`
		Status   string  `json:"status"`
		Active   bool    `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	room := &models.Room{
		ID:       id,
		HostelID: hostelID,
		Number:   req.Number,
		Type:     req.Type,
		Rent:     req.Rent,
		Capacity: req.Capacity,
		Status:   req.Status,
		Active:   req.Active,
	}
	if err := h.roomService.Update(ctx, room); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /v1/rooms/:id
func (h *RoomHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.roomService.Delete(ctx, hostelID, id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/rooms
func (h *RoomHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit, offset := common.PageToOffset(page, limit)

	filter := &models.RoomSearchFilter{
		Query:  c.QueryParam("search"),
		Type:   c.QueryParam("type"),
		Status: c.QueryParam("status"),
		Limit:  limit,
		Offset: offset,
	}

	rooms, total, err := h.roomService.List(ctx, hostelID, filter)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, common.NewPaginated(rooms, total, page, limit))
}

// Stats handles GET /v1/rooms/stats
func (h *RoomHandlers) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	stats, err := h.roomService.Stats(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Assign handles POST /v1/rooms/:id/assign
func (h *RoomHandlers) Assign(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	roomID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		TenantID string `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.occupancyService.Assign(ctx, hostelID, tenantID, roomID); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Tenant assigned"})
}

// Release handles POST /v1/rooms/release
func (h *RoomHandlers) Release(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		TenantID string `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	tenantID, err := common.ValidateUUID(req.TenantID, "tenant_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.occupancyService.Release(ctx, hostelID, tenantID); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Tenant released"})
}

// Reconcile handles POST /v1/rooms/reconcile
func (h *RoomHandlers) Reconcile(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	corrected, err := h.occupancyService.Reconcile(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"corrected": corrected})
}
