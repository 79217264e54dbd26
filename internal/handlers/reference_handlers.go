package handlers

import (
	"net/http"

	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// ReferenceHandlers serves menu, timetable, room category and fee
// breakdown endpoints.
type ReferenceHandlers struct {
	referenceService services.ReferenceService
}

func NewReferenceHandlers(referenceService services.ReferenceService) *ReferenceHandlers {
	return &ReferenceHandlers{referenceService: referenceService}
}

// GetMenuForDay handles GET /v1/menu/:day
func (h *ReferenceHandlers) GetMenuForDay(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	menu, err := h.referenceService.GetMenuForDay(ctx, hostelID, c.Param("day"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, menu)
}

// GetWeeklyMenu handles GET /v1/menu
func (h *ReferenceHandlers) GetWeeklyMenu(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	menus, err := h.referenceService.GetWeeklyMenu(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, menus)
}

// UpsertMenu handles PUT /v1/menu/:day
func (h *ReferenceHandlers) UpsertMenu(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		Breakfast string `json:"breakfast"`
		Lunch     string `json:"lunch"`
		Snacks    string `json:"snacks"`
		Dinner    string `json:"dinner"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	menu := &models.Menu{
		HostelID:  hostelID,
		Day:       c.Param("day"),
		Breakfast: req.Breakfast,
		Lunch:     req.Lunch,
		Snacks:    req.Snacks,
		Dinner:    req.Dinner,
	}
	if err := h.referenceService.UpsertMenu(ctx, menu); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, menu)
}

// GetTimetable handles GET /v1/timetable
func (h *ReferenceHandlers) GetTimetable(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	slots, err := h.referenceService.GetTimetable(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, slots)
}

// UpsertTimetableSlot handles PUT /v1/timetable
func (h *ReferenceHandlers) UpsertTimetableSlot(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		Slot      int    `json:"slot"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Activity  string `json:"activity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	slot := &models.TimetableSlot{
		HostelID:  hostelID,
		Slot:      req.Slot,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Activity:  req.Activity,
	}
	if err := h.referenceService.UpsertTimetableSlot(ctx, slot); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, slot)
}

// ListRoomCategories handles GET /v1/room-categories
func (h *ReferenceHandlers) ListRoomCategories(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	categories, err := h.referenceService.ListRoomCategories(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// UpsertRoomCategory handles PUT /v1/room-categories
func (h *ReferenceHandlers) UpsertRoomCategory(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		BaseRent    float64 `json:"base_rent"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	category := &models.RoomCategory{
		HostelID:    hostelID,
		Name:        req.Name,
		Description: req.Description,
		BaseRent:    req.BaseRent,
	}
	if err := h.referenceService.UpsertRoomCategory(ctx, category); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// GetFeeBreakdown handles GET /v1/fee-breakdown
func (h *ReferenceHandlers) GetFeeBreakdown(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	components, err := h.referenceService.GetFeeBreakdown(ctx, hostelID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, components)
}

// ReplaceFeeBreakdown handles PUT /v1/fee-breakdown
func (h *ReferenceHandlers) ReplaceFeeBreakdown(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	var req struct {
		Components []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
			Note   string  `json:"note"`
		} `json:"components"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	components := make([]*models.FeeComponent, 0, len(req.Components))
	for _, comp := range req.Components {
		components = append(components, &models.FeeComponent{
			Name:   comp.Name,
			Amount: comp.Amount,
			Note:   comp.Note,
		})
	}

	if err := h.referenceService.ReplaceFeeBreakdown(ctx, hostelID, components); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, components)
}
