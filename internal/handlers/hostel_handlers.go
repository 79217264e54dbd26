package handlers

import (
	"net/http"

	"hostelhub/internal/caching"
	"hostelhub/internal/common"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// HostelHandlers handles hostel registration, lookup and cache
// administration.
type HostelHandlers struct {
	hostelService services.HostelService
	cacheSvc      caching.CacheService
}

func NewHostelHandlers(hostelService services.HostelService, cacheSvc caching.CacheService) *HostelHandlers {
	return &HostelHandlers{
		hostelService: hostelService,
		cacheSvc:      cacheSvc,
	}
}

// Register handles POST /v1/hostels/register
func (h *HostelHandlers) Register(c echo.Context) error {
	var req services.RegisterHostelInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	hostel, admin, err := h.hostelService.Register(c.Request().Context(), &req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"hostel": hostel,
		"admin":  admin,
	})
}

// FlushCache handles DELETE /v1/cache: drops every cached entry for the
// caller's hostel after bulk edits to rooms, menus or fees.
func (h *HostelHandlers) FlushCache(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	if err := h.cacheSvc.InvalidateHostelCache(ctx, hostelID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to flush cache")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Cache flushed"})
}
