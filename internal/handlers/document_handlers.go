package handlers

import (
	"net/http"
	"time"

	"hostelhub/internal/common"
	"hostelhub/internal/services"

	"github.com/labstack/echo/v4"
)

// DocumentHandlers handles tenant KYC document upload and retrieval.
type DocumentHandlers struct {
	documentService services.DocumentService
}

func NewDocumentHandlers(documentService services.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{documentService: documentService}
}

// Upload handles POST /v1/tenants/:id/documents (multipart form).
func (h *DocumentHandlers) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	hostelID, ok := common.GetHostelIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	tenantID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Document file is required")
	}
	if fileHeader.Size > 10<<20 {
		return echo.NewHTTPError(http.StatusBadRequest, "Document exceeds 10MB limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read document")
	}
	defer src.Close()

	objectName, err := h.documentService.Upload(ctx, hostelID, tenantID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src, fileHeader.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to store document")
	}

	return c.JSON(http.StatusCreated, map[string]string{"object_name": objectName})
}

// GetURL handles GET /v1/documents/url?object_name=...
func (h *DocumentHandlers) GetURL(c echo.Context) error {
	ctx := c.Request().Context()
	if _, ok := common.GetHostelIDFromContext(ctx); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Hostel not found")
	}

	objectName := c.QueryParam("object_name")
	if objectName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "object_name is required")
	}

	url, err := h.documentService.GetPresignedURL(ctx, objectName, 15*time.Minute)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to generate document URL")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
