package handlers

import (
	"errors"
	"net/http"

	"hostelhub/internal/apperrors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// parseOptionalUUID turns an optional string field into a *uuid.UUID,
// dropping empty or malformed values.
func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

// handleServiceError maps the service error taxonomy onto HTTP codes.
// Anything unrecognized is a 500 with the detail kept out of the body.
func handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, apperrors.ErrDependency):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
