package api

import (
	"errors"
	"net/http"
	"redirectadmin/pkg/logger"
	"redirectadmin/pkg/serrors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorResponse is the uniform error body of the API.
type errorResponse struct {
	Error string `json:"error"`
}

// httpStatus maps semantic error kinds to HTTP statuses. Anything without a
// kind is an internal error.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, serrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, serrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, serrors.ErrMissingSetting):
		return http.StatusFailedDependency
	case errors.Is(err, serrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Internal errors are logged with their
// cause but reported opaquely.
func respondError(c echo.Context, err error) error {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error(c.Request().Context(), "request failed", zap.Error(err))

		return c.JSON(status, errorResponse{Error: "internal error"})
	}

	return c.JSON(status, errorResponse{Error: err.Error()})
}
