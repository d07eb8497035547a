package api

import (
	"errors"
	"fmt"
	"net/http"
	"redirectadmin/pkg/serrors"

	"github.com/labstack/echo/v4"
)

// settingResponse carries one settings table entry.
type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) getSetting(c echo.Context) error {
	key := c.Param("key")

	value, err := s.options.Settings.Get(c.Request().Context(), key)
	if err != nil {
		// an unset key is a plain 404 here, not a failed dependency
		if errors.Is(err, serrors.ErrMissingSetting) {
			return respondError(c, serrors.With(serrors.ErrNotFound, "setting %q is not configured", key))
		}

		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, settingResponse{Key: key, Value: value})
}

type putSettingRequest struct {
	Value string `json:"value"`
}

func (s *Server) putSetting(c echo.Context) error {
	var req putSettingRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body"))
	}

	key := c.Param("key")
	if err := s.storage.UpsertSetting(c.Request().Context(), key, req.Value); err != nil {
		return respondError(c, fmt.Errorf("could not store setting: %w", err))
	}

	return c.JSON(http.StatusOK, settingResponse{Key: key, Value: req.Value})
}
