package api

import (
	"fmt"
	"net/http"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"strconv"

	"github.com/labstack/echo/v4"
)

type provisionDomainRequest struct {
	ChatID domain.ChatID `json:"chatId"`
	Domain string        `json:"domain"`
}

func (s *Server) provisionDomain(c echo.Context) error {
	var req provisionDomainRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body"))
	}

	user, err := s.storage.UserByChatID(c.Request().Context(), req.ChatID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch user: %w", err))
	}
	if user == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "user with chat id %d not found", req.ChatID))
	}

	record, err := s.options.Provisioner.Provision(c.Request().Context(), user.ID, req.Domain)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, record)
}

func (s *Server) deprovisionDomain(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "malformed domain id %q", c.Param("id")))
	}

	if err := s.options.Provisioner.Deprovision(c.Request().Context(), domain.UserDomainID(id)); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
