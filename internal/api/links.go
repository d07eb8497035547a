package api

import (
	"fmt"
	"net/http"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"strconv"

	"github.com/labstack/echo/v4"
)

type createLinkSetRequest struct {
	ChatID domain.ChatID `json:"chatId"`
	Title  string        `json:"title"`
}

func (s *Server) createLinkSet(c echo.Context) error {
	var req createLinkSetRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body"))
	}
	if req.Title == "" {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "title is required"))
	}

	user, err := s.storage.UserByChatID(c.Request().Context(), req.ChatID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch user: %w", err))
	}
	if user == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "user with chat id %d not found", req.ChatID))
	}

	set, err := s.storage.StoreLinkSet(c.Request().Context(), domain.LinkSet{
		UserID: user.ID,
		Title:  req.Title,
	})
	if err != nil {
		return respondError(c, fmt.Errorf("could not store link set: %w", err))
	}

	return c.JSON(http.StatusCreated, set)
}

// linkSetResponse carries a set together with its links.
type linkSetResponse struct {
	domain.LinkSet

	Links []domain.Link `json:"links"`
}

func (s *Server) getLinkSet(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "malformed link set id %q", c.Param("id")))
	}

	set, err := s.storage.LinkSetByID(c.Request().Context(), domain.LinkSetID(id))
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch link set: %w", err))
	}
	if set == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "link set %d not found", id))
	}

	links, err := s.storage.LinksBySet(c.Request().Context(), set.ID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch links: %w", err))
	}

	return c.JSON(http.StatusOK, linkSetResponse{LinkSet: *set, Links: links})
}

func (s *Server) wrapLinkSet(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "malformed link set id %q", c.Param("id")))
	}

	if err := s.options.Wrapper.Enqueue(c.Request().Context(), domain.LinkSetID(id)); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

type upsertLinkRequest struct {
	ID        domain.LinkID    `json:"id"`
	ChatID    domain.ChatID    `json:"chatId"`
	LinkSetID domain.LinkSetID `json:"linkSetId"`

	OriginalURL   string                  `json:"originalUrl"`
	RedirectCount int                     `json:"redirectCount"`
	Shortener     domain.ShortenerService `json:"shortener"`
}

func (s *Server) upsertLink(c echo.Context) error {
	var req upsertLinkRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body"))
	}
	if req.OriginalURL == "" {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "originalUrl is required"))
	}
	if req.RedirectCount < 1 {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "redirectCount must be at least 1"))
	}
	if !domain.ValidShortener(req.Shortener) {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "unknown shortener %q", req.Shortener))
	}

	user, err := s.storage.UserByChatID(c.Request().Context(), req.ChatID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch user: %w", err))
	}
	if user == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "user with chat id %d not found", req.ChatID))
	}

	set, err := s.storage.LinkSetByID(c.Request().Context(), req.LinkSetID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch link set: %w", err))
	}
	if set == nil || set.UserID != user.ID {
		return respondError(c, serrors.With(serrors.ErrNotFound, "link set %d not found", req.LinkSetID))
	}

	link, err := s.storage.UpsertLink(c.Request().Context(), domain.Link{
		ID:            req.ID,
		UserID:        user.ID,
		LinkSetID:     req.LinkSetID,
		OriginalURL:   req.OriginalURL,
		RedirectCount: req.RedirectCount,
		Shortener:     req.Shortener,
	})
	if err != nil {
		return respondError(c, fmt.Errorf("could not upsert link: %w", err))
	}
	if link == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "link %d not found", req.ID))
	}

	return c.JSON(http.StatusOK, link)
}
