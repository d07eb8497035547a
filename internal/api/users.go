package api

import (
	"fmt"
	"net/http"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type upsertUserRequest struct {
	ChatID domain.ChatID `json:"chatId"`

	IsVerified bool `json:"isVerified"`
	IsScam     bool `json:"isScam"`
	IsFake     bool `json:"isFake"`
	IsPremium  bool `json:"isPremium"`

	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Username     string `json:"username"`
	LanguageCode string `json:"languageCode"`

	InterfaceLanguage string `json:"interfaceLanguage"`
}

func (s *Server) upsertUser(c echo.Context) error {
	var req upsertUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body"))
	}
	if req.ChatID == 0 {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "chatId is required"))
	}

	user, err := s.storage.UpsertUser(c.Request().Context(), domain.User{
		ChatID:            req.ChatID,
		IsVerified:        req.IsVerified,
		IsScam:            req.IsScam,
		IsFake:            req.IsFake,
		IsPremium:         req.IsPremium,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Username:          req.Username,
		LanguageCode:      req.LanguageCode,
		InterfaceLanguage: req.InterfaceLanguage,
	})
	if err != nil {
		return respondError(c, fmt.Errorf("could not upsert user: %w", err))
	}

	return c.JSON(http.StatusOK, user)
}

// userByChatIDParam resolves the :chatID path parameter to a stored user.
func (s *Server) userByChatIDParam(c echo.Context) (*domain.User, error) {
	chatID, err := strconv.ParseInt(c.Param("chatID"), 10, 64)
	if err != nil {
		return nil, serrors.With(serrors.ErrBadRequest, "malformed chat id %q", c.Param("chatID"))
	}

	user, err := s.storage.UserByChatID(c.Request().Context(), domain.ChatID(chatID))
	if err != nil {
		return nil, fmt.Errorf("could not fetch user: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user with chat id %d not found", chatID)
	}

	return user, nil
}

func (s *Server) getUser(c echo.Context) error {
	user, err := s.userByChatIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (s *Server) listTransactions(c echo.Context) error {
	user, err := s.userByChatIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	transactions, err := s.storage.UserTransactions(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch transactions: %w", err))
	}

	return c.JSON(http.StatusOK, transactions)
}

func (s *Server) listDomains(c echo.Context) error {
	user, err := s.userByChatIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	domains, err := s.storage.UserDomains(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch domains: %w", err))
	}

	return c.JSON(http.StatusOK, domains)
}

type adjustBalanceRequest struct {
	ChatID      domain.ChatID          `json:"chatId"`
	Amount      decimal.Decimal        `json:"amount"`
	Kind        domain.TransactionKind `json:"kind"`
	Description string                 `json:"description"`
}

type adjustBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) adjustBalance(c echo.Context) error {
	var req adjustBalanceRequest
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

	balance, err := s.options.Ledger.Adjust(c.Request().Context(),
		user.ID, req.Amount, req.Kind, req.Description)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, adjustBalanceResponse{Balance: balance})
}

type transferRequest struct {
	OldChatID domain.ChatID `json:"oldChatId"`
	NewChatID domain.ChatID `json:"newChatId"`
}

func (s *Server) transferAccount(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body"))
	}

	user, err := s.options.Transferer.Transfer(c.Request().Context(), req.OldChatID, req.NewChatID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}
