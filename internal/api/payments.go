package api

import (
	"fmt"
	"net/http"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createPaymentRequest struct {
	ChatID domain.ChatID    `json:"chatId"`
	System domain.PaySystem `json:"system"`
	Amount decimal.Decimal  `json:"amount"`

	BillID  string `json:"billId"`
	BillURL string `json:"billUrl"`

	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) createPayment(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body"))
	}
	if !req.Amount.IsPositive() {
		return respondError(c, serrors.With(serrors.ErrBadRequest, "amount must be positive"))
	}

	user, err := s.storage.UserByChatID(c.Request().Context(), req.ChatID)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch user: %w", err))
	}
	if user == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "user with chat id %d not found", req.ChatID))
	}

	payment, err := s.storage.StorePayment(c.Request().Context(), domain.Payment{
		UserID:    user.ID,
		System:    req.System,
		Amount:    req.Amount,
		BillID:    req.BillID,
		BillURL:   req.BillURL,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondError(c, fmt.Errorf("could not store payment: %w", err))
	}

	return c.JSON(http.StatusCreated, payment)
}

// paymentIDParam parses the :id path parameter.
func paymentIDParam(c echo.Context) (domain.PaymentID, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, serrors.With(serrors.ErrBadRequest, "malformed payment id %q", c.Param("id"))
	}

	return domain.PaymentID(id), nil
}

func (s *Server) getPayment(c echo.Context) error {
	id, err := paymentIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	payment, err := s.storage.PaymentByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch payment: %w", err))
	}
	if payment == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "payment %d not found", id))
	}

	return c.JSON(http.StatusOK, payment)
}

func (s *Server) listPayments(c echo.Context) error {
	user, err := s.userByChatIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	includeArchived, _ := strconv.ParseBool(c.QueryParam("includeArchived"))
	payments, err := s.storage.UserPayments(c.Request().Context(), user.ID, includeArchived)
	if err != nil {
		return respondError(c, fmt.Errorf("could not fetch payments: %w", err))
	}

	return c.JSON(http.StatusOK, payments)
}

// markPaymentPaid flags the bill as paid and credits its amount through the
// ledger. Marking an already-paid bill is idempotent and never credits twice.
func (s *Server) markPaymentPaid(c echo.Context) error {
	id, err := paymentIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	payment, wasPaid, err := s.storage.MarkPaymentPaid(c.Request().Context(), id)
	if err != nil {
		return respondError(c, fmt.Errorf("could not mark payment paid: %w", err))
	}
	if payment == nil {
		return respondError(c, serrors.With(serrors.ErrNotFound, "payment %d not found", id))
	}

	if !wasPaid {
		if _, err := s.options.Ledger.Adjust(c.Request().Context(),
			payment.UserID,
			payment.Amount,
			domain.TransactionCredit,
			fmt.Sprintf("payment %d (%s) received", payment.ID, payment.System)); err != nil {
			return respondError(c, fmt.Errorf("could not credit payment: %w", err))
		}
	}

	return c.JSON(http.StatusOK, payment)
}

func (s *Server) archivePayment(c echo.Context) error {
	id, err := paymentIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.storage.ArchivePayment(c.Request().Context(), id); err != nil {
		return respondError(c, fmt.Errorf("could not archive payment: %w", err))
	}

	return c.NoContent(http.StatusNoContent)
}
