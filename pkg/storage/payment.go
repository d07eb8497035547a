package storage

import (
	"context"
	"redirectadmin/pkg/domain"
)

// PaymentStorage defines operations on payment bills.
type PaymentStorage interface {
	// StorePayment inserts a new bill and returns the stored row.
	StorePayment(ctx context.Context, p domain.Payment) (*domain.Payment, error)
	// PaymentByID fetches a bill by id. Returns nil when not found.
	PaymentByID(ctx context.Context, id domain.PaymentID) (*domain.Payment, error)
	// UserPayments returns the bills of a user, newest first. Archived bills
	// are included only when includeArchived is set.
	UserPayments(ctx context.Context,
		userID domain.UserID,
		includeArchived bool) ([]domain.Payment, error)
	// MarkPaymentPaid sets the paid flag and returns the updated row, or nil
	// when the bill does not exist. Returns the previous paid state so
	// callers can avoid crediting a bill twice.
	MarkPaymentPaid(ctx context.Context, id domain.PaymentID) (*domain.Payment, bool, error)
	// ArchivePayment sets the archived flag. Archiving a missing bill is not
	// an error.
	ArchivePayment(ctx context.Context, id domain.PaymentID) error
}
