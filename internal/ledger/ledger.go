// Package ledger mutates user balances. Every adjustment appends a
// transaction row and updates the balance inside one database transaction,
// so the ledger and the balance can never drift apart.
package ledger

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/storage"

	"github.com/shopspring/decimal"
)

// Ledger applies balance adjustments backed by the transactions table.
type Ledger struct {
	storage storage.Storage
}

// Adjust credits or debits amount against the user's balance and appends the
// matching ledger entry atomically. amount must be strictly positive; kind
// carries the sign. Returns the resulting balance, which may be negative.
func (l *Ledger) Adjust(ctx context.Context,
	userID domain.UserID,
	amount decimal.Decimal,
	kind domain.TransactionKind,
	description string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, serrors.With(serrors.ErrBadRequest, "amount must be positive")
	}
	if kind != domain.TransactionCredit && kind != domain.TransactionDebit {
		return decimal.Decimal{}, serrors.With(serrors.ErrBadRequest, "unknown transaction kind %q", kind)
	}

	delta := amount
	if kind == domain.TransactionDebit {
		delta = amount.Neg()
	}

	var balance decimal.Decimal
	if err := l.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.StoreTransaction(ctx, domain.Transaction{
			UserID:      userID,
			Kind:        kind,
			Amount:      amount,
			Description: description,
		}); err != nil {
			return fmt.Errorf("could not store transaction: %w", err)
		}

		newBalance, err := tx.AdjustBalance(ctx, userID, delta)
		if err != nil {
			return fmt.Errorf("could not adjust balance: %w", err)
		}
		balance = newBalance

		return nil
	}); err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not apply ledger adjustment: %w", err)
	}

	return balance, nil
}

// New creates a Ledger backed by the given storage.
func New(storage storage.Storage) *Ledger {
	return &Ledger{storage: storage}
}
