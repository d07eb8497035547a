package storage

import (
	"context"
	"redirectadmin/pkg/domain"
)

// LedgerStorage defines operations on the append-only transactions table.
// Rows are never updated or deleted.
type LedgerStorage interface {
	// StoreTransaction appends a ledger entry and returns the stored row.
	StoreTransaction(ctx context.Context, t domain.Transaction) (*domain.Transaction, error)
	// UserTransactions returns the ledger entries of a user, newest first.
	UserTransactions(ctx context.Context, userID domain.UserID) ([]domain.Transaction, error)
}
