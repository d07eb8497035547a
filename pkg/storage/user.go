package storage

import (
	"context"
	"redirectadmin/pkg/domain"

	"github.com/shopspring/decimal"
)

// UserStorage defines row operations on users, including the balance column
// shared with the ledger and the bulk ownership moves used by account
// transfer.
type UserStorage interface {
	// UpsertUser creates a user keyed by chat id or updates the profile
	// attributes of an existing one, returning the stored row. Balance is
	// never touched by an upsert.
	UpsertUser(ctx context.Context, user domain.User) (*domain.User, error)
	// UserByChatID fetches a user by their external chat id. Returns nil when
	// not found.
	UserByChatID(ctx context.Context, chatID domain.ChatID) (*domain.User, error)
	// UserByID fetches a user by primary key. Returns nil when not found.
	UserByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// AdjustBalance applies delta (which may be negative) to the user's
	// balance in a single atomic statement and returns the new balance.
	AdjustBalance(ctx context.Context, id domain.UserID, delta decimal.Decimal) (decimal.Decimal, error)
	// SetBalanceAndLanguage overwrites the balance and interface language of
	// a user. Used by account transfer to copy account data.
	SetBalanceAndLanguage(ctx context.Context,
		id domain.UserID,
		balance decimal.Decimal,
		language string) error
	// ReassignOwnership moves every link, link set, transaction, payment and
	// user domain owned by from to the user to. Must run inside a transaction
	// to be atomic.
	ReassignOwnership(ctx context.Context, from, to domain.UserID) error
}
