package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserID is the local primary key of a user row.
type UserID int64

// ChatID is the external Telegram chat/account identifier of a user.
// It is unique across users and is the id the bot talks to the backend with.
type ChatID int64

// TransactionKind classifies a ledger entry. Amounts are always stored
// positive; the kind carries the sign semantics.
type TransactionKind string

const (
	// TransactionCredit is a balance replenishment.
	TransactionCredit TransactionKind = "credit"
	// TransactionDebit is a balance write-off.
	TransactionDebit TransactionKind = "debit"
)

// User is a Telegram account known to the redirect bot. The balance is a
// running total backed by the append-only transactions ledger and may go
// negative.
type User struct {
	ID     UserID `json:"id"`
	ChatID ChatID `json:"chatId"`

	IsVerified bool `json:"isVerified"`
	IsScam     bool `json:"isScam"`
	IsFake     bool `json:"isFake"`
	IsPremium  bool `json:"isPremium"`

	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Username     string `json:"username"`
	LanguageCode string `json:"languageCode"`

	// InterfaceLanguage is the bot UI language chosen by the user.
	InterfaceLanguage string `json:"interfaceLanguage"`

	Balance decimal.Decimal `json:"balance"`

	CreatedAt time.Time `json:"createdAt"`
}

// Transaction is an immutable ledger entry recording one balance mutation.
type Transaction struct {
	ID     int64  `json:"id"`
	UserID UserID `json:"userId"`

	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`

	CreatedAt time.Time `json:"createdAt"`
}
