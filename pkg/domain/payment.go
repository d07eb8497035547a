package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentID identifies a payment bill.
type PaymentID int64

// PaySystem names the payment provider a bill was issued through.
type PaySystem string

const (
	PaySystemQiwi    PaySystem = "qiwi"
	PaySystemCrystal PaySystem = "crystal"
	PaySystemToCard  PaySystem = "to_card"
)

// Payment is a bill issued to a user. Marking it paid credits the balance
// through the ledger; archiving hides it from active listings.
type Payment struct {
	ID     PaymentID `json:"id"`
	UserID UserID    `json:"userId"`

	System PaySystem       `json:"system"`
	Amount decimal.Decimal `json:"amount"`

	BillID  string `json:"billId"`
	BillURL string `json:"billUrl"`

	Paid     bool `json:"paid"`
	Archived bool `json:"archived"`

	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
