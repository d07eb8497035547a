package ledger_test

import (
	"context"
	"errors"
	"redirectadmin/internal/ledger"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/storage"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeStorage implements the slices of storage.Storage the ledger touches.
// WithTx runs the callback against the fake itself, so calls made inside the
// transaction are recorded like any other.
type fakeStorage struct {
	storage.Storage

	balance      decimal.Decimal
	transactions []domain.Transaction

	adjustErr error
	storeErr  error
}

func (f *fakeStorage) WithTx(_ context.Context, cb func(storage.AllStorage) error) error {
	return cb(f)
}

func (f *fakeStorage) StoreTransaction(_ context.Context,
	t domain.Transaction) (*domain.Transaction, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	t.ID = int64(len(f.transactions) + 1)
	f.transactions = append(f.transactions, t)

	return &t, nil
}

func (f *fakeStorage) AdjustBalance(_ context.Context,
	_ domain.UserID,
	delta decimal.Decimal) (decimal.Decimal, error) {
	if f.adjustErr != nil {
		return decimal.Decimal{}, f.adjustErr
	}
	f.balance = f.balance.Add(delta)

	return f.balance, nil
}

func TestLedger_Adjust_Credit(t *testing.T) {
	fs := &fakeStorage{}
	l := ledger.New(fs)

	balance, err := l.Adjust(context.Background(), 1,
		decimal.RequireFromString("25.00"), domain.TransactionCredit, "bill 7 paid")
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("25.00")))
	require.Len(t, fs.transactions, 1)
	require.Equal(t, domain.TransactionCredit, fs.transactions[0].Kind)
	require.True(t, fs.transactions[0].Amount.Equal(decimal.RequireFromString("25.00")))
	require.Equal(t, "bill 7 paid", fs.transactions[0].Description)
}

func TestLedger_Adjust_DebitMayGoNegative(t *testing.T) {
	fs := &fakeStorage{balance: decimal.NewFromInt(5)}
	l := ledger.New(fs)

	balance, err := l.Adjust(context.Background(), 1,
		decimal.NewFromInt(8), domain.TransactionDebit, "wrapped links")
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(-3)))
	// amount is stored positive even for debits
	require.True(t, fs.transactions[0].Amount.Equal(decimal.NewFromInt(8)))
}

func TestLedger_Adjust_RejectsBadInput(t *testing.T) {
	l := ledger.New(&fakeStorage{})

	_, err := l.Adjust(context.Background(), 1,
		decimal.Zero, domain.TransactionCredit, "")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = l.Adjust(context.Background(), 1,
		decimal.NewFromInt(-1), domain.TransactionDebit, "")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = l.Adjust(context.Background(), 1,
		decimal.NewFromInt(1), domain.TransactionKind("refund"), "")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestLedger_Adjust_BalanceFailureAbortsTx(t *testing.T) {
	fs := &fakeStorage{adjustErr: errors.New("user gone")}
	l := ledger.New(fs)

	_, err := l.Adjust(context.Background(), 1,
		decimal.NewFromInt(1), domain.TransactionCredit, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "user gone")
}
