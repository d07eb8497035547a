package transfer_test

import (
	"context"
	"redirectadmin/internal/transfer"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/storage"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	storage.Storage

	users map[domain.ChatID]*domain.User

	reassigned [][2]domain.UserID
	copiedTo   domain.UserID
}

func (f *fakeStorage) WithTx(_ context.Context, cb func(storage.AllStorage) error) error {
	return cb(f)
}

func (f *fakeStorage) UserByChatID(_ context.Context, chatID domain.ChatID) (*domain.User, error) {
	return f.users[chatID], nil
}

func (f *fakeStorage) UserByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}

	return nil, nil
}

func (f *fakeStorage) ReassignOwnership(_ context.Context, from, to domain.UserID) error {
	f.reassigned = append(f.reassigned, [2]domain.UserID{from, to})

	return nil
}

func (f *fakeStorage) SetBalanceAndLanguage(_ context.Context,
	id domain.UserID,
	balance decimal.Decimal,
	language string) error {
	f.copiedTo = id
	for _, u := range f.users {
		if u.ID == id {
			u.Balance = balance
			u.InterfaceLanguage = language
		}
	}

	return nil
}

func TestService_Transfer(t *testing.T) {
	oldUser := &domain.User{
		ID: 1, ChatID: 100,
		Balance:           decimal.RequireFromString("42.50"),
		InterfaceLanguage: "ru",
	}
	newUser := &domain.User{ID: 2, ChatID: 200, InterfaceLanguage: "en"}
	fs := &fakeStorage{users: map[domain.ChatID]*domain.User{100: oldUser, 200: newUser}}

	got, err := transfer.New(fs).Transfer(context.Background(), 100, 200)
	require.NoError(t, err)
	require.Equal(t, [][2]domain.UserID{{1, 2}}, fs.reassigned)
	require.Equal(t, domain.UserID(2), fs.copiedTo)
	require.True(t, got.Balance.Equal(decimal.RequireFromString("42.50")))
	require.Equal(t, "ru", got.InterfaceLanguage)

	// the old user's balance is left untouched
	require.True(t, oldUser.Balance.Equal(decimal.RequireFromString("42.50")))
}

func TestService_Transfer_MissingUsers(t *testing.T) {
	fs := &fakeStorage{users: map[domain.ChatID]*domain.User{
		100: {ID: 1, ChatID: 100},
	}}
	svc := transfer.New(fs)

	_, err := svc.Transfer(context.Background(), 100, 999)
	require.ErrorIs(t, err, serrors.ErrNotFound)

	_, err = svc.Transfer(context.Background(), 999, 100)
	require.ErrorIs(t, err, serrors.ErrNotFound)
	require.Empty(t, fs.reassigned)
}

func TestService_Transfer_SelfRejected(t *testing.T) {
	fs := &fakeStorage{users: map[domain.ChatID]*domain.User{
		100: {ID: 1, ChatID: 100},
	}}

	_, err := transfer.New(fs).Transfer(context.Background(), 100, 100)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}
