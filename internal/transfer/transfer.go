// Package transfer moves an account to a new Telegram identity: everything
// the old user owns is reassigned to the new user, and the balance plus the
// chosen interface language are copied over.
package transfer

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/storage"
)

// Service performs account transfers.
type Service struct {
	storage storage.Storage
}

// Transfer moves all data from the user identified by oldChatID to the user
// identified by newChatID. Both users must already exist. The move runs in
// one database transaction. The old user keeps their balance; the row stays
// behind as an inert shell.
func (s *Service) Transfer(ctx context.Context, oldChatID, newChatID domain.ChatID) (*domain.User, error) {
	if oldChatID == newChatID {
		return nil, serrors.With(serrors.ErrBadRequest, "cannot transfer an account to itself")
	}

	oldUser, err := s.storage.UserByChatID(ctx, oldChatID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch old user: %w", err)
	}
	if oldUser == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user with chat id %d not found", oldChatID)
	}

	newUser, err := s.storage.UserByChatID(ctx, newChatID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch new user: %w", err)
	}
	if newUser == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user with chat id %d not found", newChatID)
	}

	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if err := tx.ReassignOwnership(ctx, oldUser.ID, newUser.ID); err != nil {
			return fmt.Errorf("could not reassign ownership: %w", err)
		}

		if err := tx.SetBalanceAndLanguage(ctx,
			newUser.ID,
			oldUser.Balance,
			oldUser.InterfaceLanguage); err != nil {
			return fmt.Errorf("could not copy account data: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not transfer account: %w", err)
	}

	transferred, err := s.storage.UserByID(ctx, newUser.ID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch transferred user: %w", err)
	}

	return transferred, nil
}

// New creates a transfer Service backed by the given storage.
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}
