package storage

import (
	"context"
	"redirectadmin/pkg/domain"
)

// UserDomainUpdates describes the external ids to set on a user domain
// record. Only non-nil fields are applied.
type UserDomainUpdates struct {
	TrackerID   *string
	ZoneID      *string
	DNSRecordID *string
}

// UserDomainStorage defines operations on custom-domain records.
type UserDomainStorage interface {
	// StoreUserDomain inserts a pending record (no external ids yet) and
	// returns the stored row.
	StoreUserDomain(ctx context.Context, d domain.UserDomain) (*domain.UserDomain, error)
	// UpdateUserDomain applies the given external-id updates and returns the
	// updated row, or nil when the record does not exist.
	UpdateUserDomain(ctx context.Context,
		id domain.UserDomainID,
		updates UserDomainUpdates) (*domain.UserDomain, error)
	// DeleteUserDomain removes the record. Deleting a missing record is not
	// an error.
	DeleteUserDomain(ctx context.Context, id domain.UserDomainID) error
	// UserDomainByID fetches a record by id. Returns nil when not found.
	UserDomainByID(ctx context.Context, id domain.UserDomainID) (*domain.UserDomain, error)
	// UserDomains returns all domain records of a user in insertion order.
	UserDomains(ctx context.Context, userID domain.UserID) ([]domain.UserDomain, error)
}
