// Package storage defines the persistence interfaces the application relies
// on. It abstracts row operations and transaction management so that
// different backends (e.g. PostgreSQL) can provide concrete implementations.
package storage

import "context"

// AllStorage is a composite interface that includes every domain-specific
// storage capability required by the application.
type AllStorage interface {
	UserStorage
	LinkStorage
	UserDomainStorage
	PaymentStorage
	LedgerStorage
	SettingStorage
	JobStorage
}

// TxStorage is a storage handle bound to a database transaction. It exposes
// the same capabilities as AllStorage plus commit/rollback. Implementations
// become unusable after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage is a non-transactional storage handle with the ability to start
// transactions and manage the underlying connection lifecycle.
type Storage interface {
	AllStorage

	// Close releases resources held by the implementation (e.g. the pool).
	Close() error

	// Begin starts a new transaction and returns a TxStorage bound to it.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes cb with a transactional handle,
	// then commits on success or rolls back if cb returns an error.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
