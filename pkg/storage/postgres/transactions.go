package postgres

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"

	"github.com/doug-martin/goqu/v9"
)

const (
	transactionsTable = "transactions"
)

// StoreTransaction appends a ledger entry.
func (p *PgSQL) StoreTransaction(ctx context.Context,
	t domain.Transaction) (*domain.Transaction, error) {
	var pgTransaction PgTransaction
	pgTransaction.FromDomain(t)

	var row PgTransaction
	found, err := p.Builder.Insert(transactionsTable).
		Rows(pgTransaction).
		Returning(&PgTransaction{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store transaction into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("store transaction returned no row")
	}

	return row.ToDomain(), nil
}

// UserTransactions returns the ledger entries of a user, newest first.
func (p *PgSQL) UserTransactions(ctx context.Context,
	userID domain.UserID) ([]domain.Transaction, error) {
	var rows []PgTransaction
	if err := p.Builder.From(transactionsTable).
		Where(goqu.I("user_id").Eq(int64(userID))).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user transactions from pg: %w", err)
	}

	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToDomain())
	}

	return out, nil
}
