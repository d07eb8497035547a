package postgres

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

const (
	usersTable = "users"
)

// ownedTables lists every table carrying a user_id foreign key. Account
// transfer rewrites ownership across all of them.
var ownedTables = []string{ //nolint: gochecknoglobals
	linkSetsTable,
	linksTable,
	userDomainsTable,
	paymentsTable,
	transactionsTable,
}

// UpsertUser inserts a user keyed by chat_id, or refreshes the profile
// columns of the existing row. Balance and created_at are left untouched on
// conflict.
func (p *PgSQL) UpsertUser(ctx context.Context, user domain.User) (*domain.User, error) {
	var pgUser PgUser
	pgUser.FromDomain(user)

	var row PgUser
	found, err := p.Builder.Insert(usersTable).
		Rows(pgUser).
		OnConflict(goqu.DoUpdate("chat_id", goqu.Record{
			"is_verified":        pgUser.IsVerified,
			"is_scam":            pgUser.IsScam,
			"is_fake":            pgUser.IsFake,
			"is_premium":         pgUser.IsPremium,
			"first_name":         pgUser.FirstName,
			"last_name":          pgUser.LastName,
			"username":           pgUser.Username,
			"language_code":      pgUser.LanguageCode,
			"interface_language": pgUser.InterfaceLanguage,
		})).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not upsert user into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("upsert user returned no row")
	}

	return row.ToDomain(), nil
}

// UserByChatID returns the user with the given chat id, or nil when unknown.
func (p *PgSQL) UserByChatID(ctx context.Context, chatID domain.ChatID) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(goqu.I("chat_id").Eq(int64(chatID))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user by chat id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// UserByID returns the user with the given id, or nil when unknown.
func (p *PgSQL) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// AdjustBalance applies delta to the user's balance in a single UPDATE and
// returns the resulting balance. The balance may go negative.
func (p *PgSQL) AdjustBalance(ctx context.Context,
	id domain.UserID,
	delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	found, err := p.Builder.Update(usersTable).
		Set(goqu.Record{
			"balance": goqu.L("balance + ?", delta),
		}).
		Where(goqu.I("id").Eq(int64(id))).
		Returning(goqu.I("balance")).
		Executor().ScanValContext(ctx, &balance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not adjust user balance in pg: %w", err)
	}
	if !found {
		return decimal.Decimal{}, fmt.Errorf("could not adjust balance: user %d not found", id)
	}

	return balance, nil
}

// SetBalanceAndLanguage overwrites the balance and interface language of a
// user.
func (p *PgSQL) SetBalanceAndLanguage(ctx context.Context,
	id domain.UserID,
	balance decimal.Decimal,
	language string) error {
	_, err := p.Builder.Update(usersTable).
		Set(goqu.Record{
			"balance":            balance,
			"interface_language": language,
		}).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not set user balance and language in pg: %w", err)
	}

	return nil
}

// ReassignOwnership points every owned row of from at to. Callers are
// expected to run this inside a transaction so the move is all-or-nothing.
func (p *PgSQL) ReassignOwnership(ctx context.Context, from, to domain.UserID) error {
	for _, table := range ownedTables {
		_, err := p.Builder.Update(table).
			Set(goqu.Record{
				"user_id": int64(to),
			}).
			Where(goqu.I("user_id").Eq(int64(from))).
			Executor().ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("could not reassign %s ownership in pg: %w", table, err)
		}
	}

	return nil
}
