package postgres

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	userDomainsTable = "user_domains"
)

// StoreUserDomain inserts a pending domain record. External ids start empty
// and are filled in step by step during provisioning.
func (p *PgSQL) StoreUserDomain(ctx context.Context,
	d domain.UserDomain) (*domain.UserDomain, error) {
	var pgDomain PgUserDomain
	pgDomain.FromDomain(d)

	var row PgUserDomain
	found, err := p.Builder.Insert(userDomainsTable).
		Rows(pgDomain).
		Returning(&PgUserDomain{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store user domain into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("store user domain returned no row")
	}

	return row.ToDomain(), nil
}

// UpdateUserDomain applies the non-nil external-id updates and returns the
// updated row, or nil when the record is gone.
func (p *PgSQL) UpdateUserDomain(ctx context.Context,
	id domain.UserDomainID,
	updates storage.UserDomainUpdates) (*domain.UserDomain, error) {
	rec := goqu.Record{}
	if updates.TrackerID != nil {
		rec["tracker_id"] = *updates.TrackerID
	}
	if updates.ZoneID != nil {
		rec["zone_id"] = *updates.ZoneID
	}
	if updates.DNSRecordID != nil {
		rec["dns_record_id"] = *updates.DNSRecordID
	}
	if len(rec) == 0 {
		return p.UserDomainByID(ctx, id)
	}

	var row PgUserDomain
	found, err := p.Builder.Update(userDomainsTable).
		Set(rec).
		Where(goqu.I("id").Eq(int64(id))).
		Returning(&PgUserDomain{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update user domain in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DeleteUserDomain removes a domain record.
func (p *PgSQL) DeleteUserDomain(ctx context.Context, id domain.UserDomainID) error {
	_, err := p.Builder.Delete(userDomainsTable).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not delete user domain in pg: %w", err)
	}

	return nil
}

// UserDomainByID returns a domain record by id, or nil when unknown.
func (p *PgSQL) UserDomainByID(ctx context.Context,
	id domain.UserDomainID) (*domain.UserDomain, error) {
	var row PgUserDomain
	found, err := p.Builder.From(userDomainsTable).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user domain by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// UserDomains returns all domain records of a user ordered by insertion.
func (p *PgSQL) UserDomains(ctx context.Context,
	userID domain.UserID) ([]domain.UserDomain, error) {
	var rows []PgUserDomain
	if err := p.Builder.From(userDomainsTable).
		Where(goqu.I("user_id").Eq(int64(userID))).
		Order(goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user domains from pg: %w", err)
	}

	out := make([]domain.UserDomain, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToDomain())
	}

	return out, nil
}
