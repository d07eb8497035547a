package postgres

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"

	"github.com/doug-martin/goqu/v9"
)

const (
	paymentsTable = "payments"
)

// StorePayment inserts a new bill.
func (p *PgSQL) StorePayment(ctx context.Context,
	payment domain.Payment) (*domain.Payment, error) {
	var pgPayment PgPayment
	pgPayment.FromDomain(payment)

	var row PgPayment
	found, err := p.Builder.Insert(paymentsTable).
		Rows(pgPayment).
		Returning(&PgPayment{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store payment into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("store payment returned no row")
	}

	return row.ToDomain(), nil
}

// PaymentByID returns a bill by id, or nil when unknown.
func (p *PgSQL) PaymentByID(ctx context.Context,
	id domain.PaymentID) (*domain.Payment, error) {
	var row PgPayment
	found, err := p.Builder.From(paymentsTable).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch payment by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// UserPayments returns the bills of a user, newest first.
func (p *PgSQL) UserPayments(ctx context.Context,
	userID domain.UserID,
	includeArchived bool) ([]domain.Payment, error) {
	w := []goqu.Expression{
		goqu.I("user_id").Eq(int64(userID)),
	}
	if !includeArchived {
		w = append(w, goqu.I("archived").IsFalse())
	}

	var rows []PgPayment
	if err := p.Builder.From(paymentsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user payments from pg: %w", err)
	}

	out := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToDomain())
	}

	return out, nil
}

// MarkPaymentPaid flips the paid flag. The boolean result reports whether the
// bill was already paid before this call, letting callers credit a bill at
// most once. Returns a nil payment when the bill does not exist.
func (p *PgSQL) MarkPaymentPaid(ctx context.Context,
	id domain.PaymentID) (*domain.Payment, bool, error) {
	var row PgPayment
	found, err := p.Builder.Update(paymentsTable).
		Set(goqu.Record{
			"paid": true,
		}).
		Where(
			goqu.I("id").Eq(int64(id)),
			goqu.I("paid").IsFalse(),
		).
		Returning(&PgPayment{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, false, fmt.Errorf("could not mark payment paid in pg: %w", err)
	}
	if found {
		return row.ToDomain(), false, nil
	}

	// nothing transitioned: either the bill is missing or it was paid before
	existing, err := p.PaymentByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}

	return existing, true, nil
}

// ArchivePayment sets the archived flag on a bill.
func (p *PgSQL) ArchivePayment(ctx context.Context, id domain.PaymentID) error {
	_, err := p.Builder.Update(paymentsTable).
		Set(goqu.Record{
			"archived": true,
		}).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not archive payment in pg: %w", err)
	}

	return nil
}
