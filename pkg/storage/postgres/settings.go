package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	settingsTable = "settings"
)

// SettingValue returns the value stored under key, or nil when unset.
func (p *PgSQL) SettingValue(ctx context.Context, key string) (*string, error) {
	var row PgSetting
	found, err := p.Builder.From(settingsTable).
		Where(goqu.I("key").Eq(key)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch setting from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &row.Value, nil
}

// UpsertSetting stores value under key, replacing any previous value.
func (p *PgSQL) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := p.Builder.Insert(settingsTable).
		Rows(PgSetting{Key: key, Value: value}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value": value,
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not upsert setting into pg: %w", err)
	}

	return nil
}
