// Package settings exposes the runtime configuration stored in the settings
// table. Values are edited out of band while the service runs, so every read
// goes to storage; nothing is cached.
package settings

import (
	"context"
	"fmt"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/storage"
	"strconv"

	"github.com/shopspring/decimal"
)

// Provider reads runtime settings through the storage layer.
type Provider struct {
	storage storage.SettingStorage
}

// Get returns the value stored under key. A missing key yields a
// MISSING_SETTING error; callers must abort before any external side effect.
func (p *Provider) Get(ctx context.Context, key string) (string, error) {
	value, err := p.storage.SettingValue(ctx, key)
	if err != nil {
		return "", fmt.Errorf("could not read setting %q: %w", key, err)
	}
	if value == nil {
		return "", serrors.With(serrors.ErrMissingSetting, "setting %q is not configured", key)
	}

	return *value, nil
}

// Optional returns the value stored under key, or empty when unset.
func (p *Provider) Optional(ctx context.Context, key string) (string, error) {
	value, err := p.storage.SettingValue(ctx, key)
	if err != nil {
		return "", fmt.Errorf("could not read setting %q: %w", key, err)
	}
	if value == nil {
		return "", nil
	}

	return *value, nil
}

// GetDecimal reads a setting and parses it as a decimal amount.
func (p *Provider) GetDecimal(ctx context.Context, key string) (decimal.Decimal, error) {
	raw, err := p.Get(ctx, key)
	if err != nil {
		return decimal.Decimal{}, err
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("setting %q is not a valid amount: %w", key, err)
	}

	return d, nil
}

// GetInt reads a setting and parses it as an integer.
func (p *Provider) GetInt(ctx context.Context, key string) (int64, error) {
	raw, err := p.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("setting %q is not a valid integer: %w", key, err)
	}

	return n, nil
}

// New creates a Provider backed by the given storage.
func New(storage storage.SettingStorage) *Provider {
	return &Provider{storage: storage}
}
