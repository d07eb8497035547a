package storage

import "context"

// SettingStorage defines lookups into the runtime settings table. The
// pipeline only reads settings; writes happen through the admin boundary.
type SettingStorage interface {
	// SettingValue returns the value stored under key, or nil when the key is
	// not set.
	SettingValue(ctx context.Context, key string) (*string, error)
	// UpsertSetting stores value under key, replacing any previous value.
	UpsertSetting(ctx context.Context, key, value string) error
}
