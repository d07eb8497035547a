// Package dns defines the abstraction over the DNS provider that hosts
// zones for user-connected domains.
package dns

import "context"

// Client is the abstraction for DNS providers. Implementations manage zones
// and the A records pointing them at the tracker.
type Client interface {
	// CreateZone registers a zone for the given domain name and returns the
	// provider zone id.
	CreateZone(ctx context.Context, name string) (string, error)
	// CreateARecord adds a proxied apex A record pointing the zone at ip and
	// returns the record id.
	CreateARecord(ctx context.Context, zoneID, ip string) (string, error)
	// DeleteARecord removes a DNS record from a zone.
	DeleteARecord(ctx context.Context, zoneID, recordID string) error
	// DeleteZone removes a zone.
	DeleteZone(ctx context.Context, zoneID string) error
}
