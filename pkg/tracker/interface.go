// Package tracker defines the abstraction over the ad-tracking system that
// hosts redirect campaigns and custom domains.
package tracker

import "context"

// CampaignSpec describes a redirect campaign to create. The tracker serves
// the campaign on DomainID and forwards every hit to TargetURL.
type CampaignSpec struct {
	// Alias is the unique campaign alias, also the path component of the
	// resulting redirect URL.
	Alias string
	// Name is the human-readable campaign name shown in the tracker UI.
	Name string
	// TargetURL is the destination the campaign redirects to.
	TargetURL string
	// DomainID is the tracker domain the campaign is served on.
	DomainID int64
	// GroupID is the tracker group the campaign is filed under.
	GroupID int64
}

// Campaign is the tracker's view of a created campaign.
type Campaign struct {
	// ID is the campaign identifier assigned by the tracker.
	ID string
	// RedirectURL is the public URL that triggers the campaign redirect.
	RedirectURL string
}

// Client is the abstraction for ad trackers. Implementations create and
// delete redirect campaigns and tracker-side domains.
type Client interface {
	// CreateCampaign creates a redirect campaign and returns its id and
	// public redirect URL.
	CreateCampaign(ctx context.Context, spec CampaignSpec) (Campaign, error)
	// DeleteCampaign removes a campaign by id.
	DeleteCampaign(ctx context.Context, id string) error
	// CreateDomain registers a domain with the tracker and returns its id.
	CreateDomain(ctx context.Context, name string) (string, error)
	// DeleteDomain removes a tracker domain by id.
	DeleteDomain(ctx context.Context, id string) error
}
