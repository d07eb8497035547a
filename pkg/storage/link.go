package storage

import (
	"context"
	"redirectadmin/pkg/domain"
)

// LinkWrapResult carries the fields the wrapping pipeline persists on a link
// once its campaign has been created and its URLs generated.
type LinkWrapResult struct {
	// CampaignID is the tracker campaign created for the link.
	CampaignID string
	// RedirectURLs is the full ordered list of generated redirect URLs.
	RedirectURLs []string
	// ShortURLs is the ordered list of successfully shortened URLs. It may be
	// shorter than RedirectURLs when individual shorten calls failed.
	ShortURLs []string
}

// LinkStorage defines operations on link sets and links.
type LinkStorage interface {
	// StoreLinkSet inserts a new link set and returns the stored row.
	StoreLinkSet(ctx context.Context, set domain.LinkSet) (*domain.LinkSet, error)
	// LinkSetByID fetches a link set by id. Returns nil when not found.
	LinkSetByID(ctx context.Context, id domain.LinkSetID) (*domain.LinkSet, error)
	// UpsertLink creates a link, or updates its original URL, redirect count
	// and shortener when a link with the given id already exists. Processed
	// fields (campaign, URL lists) are never touched by an upsert.
	UpsertLink(ctx context.Context, link domain.Link) (*domain.Link, error)
	// LinkByID fetches a link by id. Returns nil when not found.
	LinkByID(ctx context.Context, id domain.LinkID) (*domain.Link, error)
	// LinksBySet returns all links of a link set in insertion order.
	LinksBySet(ctx context.Context, setID domain.LinkSetID) ([]domain.Link, error)
	// SetLinkWrapResult persists the pipeline output for one link.
	SetLinkWrapResult(ctx context.Context, id domain.LinkID, result LinkWrapResult) error
}
