package domain

import "time"

// LinkSetID identifies a named grouping of links owned by one user.
type LinkSetID int64

// LinkID identifies a single link inside a link set.
type LinkID int64

// ShortenerService names the backend used to shrink redirect URLs for a
// link. Adding a backend means adding a constant here plus one registry
// entry in pkg/shortener.
type ShortenerService string

const (
	ShortenerCuttly       ShortenerService = "cutt.ly"
	ShortenerCuttus       ShortenerService = "cutt.us"
	ShortenerClckru       ShortenerService = "clck.ru"
	ShortenerKortlink     ShortenerService = "kortlink.dk"
	ShortenerGGGG         ShortenerService = "gg.gg"
	ShortenerT9yme        ShortenerService = "t9y.me"
	ShortenerCustomDomain ShortenerService = "custom_domain"
	ShortenerUserDomain   ShortenerService = "user_domain"
)

// KnownShorteners lists every accepted service name.
var KnownShorteners = []ShortenerService{ //nolint: gochecknoglobals
	ShortenerCuttly,
	ShortenerCuttus,
	ShortenerClckru,
	ShortenerKortlink,
	ShortenerGGGG,
	ShortenerT9yme,
	ShortenerCustomDomain,
	ShortenerUserDomain,
}

// ValidShortener reports whether s names a known shortening service.
func ValidShortener(s ShortenerService) bool {
	for _, k := range KnownShorteners {
		if s == k {
			return true
		}
	}

	return false
}

// LinkSet groups links so one wrap run can process them together.
type LinkSet struct {
	ID     LinkSetID `json:"id"`
	UserID UserID    `json:"userId"`

	Title string `json:"title"`

	CreatedAt time.Time `json:"createdAt"`
}

// Link is one original URL to wrap plus everything the pipeline produced for
// it. RedirectURLs and ShortURLs are ordered; a shorten failure drops the
// entry from ShortURLs only, so len(ShortURLs) <= len(RedirectURLs). A link
// whose campaign creation failed keeps CampaignID and both lists empty.
type Link struct {
	ID        LinkID    `json:"id"`
	UserID    UserID    `json:"userId"`
	LinkSetID LinkSetID `json:"linkSetId"`

	OriginalURL   string           `json:"originalUrl"`
	RedirectCount int              `json:"redirectCount"`
	Shortener     ShortenerService `json:"shortener"`

	CampaignID   string   `json:"campaignId"`
	RedirectURLs []string `json:"redirectUrls"`
	ShortURLs    []string `json:"shortUrls"`

	CreatedAt time.Time `json:"createdAt"`
}
