package shortener

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Kortlink shortens URLs through kortlink.dk, which answers with the bare
// short URL in the response body.
type Kortlink struct {
	httpClient *http.Client
}

func (c *Kortlink) Shorten(ctx context.Context, longURL, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx,
		http.MethodGet,
		"https://kortlink.dk/api?url="+url.QueryEscape(longURL),
		nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	return fetchShortURL(c.httpClient, req)
}
