package shortener

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// T9yme shortens URLs through t9y.me, which answers with the bare short URL
// in the response body.
type T9yme struct {
	httpClient *http.Client
}

func (c *T9yme) Shorten(ctx context.Context, longURL, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx,
		http.MethodGet,
		"https://t9y.me/api/create?url="+url.QueryEscape(longURL),
		nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	return fetchShortURL(c.httpClient, req)
}
