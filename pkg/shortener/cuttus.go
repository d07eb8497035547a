package shortener

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Cuttus shortens URLs through cutt.us, which answers with the bare short
// URL in the response body.
type Cuttus struct {
	httpClient *http.Client
}

func (c *Cuttus) Shorten(ctx context.Context, longURL, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx,
		http.MethodGet,
		"https://cutt.us/api.php?url="+url.QueryEscape(longURL),
		nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	return fetchShortURL(c.httpClient, req)
}
