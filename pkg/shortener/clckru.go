package shortener

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Clckru shortens URLs through clck.ru, which answers with the bare short
// URL in the response body.
type Clckru struct {
	httpClient *http.Client
}

func (c *Clckru) Shorten(ctx context.Context, longURL, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx,
		http.MethodGet,
		"https://clck.ru/--?url="+url.QueryEscape(longURL),
		nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	return fetchShortURL(c.httpClient, req)
}
