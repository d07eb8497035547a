package shortener

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GGGG shortens URLs through gg.gg via its form endpoint. Supports a custom
// short path through the alias hint.
type GGGG struct {
	httpClient *http.Client
}

func (c *GGGG) Shorten(ctx context.Context, longURL, aliasHint string) (string, error) {
	form := url.Values{}
	form.Set("long_url", longURL)
	if aliasHint != "" {
		form.Set("custom_path", aliasHint)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		"http://gg.gg/create",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return fetchShortURL(c.httpClient, req)
}
