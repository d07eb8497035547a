package shortener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Cuttly shortens URLs through the cutt.ly JSON API. Requires an API key.
type Cuttly struct {
	httpClient *http.Client
	apiKey     string
}

// cuttly status 7 means the link was shortened; every other code is a
// documented failure.
const cuttlyStatusOK = 7

func (c *Cuttly) Shorten(ctx context.Context, longURL, aliasHint string) (string, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("short", longURL)
	if aliasHint != "" {
		q.Set("name", aliasHint)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodGet,
		"https://cutt.ly/api/api.php?"+q.Encode(),
		nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("shorten failed: %s", strings.TrimSpace(string(b)))
	}

	var res struct {
		URL struct {
			Status    int    `json:"status"`
			ShortLink string `json:"shortLink"`
		} `json:"url"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	if res.URL.Status != cuttlyStatusOK {
		return "", fmt.Errorf("cutt.ly refused url: status %d", res.URL.Status)
	}

	return res.URL.ShortLink, nil
}
