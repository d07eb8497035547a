// Package shortener provides URL-shortening backends behind a common
// interface, selected per link through a Registry keyed by service name.
package shortener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/serrors"
	"strings"
)

// Shortener shrinks a single long URL. aliasHint is a suggested short path;
// backends that do not support custom aliases ignore it.
type Shortener interface {
	Shorten(ctx context.Context, longURL, aliasHint string) (string, error)
}

// Options carries the dependencies and credentials of the HTTP backends.
type Options struct {
	// HTTPClient performs all backend requests. Must have a bounded timeout.
	HTTPClient *http.Client
	// CuttlyAPIKey authenticates against the cutt.ly API.
	CuttlyAPIKey string
}

// Registry maps service names to backends. Adding a backend means one entry
// here plus its constant in pkg/domain.
type Registry struct {
	backends map[domain.ShortenerService]Shortener
}

// NewRegistry builds the registry of all hosted shortening backends.
// custom_domain is intentionally absent: it is satisfied by the wrapping
// pipeline through the tracker, not by a hosted shortener. user_domain is
// absent until its backend exists.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		backends: map[domain.ShortenerService]Shortener{
			domain.ShortenerCuttly:   &Cuttly{httpClient: opts.HTTPClient, apiKey: opts.CuttlyAPIKey},
			domain.ShortenerCuttus:   &Cuttus{httpClient: opts.HTTPClient},
			domain.ShortenerClckru:   &Clckru{httpClient: opts.HTTPClient},
			domain.ShortenerKortlink: &Kortlink{httpClient: opts.HTTPClient},
			domain.ShortenerGGGG:     &GGGG{httpClient: opts.HTTPClient},
			domain.ShortenerT9yme:    &T9yme{httpClient: opts.HTTPClient},
		},
	}
}

// Get returns the backend for the given service, or UNAVAILABLE when the
// service has no hosted backend.
func (r *Registry) Get(service domain.ShortenerService) (Shortener, error) {
	s, ok := r.backends[service]
	if !ok {
		return nil, serrors.With(serrors.ErrUnavailable, "no shortener backend for %q", service)
	}

	return s, nil
}

// fetchShortURL performs the request and interprets the body as a bare short
// URL, the response convention shared by most plain-text backends.
func fetchShortURL(httpClient *http.Client, req *http.Request) (string, error) {
	resp, err := httpClient.Do(req)
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

	short := strings.TrimSpace(string(b))
	if !strings.HasPrefix(short, "http://") && !strings.HasPrefix(short, "https://") {
		return "", fmt.Errorf("unexpected shorten response: %s", short)
	}

	return short, nil
}
