package cloudflare_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"redirectadmin/pkg/dns/cloudflare"
	"redirectadmin/pkg/serrors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *cloudflare.Client {
	return cloudflare.New(&http.Client{Transport: fn}, "admin@example.com", "cf-key")
}

func TestClient_CreateZone_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "api.cloudflare.com", r.URL.Host)
		require.Equal(t, "/client/v4/zones", r.URL.Path)
		require.Equal(t, "admin@example.com", r.Header.Get("X-Auth-Email"))
		require.Equal(t, "cf-key", r.Header.Get("X-Auth-Key"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "promo.example.com", payload["name"])
		require.Equal(t, "full", payload["type"])

		body := `{"success":true,"errors":[],"result":{"id":"zone-abc"}}`

		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	})

	id, err := c.CreateZone(context.Background(), "promo.example.com")
	require.NoError(t, err)
	require.Equal(t, "zone-abc", id)
}

func TestClient_CreateZone_apiError(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		body := `{"success":false,"errors":[{"code":1061,"message":"zone already exists"}]}`

		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	})

	_, err := c.CreateZone(context.Background(), "promo.example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "zone already exists")
}

func TestClient_CreateARecord_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/client/v4/zones/zone-abc/dns_records", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "A", payload["type"])
		require.Equal(t, "@", payload["name"])
		require.Equal(t, "198.51.100.7", payload["content"])
		require.Equal(t, true, payload["proxied"])
		require.InEpsilon(t, float64(3600), payload["ttl"], 0)

		body := `{"success":true,"errors":[],"result":{"id":"rec-1"}}`

		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	})

	id, err := c.CreateARecord(context.Background(), "zone-abc", "198.51.100.7")
	require.NoError(t, err)
	require.Equal(t, "rec-1", id)
}

func TestClient_DeleteARecord_and_Zone(t *testing.T) {
	var paths []string
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)

		body := `{"success":true,"errors":[],"result":{"id":"x"}}`

		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	})

	require.NoError(t, c.DeleteARecord(context.Background(), "zone-abc", "rec-1"))
	require.NoError(t, c.DeleteZone(context.Background(), "zone-abc"))
	require.Equal(t, []string{
		"/client/v4/zones/zone-abc/dns_records/rec-1",
		"/client/v4/zones/zone-abc",
	}, paths)
}

func TestClient_DeleteZone_notFound(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader("no zone"))}, nil
	})

	err := c.DeleteZone(context.Background(), "zone-missing")
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}
