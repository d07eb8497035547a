// Package cloudflare provides a dns.Client implementation backed by the
// Cloudflare v4 API using global-key authentication.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"redirectadmin/pkg/dns"
	"redirectadmin/pkg/serrors"
	"strings"
)

const baseURL = "https://api.cloudflare.com/client/v4"

// Client talks to the Cloudflare REST API and fulfills the dns.Client
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to Cloudflare
	email      string       // email is the account email for global-key auth
	apiKey     string       // apiKey is the account global API key
}

// envelope is the common Cloudflare response wrapper.
type envelope struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result json.RawMessage `json:"result"`
}

func (c *Client) do(ctx context.Context, method, url string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Email", c.email)
	req.Header.Set("X-Auth-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, serrors.With(serrors.ErrNotFound, "cloudflare: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloudflare request failed: %s", strings.TrimSpace(string(b)))
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if !env.Success {
		if len(env.Errors) > 0 {
			return nil, fmt.Errorf("cloudflare error %d: %s", env.Errors[0].Code, env.Errors[0].Message)
		}

		return nil, fmt.Errorf("cloudflare request not successful")
	}

	return env.Result, nil
}

func resultID(result json.RawMessage) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(result, &res); err != nil {
		return "", fmt.Errorf("could not decode result: %w", err)
	}
	if res.ID == "" {
		return "", fmt.Errorf("response carried no id")
	}

	return res.ID, nil
}

// CreateZone registers a full-setup zone for the given domain name.
func (c *Client) CreateZone(ctx context.Context, name string) (string, error) {
	payload := struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}{
		Name: name,
		Type: "full",
	}

	result, err := c.do(ctx, http.MethodPost, baseURL+"/zones", payload)
	if err != nil {
		return "", err
	}

	return resultID(result)
}

// CreateARecord adds a proxied apex A record pointing the zone at ip.
func (c *Client) CreateARecord(ctx context.Context, zoneID, ip string) (string, error) {
	payload := struct {
		Type    string `json:"type"`
		Name    string `json:"name"`
		Content string `json:"content"`
		Proxied bool   `json:"proxied"`
		TTL     int    `json:"ttl"`
	}{
		Type:    "A",
		Name:    "@",
		Content: ip,
		Proxied: true,
		TTL:     3600,
	}

	result, err := c.do(ctx, http.MethodPost, baseURL+"/zones/"+zoneID+"/dns_records", payload)
	if err != nil {
		return "", err
	}

	return resultID(result)
}

// DeleteARecord removes a DNS record from a zone.
func (c *Client) DeleteARecord(ctx context.Context, zoneID, recordID string) error {
	_, err := c.do(ctx, http.MethodDelete, baseURL+"/zones/"+zoneID+"/dns_records/"+recordID, nil)

	return err
}

// DeleteZone removes a zone.
func (c *Client) DeleteZone(ctx context.Context, zoneID string) error {
	_, err := c.do(ctx, http.MethodDelete, baseURL+"/zones/"+zoneID, nil)

	return err
}

// Ensure Client conforms to the dns.Client interface at compile time.
var _ dns.Client = (*Client)(nil)

// New constructs a Client authenticating with the account email and global
// API key.
func New(httpClient *http.Client, email, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		email:      email,
		apiKey:     apiKey,
	}
}
