// Package keitaro provides a tracker.Client implementation backed by the
// Keitaro admin API.
package keitaro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/tracker"
	"strings"
)

// Client talks to the Keitaro admin REST API and fulfills the tracker.Client
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to the tracker
	host       string       // host is the tracker hostname or IP, without scheme
	apiKey     string       // apiKey authenticates admin API calls
}

// campaignStream mirrors the stream objects of the Keitaro campaign payload.
type campaignStream struct {
	Name          string           `json:"name"`
	Position      int              `json:"position"`
	Weight        int              `json:"weight"`
	Schema        string           `json:"schema"`
	Type          string           `json:"type"`
	ActionType    string           `json:"action_type"`
	State         string           `json:"state"`
	CollectClicks bool             `json:"collect_clicks"`
	ActionPayload string           `json:"action_payload,omitempty"`
	Filters       []campaignFilter `json:"filters"`
}

type campaignFilter struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

func (c *Client) baseURL() string {
	return "http://" + c.host + "/admin_api/v1"
}

func (c *Client) do(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Api-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("could not read response body: %w", err)
	}

	return resp.StatusCode, b, nil
}

// CreateCampaign creates a position campaign with two streams: a forced
// bot-filter stream and the actual HTTP redirect stream pointing at the
// target URL. The public redirect URL is built from the domain Keitaro
// reports for the campaign, falling back to the tracker host.
func (c *Client) CreateCampaign(ctx context.Context, spec tracker.CampaignSpec) (tracker.Campaign, error) {
	payload := struct {
		Alias                string           `json:"alias"`
		Name                 string           `json:"name"`
		State                string           `json:"state"`
		Type                 string           `json:"type"`
		CookiesTTL           int              `json:"cookies_ttl"`
		UniquenessMethod     string           `json:"uniqueness_method"`
		UniquenessUseCookies bool             `json:"uniqueness_use_cookies"`
		CostType             string           `json:"cost_type"`
		CostAuto             bool             `json:"cost_auto"`
		DomainID             int64            `json:"domain_id"`
		GroupID              int64            `json:"group_id"`
		Streams              []campaignStream `json:"streams"`
	}{
		Alias:                spec.Alias,
		Name:                 spec.Name,
		State:                "active",
		Type:                 "position",
		CookiesTTL:           999999,
		UniquenessMethod:     "ip_ua",
		UniquenessUseCookies: true,
		CostType:             "CPC",
		CostAuto:             true,
		DomainID:             spec.DomainID,
		GroupID:              spec.GroupID,
		Streams: []campaignStream{
			{
				Name:          "Bot Protection",
				Position:      1,
				Weight:        0,
				Schema:        "action",
				Type:          "forced",
				ActionType:    "campaign",
				State:         "active",
				CollectClicks: true,
				Filters:       []campaignFilter{{Name: "bot", Mode: "accept"}},
			},
			{
				Name:          "Redirect",
				Position:      2,
				Weight:        100,
				Schema:        "redirect",
				Type:          "regular",
				ActionType:    "http",
				State:         "active",
				CollectClicks: true,
				ActionPayload: spec.TargetURL,
				Filters:       []campaignFilter{},
			},
		},
	}

	status, b, err := c.do(ctx, http.MethodPost, c.baseURL()+"/campaigns", payload)
	if err != nil {
		return tracker.Campaign{}, err
	}
	if status < 200 || status >= 300 {
		return tracker.Campaign{}, fmt.Errorf("create campaign failed: %s", strings.TrimSpace(string(b)))
	}

	var resp struct {
		ID     json.Number `json:"id"`
		Alias  string      `json:"alias"`
		Domain string      `json:"domain"`
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return tracker.Campaign{}, fmt.Errorf("could not decode response: %w", err)
	}

	domain := resp.Domain
	if domain == "" {
		domain = c.host
	}
	alias := resp.Alias
	if alias == "" {
		alias = spec.Alias
	}

	return tracker.Campaign{
		ID:          resp.ID.String(),
		RedirectURL: "http://" + domain + "/" + alias,
	}, nil
}

// DeleteCampaign removes a campaign by id.
func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	status, b, err := c.do(ctx, http.MethodDelete, c.baseURL()+"/campaigns/"+id, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return serrors.With(serrors.ErrNotFound, "campaign %s not found", id)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("delete campaign failed: %s", strings.TrimSpace(string(b)))
	}

	return nil
}

// CreateDomain registers a domain with the tracker. Keitaro answers domain
// creation with an array of created records.
func (c *Client) CreateDomain(ctx context.Context, name string) (string, error) {
	payload := struct {
		Name              string `json:"name"`
		DefaultCampaignID int    `json:"default_campaign_id"`
		CatchNotFound     bool   `json:"catch_not_found"`
		Notes             string `json:"notes"`
		SslRedirect       bool   `json:"ssl_redirect"`
		AllowIndexing     bool   `json:"allow_indexing"`
		AdminDashboard    bool   `json:"admin_dashboard"`
	}{
		Name:          name,
		CatchNotFound: true,
		SslRedirect:   true,
	}

	status, b, err := c.do(ctx, http.MethodPost, c.baseURL()+"/domains", payload)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("create domain failed: %s", strings.TrimSpace(string(b)))
	}

	var resp []struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	if len(resp) == 0 || resp[0].ID.String() == "" {
		return "", fmt.Errorf("create domain returned no id")
	}

	return resp[0].ID.String(), nil
}

// DeleteDomain removes a tracker domain by id.
func (c *Client) DeleteDomain(ctx context.Context, id string) error {
	status, b, err := c.do(ctx, http.MethodDelete, c.baseURL()+"/domains/"+id, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return serrors.With(serrors.ErrNotFound, "domain %s not found", id)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("delete domain failed: %s", strings.TrimSpace(string(b)))
	}

	return nil
}

// Ensure Client conforms to the tracker.Client interface at compile time.
var _ tracker.Client = (*Client)(nil)

// New constructs a Client for the tracker reachable at host (no scheme),
// authenticating every call with apiKey.
func New(httpClient *http.Client, host, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		host:       host,
		apiKey:     apiKey,
	}
}
