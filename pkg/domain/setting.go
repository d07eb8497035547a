package domain

// Setting is one key/value pair of process-wide runtime configuration.
// Settings are edited out of band; the pipeline only ever reads them.
type Setting struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Setting keys consumed by the services.
const (
	// SettingTrackerHost is the hostname (or ip) of the ad-tracking system.
	SettingTrackerHost = "tracker_host"
	// SettingTrackerAPIKey authenticates against the tracker admin API.
	SettingTrackerAPIKey = "tracker_api_key"
	// SettingCloudflareEmail is the DNS provider account email.
	SettingCloudflareEmail = "cloudflare_email"
	// SettingCloudflareAPIKey is the DNS provider global API key.
	SettingCloudflareAPIKey = "cloudflare_api_key"
	// SettingWrapTariff is the price charged per successfully shortened link.
	SettingWrapTariff = "wrap_tariff"
	// SettingCampaignDomainID is the tracker domain id campaigns are created on.
	SettingCampaignDomainID = "campaign_domain_id"
	// SettingCampaignGroupID is the tracker group id campaigns are filed under.
	SettingCampaignGroupID = "campaign_group_id"
	// SettingCuttlyAPIKey authenticates against the cutt.ly API.
	SettingCuttlyAPIKey = "cuttly_api_key"
)
