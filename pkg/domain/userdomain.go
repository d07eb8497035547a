package domain

import "time"

// UserDomainID identifies one custom-domain provisioning record.
type UserDomainID int64

// UserDomain is a custom domain a user connected to the service. External
// ids are filled in as each provisioning step succeeds; a record with all
// three ids set is fully provisioned, anything else is pending or mid-unwind.
type UserDomain struct {
	ID     UserDomainID `json:"id"`
	UserID UserID       `json:"userId"`

	Domain string `json:"domain"`

	// TrackerID is the domain id issued by the ad-tracking system.
	TrackerID string `json:"trackerId"`
	// ZoneID is the DNS zone id issued by the DNS provider.
	ZoneID string `json:"zoneId"`
	// DNSRecordID is the id of the A record pointing the zone at the tracker.
	DNSRecordID string `json:"dnsRecordId"`

	CreatedAt time.Time `json:"createdAt"`
}

// Provisioned reports whether every external id has been assigned.
func (d UserDomain) Provisioned() bool {
	return d.TrackerID != "" && d.ZoneID != "" && d.DNSRecordID != ""
}
