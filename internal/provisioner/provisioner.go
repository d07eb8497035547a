// Package provisioner connects custom domains: it registers the domain with
// the ad tracker, creates the DNS zone and points an apex A record at the
// tracker. Provisioning is all-or-nothing; a failure unwinds every step
// already taken. Deprovisioning is best-effort by design: a dangling external
// resource must never keep a user from deleting their domain record.
package provisioner

import (
	"context"
	"fmt"
	"net/http"
	"redirectadmin/internal/settings"
	"redirectadmin/pkg/dns"
	"redirectadmin/pkg/dns/cloudflare"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/logger"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/storage"
	"redirectadmin/pkg/tracker"
	"redirectadmin/pkg/tracker/keitaro"

	"go.uber.org/zap"
)

// TrackerFactory builds a tracker client from credentials resolved at call
// time from the settings table.
type TrackerFactory func(httpClient *http.Client, host, apiKey string) tracker.Client

// DNSFactory builds a DNS provider client from credentials resolved at call
// time from the settings table.
type DNSFactory func(httpClient *http.Client, email, apiKey string) dns.Client

// Options configures the external clients used by the Provisioner.
type Options struct {
	// HTTPClient performs all outbound calls. Must have a bounded timeout.
	HTTPClient *http.Client
	// TrackerFactory defaults to the Keitaro client.
	TrackerFactory TrackerFactory
	// DNSFactory defaults to the Cloudflare client.
	DNSFactory DNSFactory
}

// Provisioner runs the domain-connection saga.
type Provisioner struct {
	storage  storage.Storage
	settings *settings.Provider
	options  Options
}

// step is one forward action of the saga paired with its compensation.
// Compensations inspect the state captured so far and skip whatever was not
// yet created, so it is safe to compensate the failing step itself.
type step struct {
	name       string
	forward    func(ctx context.Context) error
	compensate func(ctx context.Context)
}

// Provision connects name for the given user. On success the returned record
// carries all three external ids. On failure every already-created resource
// is removed in reverse order and the error of the failing step is returned.
func (p *Provisioner) Provision(ctx context.Context,
	userID domain.UserID,
	name string) (*domain.UserDomain, error) {
	if name == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "domain name is empty")
	}

	var (
		record        *domain.UserDomain
		trackerClient tracker.Client
		dnsClient     dns.Client
		trackerHost   string
		trackerID     string
		zoneID        string
	)

	steps := []step{
		{
			name: "store record",
			forward: func(ctx context.Context) error {
				stored, err := p.storage.StoreUserDomain(ctx, domain.UserDomain{
					UserID: userID,
					Domain: name,
				})
				if err != nil {
					return fmt.Errorf("could not store domain record: %w", err)
				}
				record = stored

				return nil
			},
			compensate: func(ctx context.Context) {
				if record == nil {
					return
				}
				if err := p.storage.DeleteUserDomain(ctx, record.ID); err != nil {
					logger.Error(ctx, "could not remove domain record during unwind", zap.Error(err))
				}
			},
		},
		{
			name: "resolve settings",
			forward: func(ctx context.Context) error {
				host, err := p.settings.Get(ctx, domain.SettingTrackerHost)
				if err != nil {
					return err
				}
				trackerKey, err := p.settings.Get(ctx, domain.SettingTrackerAPIKey)
				if err != nil {
					return err
				}
				email, err := p.settings.Get(ctx, domain.SettingCloudflareEmail)
				if err != nil {
					return err
				}
				dnsKey, err := p.settings.Get(ctx, domain.SettingCloudflareAPIKey)
				if err != nil {
					return err
				}

				trackerHost = host
				trackerClient = p.options.TrackerFactory(p.options.HTTPClient, host, trackerKey)
				dnsClient = p.options.DNSFactory(p.options.HTTPClient, email, dnsKey)

				return nil
			},
		},
		{
			name: "tracker domain",
			forward: func(ctx context.Context) error {
				id, err := trackerClient.CreateDomain(ctx, name)
				if err != nil {
					return fmt.Errorf("could not create tracker domain: %w", err)
				}
				trackerID = id

				if _, err := p.storage.UpdateUserDomain(ctx, record.ID,
					storage.UserDomainUpdates{TrackerID: &id}); err != nil {
					return fmt.Errorf("could not save tracker id: %w", err)
				}

				return nil
			},
			compensate: func(ctx context.Context) {
				if trackerID == "" {
					return
				}
				if err := trackerClient.DeleteDomain(ctx, trackerID); err != nil {
					logger.Error(ctx, "could not remove tracker domain during unwind", zap.Error(err))
				}
			},
		},
		{
			name: "dns zone",
			forward: func(ctx context.Context) error {
				id, err := dnsClient.CreateZone(ctx, name)
				if err != nil {
					return fmt.Errorf("could not create dns zone: %w", err)
				}
				zoneID = id

				if _, err := p.storage.UpdateUserDomain(ctx, record.ID,
					storage.UserDomainUpdates{ZoneID: &id}); err != nil {
					return fmt.Errorf("could not save zone id: %w", err)
				}

				return nil
			},
			compensate: func(ctx context.Context) {
				if zoneID == "" {
					return
				}
				if err := dnsClient.DeleteZone(ctx, zoneID); err != nil {
					logger.Error(ctx, "could not remove dns zone during unwind", zap.Error(err))
				}
			},
		},
		{
			name: "dns record",
			forward: func(ctx context.Context) error {
				id, err := dnsClient.CreateARecord(ctx, zoneID, trackerHost)
				if err != nil {
					return fmt.Errorf("could not create a record: %w", err)
				}

				updated, err := p.storage.UpdateUserDomain(ctx, record.ID,
					storage.UserDomainUpdates{DNSRecordID: &id})
				if err != nil {
					return fmt.Errorf("could not save dns record id: %w", err)
				}
				record = updated

				return nil
			},
		},
	}

	for i, s := range steps {
		if err := s.forward(ctx); err != nil {
			logger.Warn(ctx, "domain provisioning failed, unwinding",
				zap.String("step", s.name),
				zap.String("domain", name),
				zap.Error(err))

			for j := i; j >= 0; j-- {
				if steps[j].compensate != nil {
					steps[j].compensate(ctx)
				}
			}

			return nil, fmt.Errorf("provisioning failed at %s: %w", s.name, err)
		}
	}

	return record, nil
}

// Deprovision disconnects the domain record: it removes the A record, the
// zone and the tracker domain, then deletes the record itself. External
// failures are logged and skipped; only the final record deletion can fail
// the call.
func (p *Provisioner) Deprovision(ctx context.Context, id domain.UserDomainID) error {
	record, err := p.storage.UserDomainByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not fetch domain record: %w", err)
	}
	if record == nil {
		return serrors.With(serrors.ErrNotFound, "domain record %d not found", id)
	}

	ctx = logger.WithFields(ctx, zap.String("domain", record.Domain))

	trackerClient, dnsClient := p.resolveClients(ctx)

	if dnsClient != nil && record.ZoneID != "" && record.DNSRecordID != "" {
		if err := dnsClient.DeleteARecord(ctx, record.ZoneID, record.DNSRecordID); err != nil {
			logger.Warn(ctx, "could not delete a record", zap.Error(err))
		}
	}
	if dnsClient != nil && record.ZoneID != "" {
		if err := dnsClient.DeleteZone(ctx, record.ZoneID); err != nil {
			logger.Warn(ctx, "could not delete dns zone", zap.Error(err))
		}
	}
	if trackerClient != nil && record.TrackerID != "" {
		if err := trackerClient.DeleteDomain(ctx, record.TrackerID); err != nil {
			logger.Warn(ctx, "could not delete tracker domain", zap.Error(err))
		}
	}

	if err := p.storage.DeleteUserDomain(ctx, record.ID); err != nil {
		return fmt.Errorf("could not delete domain record: %w", err)
	}

	return nil
}

// resolveClients builds the external clients from settings. Missing
// credentials disable the respective cleanup instead of failing the call.
func (p *Provisioner) resolveClients(ctx context.Context) (tracker.Client, dns.Client) {
	var trackerClient tracker.Client
	host, hostErr := p.settings.Get(ctx, domain.SettingTrackerHost)
	key, keyErr := p.settings.Get(ctx, domain.SettingTrackerAPIKey)
	if hostErr == nil && keyErr == nil {
		trackerClient = p.options.TrackerFactory(p.options.HTTPClient, host, key)
	} else {
		logger.Warn(ctx, "tracker settings incomplete, skipping tracker cleanup")
	}

	var dnsClient dns.Client
	email, emailErr := p.settings.Get(ctx, domain.SettingCloudflareEmail)
	dnsKey, dnsKeyErr := p.settings.Get(ctx, domain.SettingCloudflareAPIKey)
	if emailErr == nil && dnsKeyErr == nil {
		dnsClient = p.options.DNSFactory(p.options.HTTPClient, email, dnsKey)
	} else {
		logger.Warn(ctx, "dns settings incomplete, skipping dns cleanup")
	}

	return trackerClient, dnsClient
}

// New creates a Provisioner. Factories default to the Keitaro and Cloudflare
// clients.
func New(storage storage.Storage, settings *settings.Provider, options Options) *Provisioner {
	if options.HTTPClient == nil {
		options.HTTPClient = http.DefaultClient
	}
	if options.TrackerFactory == nil {
		options.TrackerFactory = func(httpClient *http.Client, host, apiKey string) tracker.Client {
			return keitaro.New(httpClient, host, apiKey)
		}
	}
	if options.DNSFactory == nil {
		options.DNSFactory = func(httpClient *http.Client, email, apiKey string) dns.Client {
			return cloudflare.New(httpClient, email, apiKey)
		}
	}

	return &Provisioner{
		storage:  storage,
		settings: settings,
		options:  options,
	}
}
