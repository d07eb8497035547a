// Package wrapper runs the link-wrapping pipeline: for every link of a set it
// creates a redirect campaign on the tracker, generates uniquely tagged
// redirect URLs, shortens them through the link's chosen backend, bills the
// owner per shortened URL and delivers a report file over Telegram.
package wrapper

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"redirectadmin/internal/settings"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/logger"
	"redirectadmin/pkg/metrics"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/shortener"
	"redirectadmin/pkg/storage"
	"redirectadmin/pkg/telegram"
	"redirectadmin/pkg/tracker"
	"redirectadmin/pkg/tracker/keitaro"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TrackerFactory builds a tracker client from credentials resolved at call
// time from the settings table.
type TrackerFactory func(httpClient *http.Client, host, apiKey string) tracker.Client

// Registry resolves shortening backends by service name.
type Registry interface {
	Get(service domain.ShortenerService) (shortener.Shortener, error)
}

// RegistryFactory builds the shortener registry for one wrap run; the cutt.ly
// key lives in the settings table and may change between runs.
type RegistryFactory func(opts shortener.Options) Registry

// Options configures the external clients used by the Wrapper.
type Options struct {
	// HTTPClient performs all outbound calls. Must have a bounded timeout.
	HTTPClient *http.Client
	// TrackerFactory defaults to the Keitaro client.
	TrackerFactory TrackerFactory
	// RegistryFactory defaults to the hosted shortener registry.
	RegistryFactory RegistryFactory
}

// Wrapper wraps link sets into billed, shortened redirect URLs.
type Wrapper struct {
	storage  storage.Storage
	settings *settings.Provider
	sender   telegram.Sender
	options  Options
}

// Enqueue schedules a wrap run for the given link set. The set must exist;
// the run itself happens on a worker.
func (w *Wrapper) Enqueue(ctx context.Context, setID domain.LinkSetID) error {
	set, err := w.storage.LinkSetByID(ctx, setID)
	if err != nil {
		return fmt.Errorf("could not fetch link set: %w", err)
	}
	if set == nil {
		return serrors.With(serrors.ErrNotFound, "link set %d not found", setID)
	}

	if err := w.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.AddJob(ctx, JobArgs{LinkSetID: setID}, nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("could not enqueue wrap run: %w", err)
	}

	return nil
}

// run carries the state shared by every link of one wrap run.
type run struct {
	id    string
	set   *domain.LinkSet
	owner *domain.User

	tracker  tracker.Client
	registry Registry

	tariff   decimal.Decimal
	domainID int64
	groupID  int64

	// lazily resolved backend for the custom_domain shorten mode
	customDomain shortener.Shortener

	total  decimal.Decimal
	units  int
	report strings.Builder
}

// Wrap executes the pipeline for one link set. Links fail independently: a
// campaign failure skips the link at zero cost, a shorten failure drops that
// one URL. Billing is per successfully shortened URL and is final even when
// report delivery fails.
func (w *Wrapper) Wrap(ctx context.Context, setID domain.LinkSetID) error {
	set, err := w.storage.LinkSetByID(ctx, setID)
	if err != nil {
		return fmt.Errorf("could not fetch link set: %w", err)
	}
	if set == nil {
		return serrors.With(serrors.ErrNotFound, "link set %d not found", setID)
	}

	owner, err := w.storage.UserByID(ctx, set.UserID)
	if err != nil {
		return fmt.Errorf("could not fetch link set owner: %w", err)
	}
	if owner == nil {
		return serrors.With(serrors.ErrNotFound, "user %d not found", set.UserID)
	}

	r, err := w.newRun(ctx, set, owner)
	if err != nil {
		return err
	}

	ctx = logger.WithFields(ctx,
		zap.String("runID", r.id),
		zap.Int64("linkSetID", int64(setID)))

	links, err := w.storage.LinksBySet(ctx, setID)
	if err != nil {
		return fmt.Errorf("could not fetch links: %w", err)
	}

	for _, link := range links {
		w.wrapLink(ctx, r, link)
	}

	if r.units > 0 {
		if _, err := w.storage.StoreTransaction(ctx, domain.Transaction{
			UserID:      owner.ID,
			Kind:        domain.TransactionDebit,
			Amount:      r.total,
			Description: fmt.Sprintf("wrapped link set %d: %d shortened urls", setID, r.units),
		}); err != nil {
			return fmt.Errorf("could not store run transaction: %w", err)
		}
	}

	filename := fmt.Sprintf("redirect_links_%s.txt", r.id)
	if err := w.sender.SendDocument(ctx, owner.ChatID, filename, []byte(r.report.String())); err != nil {
		logger.Warn(ctx, "could not deliver wrap report", zap.Error(err))
	}

	return nil
}

// newRun resolves settings and builds the per-run clients. A missing setting
// aborts before any link is touched.
func (w *Wrapper) newRun(ctx context.Context, set *domain.LinkSet, owner *domain.User) (*run, error) {
	tariff, err := w.settings.GetDecimal(ctx, domain.SettingWrapTariff)
	if err != nil {
		return nil, err
	}
	domainID, err := w.settings.GetInt(ctx, domain.SettingCampaignDomainID)
	if err != nil {
		return nil, err
	}
	groupID, err := w.settings.GetInt(ctx, domain.SettingCampaignGroupID)
	if err != nil {
		return nil, err
	}
	host, err := w.settings.Get(ctx, domain.SettingTrackerHost)
	if err != nil {
		return nil, err
	}
	apiKey, err := w.settings.Get(ctx, domain.SettingTrackerAPIKey)
	if err != nil {
		return nil, err
	}
	cuttlyKey, err := w.settings.Optional(ctx, domain.SettingCuttlyAPIKey)
	if err != nil {
		return nil, err
	}

	return &run{
		id:    uuid.NewString(),
		set:   set,
		owner: owner,

		tracker: w.options.TrackerFactory(w.options.HTTPClient, host, apiKey),
		registry: w.options.RegistryFactory(shortener.Options{
			HTTPClient:   w.options.HTTPClient,
			CuttlyAPIKey: cuttlyKey,
		}),

		tariff:   tariff,
		domainID: domainID,
		groupID:  groupID,
	}, nil
}

// wrapLink processes a single link of the run. Failures are contained to the
// link (campaign) or to single URLs (shorten).
func (w *Wrapper) wrapLink(ctx context.Context, r *run, link domain.Link) {
	ctx = logger.WithFields(ctx, zap.Int64("linkID", int64(link.ID)))

	alias := fmt.Sprintf("REDIRECT_BOT---TlgUserID__%d---LinkID__%d", r.owner.ChatID, link.ID)
	campaign, err := r.tracker.CreateCampaign(ctx, tracker.CampaignSpec{
		Alias:     alias,
		Name:      alias,
		TargetURL: link.OriginalURL,
		DomainID:  r.domainID,
		GroupID:   r.groupID,
	})
	if err != nil {
		logger.Warn(ctx, "could not create campaign, skipping link", zap.Error(err))
		metrics.CampaignFailures.Inc()

		return
	}

	redirectURLs := make([]string, 0, link.RedirectCount)
	tags := make([]string, 0, link.RedirectCount)
	for i := 0; i < link.RedirectCount; i++ {
		tag := redirectTag(link.ID, i)
		tags = append(tags, tag)
		redirectURLs = append(redirectURLs, campaign.RedirectURL+"?utm_term="+tag)
	}

	shortURLs := w.shortenAll(ctx, r, link, redirectURLs, tags)

	if err := w.storage.SetLinkWrapResult(ctx, link.ID, storage.LinkWrapResult{
		CampaignID:   campaign.ID,
		RedirectURLs: redirectURLs,
		ShortURLs:    shortURLs,
	}); err != nil {
		logger.Error(ctx, "could not persist wrap result", zap.Error(err))

		return
	}

	if len(shortURLs) > 0 {
		cost := r.tariff.Mul(decimal.NewFromInt(int64(len(shortURLs))))
		if _, err := w.storage.AdjustBalance(ctx, r.owner.ID, cost.Neg()); err != nil {
			logger.Error(ctx, "could not debit balance", zap.Error(err))
		} else {
			r.total = r.total.Add(cost)
			r.units += len(shortURLs)
			metrics.BilledUnits.Add(float64(len(shortURLs)))
		}
	}

	metrics.LinksWrapped.Inc()
	writeReportEntry(&r.report, link.OriginalURL, campaign.ID, shortURLs)
}

// shortenAll shrinks every redirect URL through the link's backend. Each URL
// fails independently; the surviving short URLs keep their relative order.
func (w *Wrapper) shortenAll(ctx context.Context,
	r *run,
	link domain.Link,
	redirectURLs, tags []string) []string {
	backend, err := w.resolveBackend(ctx, r, link.Shortener)
	if err != nil {
		logger.Warn(ctx, "no shortener backend", zap.String("service", string(link.Shortener)), zap.Error(err))
		metrics.ShortenFailures.WithLabelValues(string(link.Shortener)).Add(float64(len(redirectURLs)))

		return nil
	}

	shortURLs := make([]string, 0, len(redirectURLs))
	for i, longURL := range redirectURLs {
		short, err := backend.Shorten(ctx, longURL, tags[i])
		if err != nil {
			logger.Warn(ctx, "could not shorten url", zap.String("url", longURL), zap.Error(err))
			metrics.ShortenFailures.WithLabelValues(string(link.Shortener)).Inc()

			continue
		}
		shortURLs = append(shortURLs, short)
	}

	return shortURLs
}

// resolveBackend picks the shortening backend for a service. custom_domain is
// served by the tracker: each short URL is a campaign on one of the owner's
// provisioned domains redirecting to the long URL.
func (w *Wrapper) resolveBackend(ctx context.Context,
	r *run,
	service domain.ShortenerService) (shortener.Shortener, error) {
	if service != domain.ShortenerCustomDomain {
		return r.registry.Get(service)
	}

	if r.customDomain != nil {
		return r.customDomain, nil
	}

	domains, err := w.storage.UserDomains(ctx, r.owner.ID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user domains: %w", err)
	}

	for _, d := range domains {
		if !d.Provisioned() {
			continue
		}
		trackerDomainID, err := strconv.ParseInt(d.TrackerID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed tracker id %q on domain %d: %w", d.TrackerID, d.ID, err)
		}

		r.customDomain = &campaignShortener{
			tracker:  r.tracker,
			domainID: trackerDomainID,
			groupID:  r.groupID,
		}

		return r.customDomain, nil
	}

	return nil, serrors.With(serrors.ErrUnavailable, "user %d has no provisioned domain", r.owner.ID)
}

// campaignShortener satisfies the custom_domain shorten mode: every Shorten
// call creates one tracker campaign on the user's own domain.
type campaignShortener struct {
	tracker  tracker.Client
	domainID int64
	groupID  int64
}

func (s *campaignShortener) Shorten(ctx context.Context, longURL, aliasHint string) (string, error) {
	campaign, err := s.tracker.CreateCampaign(ctx, tracker.CampaignSpec{
		Alias:     aliasHint,
		Name:      aliasHint,
		TargetURL: longURL,
		DomainID:  s.domainID,
		GroupID:   s.groupID,
	})
	if err != nil {
		return "", fmt.Errorf("could not create shortening campaign: %w", err)
	}

	return campaign.RedirectURL, nil
}

const tagAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// redirectTag builds the utm_term value of one redirect URL. The random
// prefix varies the URL; the link id and index make the tag unique even on
// random collisions.
func redirectTag(linkID domain.LinkID, index int) string {
	n := 6 + rand.IntN(7)
	b := make([]byte, n)
	for i := range b {
		b[i] = tagAlphabet[rand.IntN(len(tagAlphabet))]
	}

	return fmt.Sprintf("%s-%d-%d", b, linkID, index)
}

// writeReportEntry appends one link's section to the run report.
func writeReportEntry(report *strings.Builder, originalURL, campaignID string, shortURLs []string) {
	fmt.Fprintf(report, "%s\ncampaign %s\n", originalURL, campaignID)
	for _, s := range shortURLs {
		fmt.Fprintf(report, "    %s\n", s)
	}
	report.WriteString("\n")
}

// New creates a Wrapper. The tracker factory defaults to the Keitaro client
// and the registry factory to the hosted shortener registry.
func New(storage storage.Storage,
	settings *settings.Provider,
	sender telegram.Sender,
	options Options) *Wrapper {
	if options.HTTPClient == nil {
		options.HTTPClient = http.DefaultClient
	}
	if options.TrackerFactory == nil {
		options.TrackerFactory = func(httpClient *http.Client, host, apiKey string) tracker.Client {
			return keitaro.New(httpClient, host, apiKey)
		}
	}
	if options.RegistryFactory == nil {
		options.RegistryFactory = func(opts shortener.Options) Registry {
			return shortener.NewRegistry(opts)
		}
	}

	return &Wrapper{
		storage:  storage,
		settings: settings,
		sender:   sender,
		options:  options,
	}
}
