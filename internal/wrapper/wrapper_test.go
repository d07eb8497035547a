package wrapper_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"redirectadmin/internal/settings"
	"redirectadmin/internal/wrapper"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/logger"
	"redirectadmin/pkg/serrors"
	"redirectadmin/pkg/shortener"
	"redirectadmin/pkg/storage"
	"redirectadmin/pkg/tracker"
	"strings"
	"testing"

	"github.com/riverqueue/river"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

type fakeStorage struct {
	storage.Storage

	settings map[string]string
	sets     map[domain.LinkSetID]*domain.LinkSet
	users    map[domain.UserID]*domain.User
	links    []domain.Link
	domains  []domain.UserDomain

	results      map[domain.LinkID]storage.LinkWrapResult
	balance      decimal.Decimal
	transactions []domain.Transaction
	jobs         []river.JobArgs
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		settings: map[string]string{
			domain.SettingTrackerHost:      "tracker.example.com",
			domain.SettingTrackerAPIKey:    "tracker-key",
			domain.SettingWrapTariff:       "1.50",
			domain.SettingCampaignDomainID: "7",
			domain.SettingCampaignGroupID:  "3",
		},
		sets:    map[domain.LinkSetID]*domain.LinkSet{},
		users:   map[domain.UserID]*domain.User{},
		results: map[domain.LinkID]storage.LinkWrapResult{},
	}
}

func (f *fakeStorage) WithTx(_ context.Context, cb func(storage.AllStorage) error) error {
	return cb(f)
}

func (f *fakeStorage) AddJob(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
	f.jobs = append(f.jobs, args)

	return true, nil
}

func (f *fakeStorage) SettingValue(_ context.Context, key string) (*string, error) {
	v, ok := f.settings[key]
	if !ok {
		return nil, nil
	}

	return &v, nil
}

func (f *fakeStorage) LinkSetByID(_ context.Context, id domain.LinkSetID) (*domain.LinkSet, error) {
	return f.sets[id], nil
}

func (f *fakeStorage) UserByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	return f.users[id], nil
}

func (f *fakeStorage) LinksBySet(_ context.Context, setID domain.LinkSetID) ([]domain.Link, error) {
	var links []domain.Link
	for _, l := range f.links {
		if l.LinkSetID == setID {
			links = append(links, l)
		}
	}

	return links, nil
}

func (f *fakeStorage) SetLinkWrapResult(_ context.Context,
	id domain.LinkID,
	result storage.LinkWrapResult) error {
	f.results[id] = result

	return nil
}

func (f *fakeStorage) AdjustBalance(_ context.Context,
	_ domain.UserID,
	delta decimal.Decimal) (decimal.Decimal, error) {
	f.balance = f.balance.Add(delta)

	return f.balance, nil
}

func (f *fakeStorage) StoreTransaction(_ context.Context,
	t domain.Transaction) (*domain.Transaction, error) {
	t.ID = int64(len(f.transactions) + 1)
	f.transactions = append(f.transactions, t)

	return &t, nil
}

func (f *fakeStorage) UserDomains(_ context.Context, _ domain.UserID) ([]domain.UserDomain, error) {
	return f.domains, nil
}

type fakeTracker struct {
	tracker.Client

	failAliases map[string]bool
	campaigns   []tracker.CampaignSpec
}

func (f *fakeTracker) CreateCampaign(_ context.Context,
	spec tracker.CampaignSpec) (tracker.Campaign, error) {
	if f.failAliases[spec.Alias] {
		return tracker.Campaign{}, errors.New("campaign refused")
	}
	f.campaigns = append(f.campaigns, spec)
	id := fmt.Sprintf("c%d", len(f.campaigns))

	return tracker.Campaign{
		ID:          id,
		RedirectURL: fmt.Sprintf("http://trk%d.example.com/%s", spec.DomainID, spec.Alias),
	}, nil
}

type fakeShortener struct {
	failEvery int

	calls []string
}

func (f *fakeShortener) Shorten(_ context.Context, longURL, _ string) (string, error) {
	f.calls = append(f.calls, longURL)
	if f.failEvery > 0 && len(f.calls)%f.failEvery == 0 {
		return "", errors.New("shorten refused")
	}

	return fmt.Sprintf("https://sho.rt/%d", len(f.calls)), nil
}

type fakeRegistry struct {
	backends map[domain.ShortenerService]shortener.Shortener
}

func (f *fakeRegistry) Get(service domain.ShortenerService) (shortener.Shortener, error) {
	s, ok := f.backends[service]
	if !ok {
		return nil, serrors.With(serrors.ErrUnavailable, "no shortener backend for %q", service)
	}

	return s, nil
}

type fakeSender struct {
	err error

	chatID   domain.ChatID
	filename string
	data     []byte
	sends    int
}

func (f *fakeSender) SendDocument(_ context.Context,
	chatID domain.ChatID,
	filename string,
	data []byte) error {
	f.sends++
	f.chatID = chatID
	f.filename = filename
	f.data = data

	return f.err
}

type fixture struct {
	storage  *fakeStorage
	tracker  *fakeTracker
	backend  *fakeShortener
	sender   *fakeSender
	wrapper  *wrapper.Wrapper
	registry *fakeRegistry
}

func newFixture() *fixture {
	fs := newFakeStorage()
	fs.users[1] = &domain.User{ID: 1, ChatID: 100}
	fs.sets[10] = &domain.LinkSet{ID: 10, UserID: 1, Title: "batch"}

	trk := &fakeTracker{failAliases: map[string]bool{}}
	backend := &fakeShortener{}
	registry := &fakeRegistry{backends: map[domain.ShortenerService]shortener.Shortener{
		domain.ShortenerClckru: backend,
	}}
	sender := &fakeSender{}

	w := wrapper.New(fs, settings.New(fs), sender, wrapper.Options{
		TrackerFactory: func(_ *http.Client, _, _ string) tracker.Client { return trk },
		RegistryFactory: func(_ shortener.Options) wrapper.Registry {
			return registry
		},
	})

	return &fixture{storage: fs, tracker: trk, backend: backend, sender: sender, wrapper: w, registry: registry}
}

func TestWrapper_Wrap(t *testing.T) {
	fx := newFixture()
	fx.storage.links = []domain.Link{{
		ID: 1, UserID: 1, LinkSetID: 10,
		OriginalURL:   "https://target.example.com/offer",
		RedirectCount: 3,
		Shortener:     domain.ShortenerClckru,
	}}

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	// one campaign on the configured domain/group with the bot alias
	require.Len(t, fx.tracker.campaigns, 1)
	spec := fx.tracker.campaigns[0]
	require.Equal(t, "REDIRECT_BOT---TlgUserID__100---LinkID__1", spec.Alias)
	require.Equal(t, "https://target.example.com/offer", spec.TargetURL)
	require.Equal(t, int64(7), spec.DomainID)
	require.Equal(t, int64(3), spec.GroupID)

	result := fx.storage.results[1]
	require.Equal(t, "c1", result.CampaignID)
	require.Len(t, result.RedirectURLs, 3)
	require.Len(t, result.ShortURLs, 3)

	// 3 shortened urls at 1.50 each
	require.True(t, fx.storage.balance.Equal(decimal.RequireFromString("-4.50")))
	require.Len(t, fx.storage.transactions, 1)
	tx := fx.storage.transactions[0]
	require.Equal(t, domain.TransactionDebit, tx.Kind)
	require.True(t, tx.Amount.Equal(decimal.RequireFromString("4.50")))
	require.Contains(t, tx.Description, "3 shortened urls")

	require.Equal(t, 1, fx.sender.sends)
	require.Equal(t, domain.ChatID(100), fx.sender.chatID)
	require.True(t, strings.HasPrefix(fx.sender.filename, "redirect_links_"))
	require.True(t, strings.HasSuffix(fx.sender.filename, ".txt"))
	report := string(fx.sender.data)
	require.Contains(t, report, "https://target.example.com/offer")
	require.Contains(t, report, "campaign c1")
	require.Contains(t, report, "    https://sho.rt/1")
}

func TestWrapper_Wrap_TagsUnique(t *testing.T) {
	fx := newFixture()
	fx.storage.links = []domain.Link{{
		ID: 9, UserID: 1, LinkSetID: 10,
		OriginalURL:   "https://target.example.com",
		RedirectCount: 5,
		Shortener:     domain.ShortenerClckru,
	}}

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	seen := map[string]bool{}
	for i, u := range fx.storage.results[9].RedirectURLs {
		require.False(t, seen[u], "duplicate redirect url %s", u)
		seen[u] = true
		require.Contains(t, u, "?utm_term=")
		// the link id / index suffix guarantees uniqueness
		require.True(t, strings.HasSuffix(u, fmt.Sprintf("-9-%d", i)))
	}
}

func TestWrapper_Wrap_CampaignFailureSkipsLink(t *testing.T) {
	fx := newFixture()
	fx.storage.links = []domain.Link{
		{
			ID: 1, UserID: 1, LinkSetID: 10,
			OriginalURL: "https://a.example.com", RedirectCount: 2,
			Shortener: domain.ShortenerClckru,
		},
		{
			ID: 2, UserID: 1, LinkSetID: 10,
			OriginalURL: "https://b.example.com", RedirectCount: 2,
			Shortener: domain.ShortenerClckru,
		},
	}
	fx.tracker.failAliases["REDIRECT_BOT---TlgUserID__100---LinkID__1"] = true

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	// the failed link is untouched and costs nothing
	_, ok := fx.storage.results[1]
	require.False(t, ok)
	require.Len(t, fx.storage.results[2].ShortURLs, 2)
	require.True(t, fx.storage.balance.Equal(decimal.RequireFromString("-3.00")))
	require.Len(t, fx.storage.transactions, 1)
}

func TestWrapper_Wrap_PartialShortenLoss(t *testing.T) {
	fx := newFixture()
	fx.backend.failEvery = 3 // every third shorten call fails
	fx.storage.links = []domain.Link{{
		ID: 1, UserID: 1, LinkSetID: 10,
		OriginalURL:   "https://target.example.com",
		RedirectCount: 3,
		Shortener:     domain.ShortenerClckru,
	}}

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	result := fx.storage.results[1]
	require.Len(t, result.RedirectURLs, 3)
	require.Len(t, result.ShortURLs, 2)
	// only surviving short urls are billed
	require.True(t, fx.storage.balance.Equal(decimal.RequireFromString("-3.00")))
	require.Contains(t, fx.storage.transactions[0].Description, "2 shortened urls")
}

func TestWrapper_Wrap_AllShortensFailNoTransaction(t *testing.T) {
	fx := newFixture()
	fx.storage.links = []domain.Link{{
		ID: 1, UserID: 1, LinkSetID: 10,
		OriginalURL:   "https://target.example.com",
		RedirectCount: 2,
		Shortener:     domain.ShortenerUserDomain, // no backend registered
	}}

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	result := fx.storage.results[1]
	require.Len(t, result.RedirectURLs, 2)
	require.Empty(t, result.ShortURLs)
	require.True(t, fx.storage.balance.IsZero())
	require.Empty(t, fx.storage.transactions)
}

func TestWrapper_Wrap_CustomDomain(t *testing.T) {
	fx := newFixture()
	fx.storage.domains = []domain.UserDomain{
		{ID: 1, UserID: 1, Domain: "pending.example.com", TrackerID: "40"},
		{
			ID: 2, UserID: 1, Domain: "mine.example.com",
			TrackerID: "41", ZoneID: "z", DNSRecordID: "r",
		},
	}
	fx.storage.links = []domain.Link{{
		ID: 1, UserID: 1, LinkSetID: 10,
		OriginalURL:   "https://target.example.com",
		RedirectCount: 2,
		Shortener:     domain.ShortenerCustomDomain,
	}}

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	// 1 redirect campaign + 2 shortening campaigns on the provisioned domain
	require.Len(t, fx.tracker.campaigns, 3)
	require.Equal(t, int64(41), fx.tracker.campaigns[1].DomainID)
	require.Equal(t, int64(41), fx.tracker.campaigns[2].DomainID)

	result := fx.storage.results[1]
	require.Len(t, result.ShortURLs, 2)
	for _, s := range result.ShortURLs {
		require.Contains(t, s, "trk41.example.com")
	}
	require.True(t, fx.storage.balance.Equal(decimal.RequireFromString("-3.00")))
}

func TestWrapper_Wrap_CustomDomainWithoutProvisionedDomain(t *testing.T) {
	fx := newFixture()
	fx.storage.links = []domain.Link{{
		ID: 1, UserID: 1, LinkSetID: 10,
		OriginalURL:   "https://target.example.com",
		RedirectCount: 2,
		Shortener:     domain.ShortenerCustomDomain,
	}}

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	result := fx.storage.results[1]
	require.Len(t, result.RedirectURLs, 2)
	require.Empty(t, result.ShortURLs)
	require.True(t, fx.storage.balance.IsZero())
}

func TestWrapper_Wrap_DeliveryFailureIsNotFatal(t *testing.T) {
	fx := newFixture()
	fx.sender.err = errors.New("blocked by user")
	fx.storage.links = []domain.Link{{
		ID: 1, UserID: 1, LinkSetID: 10,
		OriginalURL:   "https://target.example.com",
		RedirectCount: 1,
		Shortener:     domain.ShortenerClckru,
	}}

	require.NoError(t, fx.wrapper.Wrap(context.Background(), 10))

	// billing stands even though the report never arrived
	require.True(t, fx.storage.balance.Equal(decimal.RequireFromString("-1.50")))
	require.Len(t, fx.storage.transactions, 1)
}

func TestWrapper_Wrap_MissingTariffAborts(t *testing.T) {
	fx := newFixture()
	delete(fx.storage.settings, domain.SettingWrapTariff)
	fx.storage.links = []domain.Link{{
		ID: 1, UserID: 1, LinkSetID: 10,
		OriginalURL: "https://target.example.com", RedirectCount: 1,
		Shortener: domain.ShortenerClckru,
	}}

	err := fx.wrapper.Wrap(context.Background(), 10)
	require.ErrorIs(t, err, serrors.ErrMissingSetting)
	require.Empty(t, fx.tracker.campaigns)
	require.Equal(t, 0, fx.sender.sends)
}

func TestWrapper_Wrap_SetNotFound(t *testing.T) {
	fx := newFixture()

	err := fx.wrapper.Wrap(context.Background(), 999)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestWrapper_Enqueue(t *testing.T) {
	fx := newFixture()

	require.NoError(t, fx.wrapper.Enqueue(context.Background(), 10))
	require.Len(t, fx.storage.jobs, 1)
	require.Equal(t, wrapper.JobArgs{LinkSetID: 10}, fx.storage.jobs[0])
}

func TestWrapper_Enqueue_SetNotFound(t *testing.T) {
	fx := newFixture()

	err := fx.wrapper.Enqueue(context.Background(), 999)
	require.ErrorIs(t, err, serrors.ErrNotFound)
	require.Empty(t, fx.storage.jobs)
}
