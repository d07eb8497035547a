package postgres

import (
	"database/sql"
	"redirectadmin/pkg/domain"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PgUser struct {
	ID     int64 `db:"id"      goqu:"skipinsert,skipupdate"`
	ChatID int64 `db:"chat_id"`

	IsVerified bool `db:"is_verified"`
	IsScam     bool `db:"is_scam"`
	IsFake     bool `db:"is_fake"`
	IsPremium  bool `db:"is_premium"`

	FirstName         string `db:"first_name"`
	LastName          string `db:"last_name"`
	Username          string `db:"username"`
	LanguageCode      string `db:"language_code"`
	InterfaceLanguage string `db:"interface_language"`

	Balance decimal.Decimal `db:"balance" goqu:"skipinsert,skipupdate"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert,skipupdate"`
}

func (p *PgUser) ToDomain() *domain.User {
	return &domain.User{
		ID:                domain.UserID(p.ID),
		ChatID:            domain.ChatID(p.ChatID),
		IsVerified:        p.IsVerified,
		IsScam:            p.IsScam,
		IsFake:            p.IsFake,
		IsPremium:         p.IsPremium,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Username:          p.Username,
		LanguageCode:      p.LanguageCode,
		InterfaceLanguage: p.InterfaceLanguage,
		Balance:           p.Balance,
		CreatedAt:         p.CreatedAt,
	}
}

func (p *PgUser) FromDomain(user domain.User) {
	*p = PgUser{
		ID:                int64(user.ID),
		ChatID:            int64(user.ChatID),
		IsVerified:        user.IsVerified,
		IsScam:            user.IsScam,
		IsFake:            user.IsFake,
		IsPremium:         user.IsPremium,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Username:          user.Username,
		LanguageCode:      user.LanguageCode,
		InterfaceLanguage: user.InterfaceLanguage,
		Balance:           user.Balance,
		CreatedAt:         user.CreatedAt,
	}
}

type PgLinkSet struct {
	ID     int64 `db:"id"      goqu:"skipinsert"`
	UserID int64 `db:"user_id"`

	Title string `db:"title"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgLinkSet) ToDomain() *domain.LinkSet {
	return &domain.LinkSet{
		ID:        domain.LinkSetID(p.ID),
		UserID:    domain.UserID(p.UserID),
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
	}
}

func (p *PgLinkSet) FromDomain(set domain.LinkSet) {
	*p = PgLinkSet{
		ID:        int64(set.ID),
		UserID:    int64(set.UserID),
		Title:     set.Title,
		CreatedAt: set.CreatedAt,
	}
}

type PgLink struct {
	ID        int64 `db:"id"          goqu:"skipinsert"`
	UserID    int64 `db:"user_id"`
	LinkSetID int64 `db:"link_set_id"`

	OriginalURL   string `db:"original_url"`
	RedirectCount int    `db:"redirect_count"`
	Shortener     string `db:"shortener"`

	CampaignID   sql.NullString `db:"campaign_id"   goqu:"skipinsert"`
	RedirectURLs sql.NullString `db:"redirect_urls" goqu:"skipinsert"`
	ShortURLs    sql.NullString `db:"short_urls"    goqu:"skipinsert"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgLink) ToDomain() *domain.Link {
	return &domain.Link{
		ID:            domain.LinkID(p.ID),
		UserID:        domain.UserID(p.UserID),
		LinkSetID:     domain.LinkSetID(p.LinkSetID),
		OriginalURL:   p.OriginalURL,
		RedirectCount: p.RedirectCount,
		Shortener:     domain.ShortenerService(p.Shortener),
		CampaignID:    p.CampaignID.String,
		RedirectURLs:  splitURLs(p.RedirectURLs.String),
		ShortURLs:     splitURLs(p.ShortURLs.String),
		CreatedAt:     p.CreatedAt,
	}
}

func (p *PgLink) FromDomain(link domain.Link) {
	*p = PgLink{
		ID:            int64(link.ID),
		UserID:        int64(link.UserID),
		LinkSetID:     int64(link.LinkSetID),
		OriginalURL:   link.OriginalURL,
		RedirectCount: link.RedirectCount,
		Shortener:     string(link.Shortener),
		CampaignID: sql.NullString{
			String: link.CampaignID,
			Valid:  link.CampaignID != "",
		},
		RedirectURLs: sql.NullString{
			String: joinURLs(link.RedirectURLs),
			Valid:  len(link.RedirectURLs) > 0,
		},
		ShortURLs: sql.NullString{
			String: joinURLs(link.ShortURLs),
			Valid:  len(link.ShortURLs) > 0,
		},
		CreatedAt: link.CreatedAt,
	}
}

// URL lists are persisted as a single space-joined text column. URLs cannot
// contain literal spaces, so the join is unambiguous.
func joinURLs(urls []string) string {
	return strings.Join(urls, " ")
}

func splitURLs(s string) []string {
	return strings.Fields(s)
}

type PgUserDomain struct {
	ID     int64 `db:"id"      goqu:"skipinsert"`
	UserID int64 `db:"user_id"`

	Domain string `db:"domain"`

	TrackerID   string `db:"tracker_id"    goqu:"skipinsert"`
	ZoneID      string `db:"zone_id"       goqu:"skipinsert"`
	DNSRecordID string `db:"dns_record_id" goqu:"skipinsert"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgUserDomain) ToDomain() *domain.UserDomain {
	return &domain.UserDomain{
		ID:          domain.UserDomainID(p.ID),
		UserID:      domain.UserID(p.UserID),
		Domain:      p.Domain,
		TrackerID:   p.TrackerID,
		ZoneID:      p.ZoneID,
		DNSRecordID: p.DNSRecordID,
		CreatedAt:   p.CreatedAt,
	}
}

func (p *PgUserDomain) FromDomain(d domain.UserDomain) {
	*p = PgUserDomain{
		ID:          int64(d.ID),
		UserID:      int64(d.UserID),
		Domain:      d.Domain,
		TrackerID:   d.TrackerID,
		ZoneID:      d.ZoneID,
		DNSRecordID: d.DNSRecordID,
		CreatedAt:   d.CreatedAt,
	}
}

type PgPayment struct {
	ID     int64 `db:"id"      goqu:"skipinsert"`
	UserID int64 `db:"user_id"`

	System string          `db:"system"`
	Amount decimal.Decimal `db:"amount"`

	BillID  string `db:"bill_id"`
	BillURL string `db:"bill_url"`

	Paid     bool `db:"paid"     goqu:"skipinsert"`
	Archived bool `db:"archived" goqu:"skipinsert"`

	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgPayment) ToDomain() *domain.Payment {
	return &domain.Payment{
		ID:        domain.PaymentID(p.ID),
		UserID:    domain.UserID(p.UserID),
		System:    domain.PaySystem(p.System),
		Amount:    p.Amount,
		BillID:    p.BillID,
		BillURL:   p.BillURL,
		Paid:      p.Paid,
		Archived:  p.Archived,
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
	}
}

func (p *PgPayment) FromDomain(payment domain.Payment) {
	*p = PgPayment{
		ID:        int64(payment.ID),
		UserID:    int64(payment.UserID),
		System:    string(payment.System),
		Amount:    payment.Amount,
		BillID:    payment.BillID,
		BillURL:   payment.BillURL,
		Paid:      payment.Paid,
		Archived:  payment.Archived,
		ExpiresAt: payment.ExpiresAt,
		CreatedAt: payment.CreatedAt,
	}
}

type PgTransaction struct {
	ID     int64 `db:"id"      goqu:"skipinsert"`
	UserID int64 `db:"user_id"`

	Kind        string          `db:"kind"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgTransaction) ToDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:          p.ID,
		UserID:      domain.UserID(p.UserID),
		Kind:        domain.TransactionKind(p.Kind),
		Amount:      p.Amount,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func (p *PgTransaction) FromDomain(t domain.Transaction) {
	*p = PgTransaction{
		ID:          t.ID,
		UserID:      int64(t.UserID),
		Kind:        string(t.Kind),
		Amount:      t.Amount,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

type PgSetting struct {
	ID    int64  `db:"id" goqu:"skipinsert"`
	Key   string `db:"key"`
	Value string `db:"value"`
}
