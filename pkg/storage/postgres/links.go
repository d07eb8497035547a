package postgres

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	linkSetsTable = "link_sets"
	linksTable    = "links"
)

// StoreLinkSet inserts a new link set.
func (p *PgSQL) StoreLinkSet(ctx context.Context, set domain.LinkSet) (*domain.LinkSet, error) {
	var pgSet PgLinkSet
	pgSet.FromDomain(set)

	var row PgLinkSet
	found, err := p.Builder.Insert(linkSetsTable).
		Rows(pgSet).
		Returning(&PgLinkSet{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store link set into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("store link set returned no row")
	}

	return row.ToDomain(), nil
}

// LinkSetByID returns a link set by id, or nil when unknown.
func (p *PgSQL) LinkSetByID(ctx context.Context, id domain.LinkSetID) (*domain.LinkSet, error) {
	var row PgLinkSet
	found, err := p.Builder.From(linkSetsTable).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch link set by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// UpsertLink inserts a link when its id is zero, otherwise updates the
// user-editable columns of the existing row. Pipeline output columns are
// never touched here.
func (p *PgSQL) UpsertLink(ctx context.Context, link domain.Link) (*domain.Link, error) {
	var row PgLink

	if link.ID == 0 {
		var pgLink PgLink
		pgLink.FromDomain(link)

		found, err := p.Builder.Insert(linksTable).
			Rows(pgLink).
			Returning(&PgLink{}).
			Executor().ScanStructContext(ctx, &row)
		if err != nil {
			return nil, fmt.Errorf("could not store link into pg: %w", err)
		}
		if !found {
			return nil, fmt.Errorf("store link returned no row")
		}

		return row.ToDomain(), nil
	}

	found, err := p.Builder.Update(linksTable).
		Set(goqu.Record{
			"original_url":   link.OriginalURL,
			"redirect_count": link.RedirectCount,
			"shortener":      string(link.Shortener),
		}).
		Where(goqu.I("id").Eq(int64(link.ID))).
		Returning(&PgLink{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update link in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// LinkByID returns a link by id, or nil when unknown.
func (p *PgSQL) LinkByID(ctx context.Context, id domain.LinkID) (*domain.Link, error) {
	var row PgLink
	found, err := p.Builder.From(linksTable).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch link by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// LinksBySet returns all links of a set ordered by insertion.
func (p *PgSQL) LinksBySet(ctx context.Context, setID domain.LinkSetID) ([]domain.Link, error) {
	var rows []PgLink
	if err := p.Builder.From(linksTable).
		Where(goqu.I("link_set_id").Eq(int64(setID))).
		Order(goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch links by set from pg: %w", err)
	}

	out := make([]domain.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToDomain())
	}

	return out, nil
}

// SetLinkWrapResult persists the campaign id and generated URL lists of a
// processed link.
func (p *PgSQL) SetLinkWrapResult(ctx context.Context,
	id domain.LinkID,
	result storage.LinkWrapResult) error {
	_, err := p.Builder.Update(linksTable).
		Set(goqu.Record{
			"campaign_id":   result.CampaignID,
			"redirect_urls": joinURLs(result.RedirectURLs),
			"short_urls":    joinURLs(result.ShortURLs),
		}).
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not set link wrap result in pg: %w", err)
	}

	return nil
}
