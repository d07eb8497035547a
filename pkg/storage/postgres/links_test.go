package postgres_test

import (
	"context"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/storage"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPgSQL_StoreLinkSet(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner, err := pgSQL.UpsertUser(ctx, domain.User{ChatID: 1})
	require.NoError(t, err)

	set, err := pgSQL.StoreLinkSet(ctx, domain.LinkSet{UserID: owner.ID, Title: "august batch"})
	require.NoError(t, err)
	require.NotZero(t, set.ID)
	require.Equal(t, "august batch", set.Title)
	require.False(t, set.CreatedAt.IsZero())

	got, err := pgSQL.LinkSetByID(ctx, set.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, set.ID, got.ID)

	missing, err := pgSQL.LinkSetByID(ctx, domain.LinkSetID(999999))
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPgSQL_UpsertLink(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner, err := pgSQL.UpsertUser(ctx, domain.User{ChatID: 2})
	require.NoError(t, err)
	set, err := pgSQL.StoreLinkSet(ctx, domain.LinkSet{UserID: owner.ID, Title: "s"})
	require.NoError(t, err)

	created, err := pgSQL.UpsertLink(ctx, domain.Link{
		UserID:        owner.ID,
		LinkSetID:     set.ID,
		OriginalURL:   "https://example.com/landing",
		RedirectCount: 5,
		Shortener:     domain.ShortenerCuttly,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Empty(t, created.CampaignID)
	require.Empty(t, created.RedirectURLs)

	// update by id rewrites only the user-editable columns
	created.OriginalURL = "https://example.com/landing-v2"
	created.RedirectCount = 2
	updated, err := pgSQL.UpsertLink(ctx, *created)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "https://example.com/landing-v2", updated.OriginalURL)
	require.Equal(t, 2, updated.RedirectCount)

	// updating a missing id yields nil
	ghost := *created
	ghost.ID = domain.LinkID(999999)
	res, err := pgSQL.UpsertLink(ctx, ghost)
	require.NoError(t, err)
	require.Nil(t, res)
}

func TestPgSQL_SetLinkWrapResult(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner, err := pgSQL.UpsertUser(ctx, domain.User{ChatID: 3})
	require.NoError(t, err)
	set, err := pgSQL.StoreLinkSet(ctx, domain.LinkSet{UserID: owner.ID, Title: "s"})
	require.NoError(t, err)
	link, err := pgSQL.UpsertLink(ctx, domain.Link{
		UserID:        owner.ID,
		LinkSetID:     set.ID,
		OriginalURL:   "https://example.com",
		RedirectCount: 3,
		Shortener:     domain.ShortenerGGGG,
	})
	require.NoError(t, err)

	// one shorten call failed, so the short list is shorter
	err = pgSQL.SetLinkWrapResult(ctx, link.ID, storage.LinkWrapResult{
		CampaignID: "camp-77",
		RedirectURLs: []string{
			"https://r.example/a",
			"https://r.example/b",
			"https://r.example/c",
		},
		ShortURLs: []string{
			"https://gg.gg/x1",
			"https://gg.gg/x2",
		},
	})
	require.NoError(t, err)

	got, err := pgSQL.LinkByID(ctx, link.ID)
	require.NoError(t, err)
	require.Equal(t, "camp-77", got.CampaignID)
	require.Len(t, got.RedirectURLs, 3)
	require.Len(t, got.ShortURLs, 2)
	require.Equal(t, "https://r.example/b", got.RedirectURLs[1])
}

func TestPgSQL_LinksBySet(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	owner, err := pgSQL.UpsertUser(ctx, domain.User{ChatID: 4})
	require.NoError(t, err)
	setA, err := pgSQL.StoreLinkSet(ctx, domain.LinkSet{UserID: owner.ID, Title: "a"})
	require.NoError(t, err)
	setB, err := pgSQL.StoreLinkSet(ctx, domain.LinkSet{UserID: owner.ID, Title: "b"})
	require.NoError(t, err)

	urls := []string{"https://one.example", "https://two.example", "https://three.example"}
	for _, u := range urls {
		_, err := pgSQL.UpsertLink(ctx, domain.Link{
			UserID:        owner.ID,
			LinkSetID:     setA.ID,
			OriginalURL:   u,
			RedirectCount: 1,
			Shortener:     domain.ShortenerT9yme,
		})
		require.NoError(t, err)
	}
	_, err = pgSQL.UpsertLink(ctx, domain.Link{
		UserID:        owner.ID,
		LinkSetID:     setB.ID,
		OriginalURL:   "https://other.example",
		RedirectCount: 1,
		Shortener:     domain.ShortenerT9yme,
	})
	require.NoError(t, err)

	links, err := pgSQL.LinksBySet(ctx, setA.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	// insertion order is preserved
	for i, l := range links {
		require.Equal(t, urls[i], l.OriginalURL)
	}
}
