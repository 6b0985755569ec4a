package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/pybash1/provoke/internal/quality"
	"github.com/pybash1/provoke/internal/store"
)

func TestUpsertPageWritesRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewWithPool(mock)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	page := store.Page{
		URL:           "https://example.com/post",
		Domain:        "example.com",
		Title:         "A Post",
		ExtractedText: "body text",
		RawMarkup:     "<html></html>",
		Scores:        map[string]float64{"unified_score": 72},
		Tier:          quality.TierMedium,
		FetchedAt:     now,
	}

	mock.ExpectExec("INSERT INTO pages").
		WithArgs(
			page.URL,
			page.Domain,
			page.Title,
			page.ExtractedText,
			page.RawMarkup,
			[]byte(`{"unified_score":72}`),
			string(page.Tier),
			page.FetchedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertPage(context.Background(), page))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPageNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT url, domain, title").
		WithArgs("https://missing.example/x").
		WillReturnError(pgx.ErrNoRows)

	_, err = s.GetPage(context.Background(), "https://missing.example/x")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryIndexedBuildsDisjunction(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewWithPool(mock)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"url", "title", "snippet", "rank"}).
		AddRow("https://a.example/1", "Distributed Systems", "notes on <mark>systems</mark>", 0.42)

	mock.ExpectQuery("search_vector @@ q").
		WithArgs("distributed | systems", 100).
		WillReturnRows(rows)

	hits, err := s.QueryIndexed(context.Background(), []string{"distributed", "systems!"}, 100)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "https://a.example/1", hits[0].URL)
	require.InDelta(t, 0.42, hits[0].Rank, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryIndexedEmptyTokens(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewWithPool(mock)
	require.NoError(t, err)

	hits, err := s.QueryIndexed(context.Background(), []string{"???", ""}, 100)
	require.NoError(t, err)
	require.Empty(t, hits)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRejection(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewWithPool(mock)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	rejection := store.Rejection{
		ID:           "2de0b8f7-0000-0000-0000-000000000000",
		URL:          "https://spam.example/buy",
		Domain:       "spam.example",
		Reasons:      []string{"Corporate Page"},
		UnifiedScore: 12,
		At:           now,
	}

	mock.ExpectExec("INSERT INTO rejections").
		WithArgs(
			rejection.ID,
			rejection.URL,
			rejection.Domain,
			[]byte(`["Corporate Page"]`),
			rejection.UnifiedScore,
			rejection.At,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.RecordRejection(context.Background(), rejection))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToBlacklistLowercases(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewWithPool(mock)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO domain_blacklist").
		WithArgs("spam.example").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.AddToBlacklist(context.Background(), "Spam.Example"))
	require.NoError(t, mock.ExpectationsWereMet())
}
