// Package postgres provides the Postgres-backed store implementation. The
// full-text index is a generated tsvector column over title+content, so it
// stays in sync with every upsert; fuzzy candidates come from a pg_trgm
// index over titles.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pybash1/provoke/internal/quality"
	"github.com/pybash1/provoke/internal/store"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements the store contracts on top of pgx.
type Store struct {
	pool dbPool
}

// New connects a pool and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for tests).
func NewWithPool(pool dbPool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		domain TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		raw_markup TEXT,
		scores JSONB NOT NULL DEFAULT '{}',
		tier TEXT NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL,
		search_vector tsvector GENERATED ALWAYS AS
			(to_tsvector('english', coalesce(title, '') || ' ' || coalesce(content, ''))) STORED
	)`,
	`CREATE INDEX IF NOT EXISTS pages_search_idx ON pages USING GIN (search_vector)`,
	`CREATE INDEX IF NOT EXISTS pages_title_trgm_idx ON pages USING GIN (title gin_trgm_ops)`,
	`CREATE TABLE IF NOT EXISTS domain_blacklist (
		domain TEXT PRIMARY KEY,
		added_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS domain_whitelist (
		domain TEXT PRIMARY KEY,
		added_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS rejections (
		id UUID PRIMARY KEY,
		url TEXT NOT NULL,
		domain TEXT NOT NULL,
		reasons JSONB NOT NULL DEFAULT '[]',
		unified_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		rejected_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertPage inserts or overwrites the record for page.URL. The generated
// tsvector column keeps the full-text index in sync with the write.
func (s *Store) UpsertPage(ctx context.Context, page store.Page) error {
	scoresJSON, err := json.Marshal(page.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	query := `
INSERT INTO pages (url, domain, title, content, raw_markup, scores, tier, fetched_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
ON CONFLICT (url) DO UPDATE SET
	domain = EXCLUDED.domain,
	title = EXCLUDED.title,
	content = EXCLUDED.content,
	raw_markup = EXCLUDED.raw_markup,
	scores = EXCLUDED.scores,
	tier = EXCLUDED.tier,
	fetched_at = EXCLUDED.fetched_at`
	if _, err := s.pool.Exec(ctx, query,
		page.URL, page.Domain, page.Title, page.ExtractedText,
		page.RawMarkup, scoresJSON, string(page.Tier), page.FetchedAt,
	); err != nil {
		return fmt.Errorf("upsert page: %w", err)
	}
	return nil
}

// GetPage returns the page for url, or store.ErrNotFound.
func (s *Store) GetPage(ctx context.Context, url string) (store.Page, error) {
	query := `
SELECT url, domain, title, content, coalesce(raw_markup, ''), scores, tier, fetched_at
FROM pages WHERE url = $1`
	var (
		page       store.Page
		scoresJSON []byte
		tier       string
	)
	err := s.pool.QueryRow(ctx, query, url).Scan(
		&page.URL, &page.Domain, &page.Title, &page.ExtractedText,
		&page.RawMarkup, &scoresJSON, &tier, &page.FetchedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.Page{}, store.ErrNotFound
		}
		return store.Page{}, fmt.Errorf("get page: %w", err)
	}
	page.Tier = quality.Tier(tier)
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &page.Scores); err != nil {
			return store.Page{}, fmt.Errorf("unmarshal scores: %w", err)
		}
	}
	return page, nil
}

// LastFetched returns when url was last stored, or store.ErrNotFound.
func (s *Store) LastFetched(ctx context.Context, url string) (time.Time, error) {
	var fetchedAt time.Time
	err := s.pool.QueryRow(ctx, `SELECT fetched_at FROM pages WHERE url = $1`, url).Scan(&fetchedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, store.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("last fetched: %w", err)
	}
	return fetchedAt, nil
}

// DeletePage removes and returns the page so callers can append it to the
// manual-label corpus.
func (s *Store) DeletePage(ctx context.Context, url string) (store.Page, error) {
	page, err := s.GetPage(ctx, url)
	if err != nil {
		return store.Page{}, err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM pages WHERE url = $1`, url); err != nil {
		return store.Page{}, fmt.Errorf("delete page: %w", err)
	}
	return page, nil
}

// Stats aggregates tier, rejection-reason, and domain histograms.
func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	stats := store.Stats{
		TierCounts:   make(map[string]int),
		ReasonCounts: make(map[string]int),
		DomainCounts: make(map[string]int),
	}

	rows, err := s.pool.Query(ctx, `SELECT tier, count(*) FROM pages GROUP BY tier`)
	if err != nil {
		return store.Stats{}, fmt.Errorf("tier stats: %w", err)
	}
	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			rows.Close()
			return store.Stats{}, fmt.Errorf("scan tier stats: %w", err)
		}
		stats.TierCounts[tier] = count
		stats.TotalPages += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return store.Stats{}, fmt.Errorf("tier stats rows: %w", err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT reason, count(*) FROM rejections, jsonb_array_elements_text(reasons) reason GROUP BY reason`)
	if err != nil {
		return store.Stats{}, fmt.Errorf("reason stats: %w", err)
	}
	for rows.Next() {
		var reason string
		var count int
		if err := rows.Scan(&reason, &count); err != nil {
			rows.Close()
			return store.Stats{}, fmt.Errorf("scan reason stats: %w", err)
		}
		stats.ReasonCounts[reason] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return store.Stats{}, fmt.Errorf("reason stats rows: %w", err)
	}

	rows, err = s.pool.Query(ctx, `SELECT domain, count(*) FROM pages GROUP BY domain`)
	if err != nil {
		return store.Stats{}, fmt.Errorf("domain stats: %w", err)
	}
	for rows.Next() {
		var domain string
		var count int
		if err := rows.Scan(&domain, &count); err != nil {
			rows.Close()
			return store.Stats{}, fmt.Errorf("scan domain stats: %w", err)
		}
		stats.DomainCounts[domain] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return store.Stats{}, fmt.Errorf("domain stats rows: %w", err)
	}

	return stats, nil
}

var tokenSanitizer = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// QueryIndexed runs a disjunctive token match against the tsvector index,
// returning candidates with highlighted snippets ranked by ts_rank.
func (s *Store) QueryIndexed(ctx context.Context, tokens []string, limit int) ([]store.SearchHit, error) {
	sanitized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = tokenSanitizer.ReplaceAllString(token, "")
		if token != "" {
			sanitized = append(sanitized, token)
		}
	}
	if len(sanitized) == 0 {
		return nil, nil
	}
	tsQuery := strings.Join(sanitized, " | ")

	query := `
SELECT url, title,
	ts_headline('english', content, q, 'StartSel=<mark>, StopSel=</mark>, MaxWords=32, MinWords=16') AS snippet,
	ts_rank(search_vector, q) AS rank
FROM pages, to_tsquery('english', $1) q
WHERE search_vector @@ q
ORDER BY rank DESC
LIMIT $2`
	rows, err := s.pool.Query(ctx, query, tsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("indexed search: %w", err)
	}
	defer rows.Close()

	var hits []store.SearchHit
	for rows.Next() {
		var hit store.SearchHit
		if err := rows.Scan(&hit.URL, &hit.Title, &hit.Snippet, &hit.Rank); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows: %w", err)
	}
	return hits, nil
}

// AllTitles returns every page's title plus leading content for the fuzzy
// fallback scan. The corpus is small enough for a full pass.
func (s *Store) AllTitles(ctx context.Context) ([]store.TitleRow, error) {
	rows, err := s.pool.Query(ctx, `SELECT url, title, left(content, 500) FROM pages`)
	if err != nil {
		return nil, fmt.Errorf("all titles: %w", err)
	}
	defer rows.Close()

	var out []store.TitleRow
	for rows.Next() {
		var row store.TitleRow
		if err := rows.Scan(&row.URL, &row.Title, &row.Content); err != nil {
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("title rows: %w", err)
	}
	return out, nil
}

// LoadDomainLists reads both domain sets.
func (s *Store) LoadDomainLists(ctx context.Context) (map[string]struct{}, map[string]struct{}, error) {
	blacklist, err := s.loadDomainSet(ctx, "domain_blacklist")
	if err != nil {
		return nil, nil, err
	}
	whitelist, err := s.loadDomainSet(ctx, "domain_whitelist")
	if err != nil {
		return nil, nil, err
	}
	return blacklist, whitelist, nil
}

func (s *Store) loadDomainSet(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT domain FROM %s`, table))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		set[strings.ToLower(domain)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", table, err)
	}
	return set, nil
}

// AddToBlacklist records domain; repeated additions are no-ops.
func (s *Store) AddToBlacklist(ctx context.Context, domain string) error {
	return s.addDomain(ctx, "domain_blacklist", domain)
}

// RemoveFromBlacklist deletes domain from the blacklist.
func (s *Store) RemoveFromBlacklist(ctx context.Context, domain string) error {
	return s.removeDomain(ctx, "domain_blacklist", domain)
}

// AddToWhitelist records domain; repeated additions are no-ops.
func (s *Store) AddToWhitelist(ctx context.Context, domain string) error {
	return s.addDomain(ctx, "domain_whitelist", domain)
}

// RemoveFromWhitelist deletes domain from the whitelist.
func (s *Store) RemoveFromWhitelist(ctx context.Context, domain string) error {
	return s.removeDomain(ctx, "domain_whitelist", domain)
}

func (s *Store) addDomain(ctx context.Context, table, domain string) error {
	query := fmt.Sprintf(`INSERT INTO %s (domain) VALUES ($1) ON CONFLICT (domain) DO NOTHING`, table)
	if _, err := s.pool.Exec(ctx, query, strings.ToLower(domain)); err != nil {
		return fmt.Errorf("add domain to %s: %w", table, err)
	}
	return nil
}

func (s *Store) removeDomain(ctx context.Context, table, domain string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE domain = $1`, table)
	if _, err := s.pool.Exec(ctx, query, strings.ToLower(domain)); err != nil {
		return fmt.Errorf("remove domain from %s: %w", table, err)
	}
	return nil
}

// RecordRejection inserts one rejection-log row.
func (s *Store) RecordRejection(ctx context.Context, rejection store.Rejection) error {
	reasonsJSON, err := json.Marshal(rejection.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}
	query := `
INSERT INTO rejections (id, url, domain, reasons, unified_score, rejected_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, query,
		rejection.ID, rejection.URL, rejection.Domain,
		reasonsJSON, rejection.UnifiedScore, rejection.At,
	); err != nil {
		return fmt.Errorf("insert rejection: %w", err)
	}
	return nil
}
