package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scbrown/tmcheck/internal/model"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// SQLite persists entries in a local database so results survive between
// CLI invocations.
type SQLite struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
	counters
}

// NewSQLite opens (or creates) the cache database at dbPath, creating the
// parent directory and running schema migrations.
func NewSQLite(dbPath string, ttl time.Duration, opts ...Option) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	// Single connection for WAL mode simplicity.
	db.SetMaxOpenConns(1)

	o := buildOptions(opts)
	s := &SQLite{db: db, path: dbPath, ttl: normalizeTTL(ttl), now: o.now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate runs schema migrations up to schemaVersion.
func (s *SQLite) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	var ver int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&ver)
	if errors.Is(err, sql.ErrNoRows) {
		ver = 0
	} else if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	if ver < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) migrateV1() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cache_entries (
			term      TEXT PRIMARY KEY,
			payload   TEXT NOT NULL,
			stored_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_entries_stored_at ON cache_entries(stored_at)`,
		`DELETE FROM schema_version`,
		`INSERT INTO schema_version (version) VALUES (1)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, term string) (model.MatchResult, bool, error) {
	var (
		payload  string
		storedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, stored_at FROM cache_entries WHERE term = ?`,
		model.Normalize(term)).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		s.observe(false)
		return model.MatchResult{}, false, nil
	}
	if err != nil {
		return model.MatchResult{}, false, fmt.Errorf("cache get %q: %w", term, err)
	}
	if !fresh(time.Unix(0, storedAt), s.now(), s.ttl) {
		s.observe(false)
		return model.MatchResult{}, false, nil
	}

	var r model.MatchResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return model.MatchResult{}, false, fmt.Errorf("cache decode %q: %w", term, err)
	}
	s.observe(true)
	return r, true, nil
}

func (s *SQLite) Put(ctx context.Context, term string, result model.MatchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", term, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (term, payload, stored_at) VALUES (?, ?, ?)`,
		model.Normalize(term), string(payload), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("cache put %q: %w", term, err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

func (s *SQLite) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Backend: "sqlite", Location: s.path, TTL: s.ttl}
	cutoff := s.now().Add(-s.ttl).UnixNano()
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN stored_at < ? THEN 1 ELSE 0 END), 0) FROM cache_entries`,
		cutoff).Scan(&st.Entries, &st.Expired)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	s.fill(&st)
	return st, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
