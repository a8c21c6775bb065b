// Package stats persists per-result usage counters in SQLite and exposes
// them as a scoring multiplier. A missing or unopened store always yields
// the neutral factor 1.0 so scoring degrades gracefully.
package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/runger/pal/internal/result"
)

const (
	// decayHalfLife controls how fast old launches stop boosting a result.
	decayHalfLife = 30 * 24 * time.Hour

	// maxFactor caps the statistics multiplier so heavy use can tilt, but
	// never dominate, the match-quality signal.
	maxFactor = 2.0
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_stat (
	category    TEXT    NOT NULL,
	identifier  TEXT    NOT NULL,
	launches    INTEGER NOT NULL DEFAULT 0,
	last_used   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (category, identifier)
)`

// Store is a SQLite-backed usage counter. Safe for concurrent use via the
// database handle; the connection pool is limited to a single writer.
type Store struct {
	db       *sql.DB
	logger   *slog.Logger
	halfLife time.Duration

	recordStmt *sql.Stmt
	lookupStmt *sql.Stmt
}

// DefaultPath returns the default database path (~/.pal/usage.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pal", "usage.db"), nil
}

// Open opens (creating if necessary) the usage store at dbPath. An empty
// path selects the default location.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dbPath == "" {
		var err error
		dbPath, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to stats database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate stats schema: %w", err)
	}

	s := &Store{db: db, logger: logger, halfLife: decayHalfLife}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare() error {
	var err error

	s.recordStmt, err = s.db.Prepare(`
		INSERT INTO usage_stat (category, identifier, launches, last_used)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (category, identifier)
		DO UPDATE SET launches = launches + 1, last_used = excluded.last_used
	`)
	if err != nil {
		return err
	}

	s.lookupStmt, err = s.db.Prepare(`
		SELECT launches, last_used FROM usage_stat
		WHERE category = ? AND identifier = ?
	`)
	if err != nil {
		s.recordStmt.Close()
		return err
	}
	return nil
}

// Close releases the prepared statements and the database handle.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	if s.recordStmt != nil {
		s.recordStmt.Close()
	}
	if s.lookupStmt != nil {
		s.lookupStmt.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetHalfLife overrides the decay half-life. Values <= 0 are ignored.
func (s *Store) SetHalfLife(d time.Duration) {
	if d > 0 {
		s.halfLife = d
	}
}

// UsageRow is one row of the usage table.
type UsageRow struct {
	Category   string
	Identifier string
	Launches   int64
	LastUsed   time.Time
}

// Top returns the n most-launched identities, ties broken by recency.
func (s *Store) Top(ctx context.Context, n int) ([]UsageRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, identifier, launches, last_used FROM usage_stat
		ORDER BY launches DESC, last_used DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("querying usage stats: %w", err)
	}
	defer rows.Close()

	var out []UsageRow
	for rows.Next() {
		var r UsageRow
		var lastUsed int64
		if err := rows.Scan(&r.Category, &r.Identifier, &r.Launches, &lastUsed); err != nil {
			return nil, err
		}
		r.LastUsed = time.UnixMilli(lastUsed)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordLaunch increments the launch counter for a result identity.
func (s *Store) RecordLaunch(ctx context.Context, category result.Category, identifier string) error {
	if identifier == "" {
		return errors.New("identifier is required")
	}
	_, err := s.recordStmt.ExecContext(ctx, category.String(), identifier, time.Now().UnixMilli())
	return err
}

// Factor returns the scoring multiplier for a result identity, in
// [1.0, maxFactor]. Launch counts decay at read time with a fixed
// half-life, so a result that was popular months ago drifts back toward
// neutral without any maintenance writes.
func (s *Store) Factor(category result.Category, identifier string) float64 {
	if s == nil || identifier == "" {
		return 1.0
	}

	var launches int64
	var lastUsed int64
	err := s.lookupStmt.QueryRow(category.String(), identifier).Scan(&launches, &lastUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return 1.0
	}
	if err != nil {
		s.logger.Warn("usage lookup failed", "category", category.String(), "identifier", identifier, "error", err)
		return 1.0
	}

	age := time.Since(time.UnixMilli(lastUsed))
	if age < 0 {
		age = 0
	}
	decayed := float64(launches) * math.Exp2(-age.Hours()/s.halfLife.Hours())

	factor := 1.0 + math.Log1p(decayed)/4
	if factor > maxFactor {
		factor = maxFactor
	}
	return factor
}
