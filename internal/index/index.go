// Package index maintains a SQLite FTS5 index of file names for the slow
// file-search provider, with a LIKE-based fallback when the SQLite build
// lacks FTS5.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrFTSUnavailable indicates that FTS5 is not available in the SQLite build.
var ErrFTSUnavailable = errors.New("FTS5 not available; falling back to LIKE search")

const (
	// DefaultLimit is the default number of search results.
	DefaultLimit = 20

	// MaxLimit is the maximum allowed search results.
	MaxLimit = 100
)

const createFilesTable = `
CREATE TABLE IF NOT EXISTS file_entry (
	id    INTEGER PRIMARY KEY,
	path  TEXT NOT NULL UNIQUE,
	name  TEXT NOT NULL,
	dir   TEXT NOT NULL,
	mtime INTEGER NOT NULL
)`

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS file_fts
USING fts5(name, path, content='file_entry', content_rowid='id')
`

// Entry is one indexed file.
type Entry struct {
	ID    int64
	Path  string
	Name  string
	Dir   string
	Mtime int64
	Score float64 // BM25 score; 0 for LIKE fallback results
}

// Index provides file-name search over an on-disk SQLite database.
type Index struct {
	db     *sql.DB
	logger *slog.Logger

	ftsAvailable bool

	searchStmt   *sql.Stmt
	fallbackStmt *sql.Stmt
	upsertStmt   *sql.Stmt
}

// DefaultPath returns the default index path (~/.pal/files.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pal", "files.db"), nil
}

// Open opens (creating if necessary) the file index at dbPath. An empty
// path selects the default location. FTS5 availability is probed at open
// time; without it the index silently serves LIKE queries.
func Open(dbPath string, logger *slog.Logger) (*Index, error) {
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
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open file index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to file index: %w", err)
	}

	idx := &Index{db: db, logger: logger}

	if _, err := db.Exec(createFilesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create file table: %w", err)
	}

	if err := idx.initFTS(); err != nil {
		if errors.Is(err, ErrFTSUnavailable) {
			idx.ftsAvailable = false
			idx.logger.Warn("FTS5 not available; file search degraded to LIKE")
		} else {
			db.Close()
			return nil, err
		}
	} else {
		idx.ftsAvailable = true
	}

	if err := idx.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// initFTS checks FTS5 availability and creates the virtual table.
func (idx *Index) initFTS() error {
	_, err := idx.db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS _fts5_probe USING fts5(probe)`)
	if err != nil {
		if strings.Contains(err.Error(), "no such module") ||
			strings.Contains(err.Error(), "fts5") {
			return ErrFTSUnavailable
		}
		return err
	}
	_, _ = idx.db.Exec(`DROP TABLE IF EXISTS _fts5_probe`)

	_, err = idx.db.Exec(createFTSTable)
	return err
}

func (idx *Index) prepare() error {
	var err error

	idx.upsertStmt, err = idx.db.Prepare(`
		INSERT INTO file_entry (path, name, dir, mtime) VALUES (?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET mtime = excluded.mtime
	`)
	if err != nil {
		return err
	}

	if idx.ftsAvailable {
		idx.searchStmt, err = idx.db.Prepare(`
			SELECT fe.id, fe.path, fe.name, fe.dir, fe.mtime,
			       bm25(file_fts, 1.0, 0.4) AS score
			FROM file_fts
			JOIN file_entry fe ON file_fts.rowid = fe.id
			WHERE file_fts MATCH ?
			ORDER BY score, fe.mtime DESC
			LIMIT ?
		`)
		if err != nil {
			idx.upsertStmt.Close()
			return err
		}
	}

	idx.fallbackStmt, err = idx.db.Prepare(`
		SELECT id, path, name, dir, mtime, 0.0 AS score
		FROM file_entry
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY mtime DESC
		LIMIT ?
	`)
	if err != nil {
		if idx.searchStmt != nil {
			idx.searchStmt.Close()
		}
		idx.upsertStmt.Close()
		return err
	}
	return nil
}

// Close releases statements and the database handle.
func (idx *Index) Close() error {
	for _, stmt := range []*sql.Stmt{idx.searchStmt, idx.fallbackStmt, idx.upsertStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return idx.db.Close()
}

// FTSAvailable reports whether FTS5-backed search is active.
func (idx *Index) FTSAvailable() bool {
	return idx.ftsAvailable
}

// Add indexes a single file path.
func (idx *Index) Add(ctx context.Context, path string, mtime time.Time) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := idx.addInTx(ctx, tx, path, mtime); err != nil {
		return err
	}
	return tx.Commit()
}

func (idx *Index) addInTx(ctx context.Context, tx *sql.Tx, path string, mtime time.Time) error {
	res, err := tx.StmtContext(ctx, idx.upsertStmt).ExecContext(ctx,
		path, filepath.Base(path), filepath.Dir(path), mtime.UnixMilli())
	if err != nil {
		return err
	}
	if !idx.ftsAvailable {
		return nil
	}
	rowID, err := res.LastInsertId()
	if err != nil || rowID == 0 {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO file_fts (rowid, name, path)
		SELECT id, name, path FROM file_entry
		WHERE id = ? AND id NOT IN (SELECT rowid FROM file_fts WHERE rowid = ?)
	`, rowID, rowID)
	return err
}

// IndexTree walks root and indexes every regular file under it. Hidden
// directories are skipped. The walk observes ctx and stops early when it
// is cancelled, returning the count indexed so far.
func (idx *Index) IndexTree(ctx context.Context, root string) (int, error) {
	start := time.Now()
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if name := d.Name(); path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if err := idx.Add(ctx, path, info.ModTime()); err != nil {
			return err
		}
		count++
		return nil
	})

	idx.logger.Info("file tree indexed",
		"root", root, "files", count, "duration", time.Since(start))
	return count, err
}

// Search returns indexed files matching query, best first.
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if idx.ftsAvailable {
		return idx.searchFTS(ctx, query, limit)
	}
	return idx.searchLike(ctx, query, limit)
}

func (idx *Index) searchFTS(ctx context.Context, query string, limit int) ([]Entry, error) {
	rows, err := idx.searchStmt.QueryContext(ctx, escapeFTSQuery(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (idx *Index) searchLike(ctx context.Context, query string, limit int) ([]Entry, error) {
	pattern := "%" + escapeLikePattern(query) + "%"
	rows, err := idx.fallbackStmt.QueryContext(ctx, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.Name, &e.Dir, &e.Mtime, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// escapeFTSQuery escapes a query for FTS5. Each term is quoted and given a
// prefix wildcard so partial file names match as the user types.
func escapeFTSQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		escaped := strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, fmt.Sprintf(`"%s"*`, escaped))
	}
	return strings.Join(terms, " ")
}

// escapeLikePattern escapes LIKE wildcards in a query.
func escapeLikePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	pattern = strings.ReplaceAll(pattern, `%`, `\%`)
	pattern = strings.ReplaceAll(pattern, `_`, `\_`)
	return pattern
}
