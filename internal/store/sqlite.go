package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/carescout/carescout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS provider_records (
	key        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	record     TEXT NOT NULL,
	meta       TEXT,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS provider_texts (
	key        TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_provider_records_updated_at ON provider_records(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Lookup(ctx context.Context, name string) (*CachedRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, name, record, meta, updated_at FROM provider_records WHERE key = ?`,
		SanitizeKey(name),
	)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: lookup %s", name)
	}
	return rec, nil
}

func (s *SQLiteStore) Save(ctx context.Context, name string, rec model.ExtractedRecord, meta model.RecordMeta) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal meta")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO provider_records (key, name, record, meta, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET name = excluded.name, record = excluded.record,
		 meta = excluded.meta, updated_at = excluded.updated_at`,
		SanitizeKey(name), name, string(recordJSON), string(metaJSON), now(),
	)
	return eris.Wrapf(err, "sqlite: save record %s", name)
}

func (s *SQLiteStore) SaveText(ctx context.Context, name, text string, meta model.RecordMeta) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO provider_texts (key, text, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`,
		SanitizeKey(name), textHeader(meta)+text, now(),
	)
	return eris.Wrapf(err, "sqlite: save text %s", name)
}

// textHeader renders the provenance block prefixed to a stored text
// blob so a raw dump is self-describing.
func textHeader(meta model.RecordMeta) string {
	var b strings.Builder
	b.WriteString("URL: " + strings.Join(meta.ScrapedURLs, ", ") + "\n")
	if meta.Method != "" {
		b.WriteString("Method: " + meta.Method + "\n")
	}
	b.WriteString("Scraped: " + now().Format(time.RFC3339) + "\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	return b.String()
}

func (s *SQLiteStore) GetText(ctx context.Context, name string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM provider_texts WHERE key = ?`,
		SanitizeKey(name),
	).Scan(&text)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: get text %s", name)
	}
	return text, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]CachedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, name, record, meta, updated_at FROM provider_records ORDER BY updated_at DESC, key`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var out []CachedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: list records")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) Invalidate(ctx context.Context, name string) (bool, error) {
	key := SanitizeKey(name)

	res, err := s.db.ExecContext(ctx, `DELETE FROM provider_records WHERE key = ?`, key)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: invalidate %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM provider_texts WHERE key = ?`, key); err != nil {
		return false, eris.Wrapf(err, "sqlite: invalidate text %s", name)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM provider_records`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: clear records")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM provider_texts`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear texts")
	}
	return int(n), nil
}

// helpers

func now() time.Time {
	return time.Now().UTC()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*CachedRecord, error) {
	var cr CachedRecord
	var recordJSON string
	var metaJSON sql.NullString
	var updatedAt time.Time

	err := row.Scan(&cr.Key, &cr.Name, &recordJSON, &metaJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan record")
	}

	if err := json.Unmarshal([]byte(recordJSON), &cr.Record); err != nil {
		return nil, eris.Wrap(err, "unmarshal record")
	}
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &cr.Meta); err != nil {
			return nil, eris.Wrap(err, "unmarshal meta")
		}
	}
	cr.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &cr, nil
}
