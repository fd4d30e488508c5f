// Package sqlite keeps page records in a SQLite database and answers
// server-side list queries: filtering, sorting and pagination run in SQL.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/kong/gridctl/internal/datagrid"
	gridErr "github.com/kong/gridctl/internal/err"
)

//go:embed schema.sql
var schema string

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrExists is returned when inserting a record whose id is taken.
	ErrExists = errors.New("record already exists")
)

// Store persists page records in SQLite. Each record is stored as a JSON
// document keyed by page name and record id.
type Store struct {
	sqlDB  *sql.DB
	logger *slog.Logger
}

// Open opens the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, logger: logger}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Insert adds one record. Records without an id get a generated UUID, which
// is written back into rec.
func (s *Store) Insert(ctx context.Context, page string, rec datagrid.Record) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("record is required")
	}
	if rec.RowID() == "" {
		rec[datagrid.IDKey] = uuid.NewString()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", rec.RowID(), err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO records (page, id, data, seq, updated_at)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM records WHERE page = ?), ?)`,
		page, rec.RowID(), string(data), page, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("insert %s/%s: %w", page, rec.RowID(), ErrExists)
		}
		return fmt.Errorf("insert %s/%s: %w", page, rec.RowID(), err)
	}
	return nil
}

// Seed upserts records in one transaction, keeping the position of records
// that already exist. With replace set, the page is emptied first.
func (s *Store) Seed(ctx context.Context, page string, records []datagrid.Record, replace bool) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE page = ?`, page); err != nil {
			return 0, fmt.Errorf("clear %s: %w", page, err)
		}
	}

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM records WHERE page = ?`, page,
	).Scan(&seq); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}

	now := time.Now().UTC().UnixMilli()
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if rec.RowID() == "" {
			rec[datagrid.IDKey] = uuid.NewString()
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("encode record %s: %w", rec.RowID(), err)
		}
		seq++
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (page, id, data, seq, updated_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (page, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			page, rec.RowID(), string(data), seq, now,
		); err != nil {
			return 0, fmt.Errorf("seed %s/%s: %w", page, rec.RowID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	s.logger.Debug("seeded records", "page", page, "count", len(records), "replace", replace)
	return len(records), nil
}

// Get returns one record.
func (s *Store) Get(ctx context.Context, page, id string) (datagrid.Record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var data string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM records WHERE page = ? AND id = ?`, page, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s/%s: %w", page, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", page, id, err)
	}
	return decodeRecord(data)
}

// All returns every record of page in insertion order.
func (s *Store) All(ctx context.Context, page string) ([]datagrid.Row, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT data FROM records WHERE page = ? ORDER BY seq`, page)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", page, err)
	}
	return scanRows(rows)
}

// Update replaces the fields of an existing record with the fields in rec.
// Fields absent from rec are kept.
func (s *Store) Update(ctx context.Context, page string, rec datagrid.Record) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := rec.RowID()
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	current, err := s.Get(ctx, page, id)
	if err != nil {
		return err
	}
	for k, v := range rec {
		current[k] = v
	}
	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", id, err)
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE records SET data = ?, updated_at = ? WHERE page = ? AND id = ?`,
		string(data), time.Now().UTC().UnixMilli(), page, id,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", page, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update %s/%s: %w", page, id, ErrNotFound)
	}
	s.logger.Debug("updated record", "page", page, "id", id)
	return nil
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, page, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM records WHERE page = ? AND id = ?`, page, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", page, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", page, id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s/%s: %w", page, id, ErrNotFound)
	}
	s.logger.Debug("deleted record", "page", page, "id", id)
	return nil
}

// DeleteMany removes every listed record. Failures do not stop the batch;
// they are reported together.
func (s *Store) DeleteMany(ctx context.Context, page string, ids []string) error {
	bucket := &gridErr.ErrorsBucket{Msg: fmt.Sprintf("failed to delete %s records:", page)}
	for _, id := range ids {
		bucket.Add(s.Delete(ctx, page, id))
	}
	return bucket.ErrorOrNil()
}

// Count returns the number of records stored for page.
func (s *Store) Count(ctx context.Context, page string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE page = ?`, page,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", page, err)
	}
	return n, nil
}

func scanRows(rows *sql.Rows) ([]datagrid.Row, error) {
	defer rows.Close()
	var out []datagrid.Row
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func decodeRecord(data string) (datagrid.Record, error) {
	var rec datagrid.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	default:
		return false
	}
}
