// Package journal records saved edits in a SQLite database so past saves
// can be listed after the playground exits.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/log"
)

// Mask replaces password values in the journal.
const Mask = "••••••"

// migrations are applied in order; PRAGMA user_version holds how many ran.
var migrations = []string{
	`CREATE TABLE saves (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		field    TEXT NOT NULL,
		kind     TEXT NOT NULL,
		before   TEXT NOT NULL,
		after    TEXT NOT NULL,
		saved_at TEXT NOT NULL
	)`,
	`CREATE INDEX saves_field ON saves (field, id)`,
}

// Entry is one saved edit.
type Entry struct {
	ID      int64
	Field   string
	Kind    editor.Kind
	Before  string
	After   string
	SavedAt time.Time
}

// Journal is an append-only log of saves.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal at path and brings its schema up to
// date. ":memory:" gives a private in-memory journal.
func Open(ctx context.Context, path string) (*Journal, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal %s: %w", path, err)
	}
	return &Journal{db: db, now: now}, nil
}

// now returns UTC time truncated to seconds, the precision stored.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		log.Info(log.CatStore, "journal migrated", "version", i+1)
	}
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Record appends a save of field from before to after. Password values are
// stored masked.
func (j *Journal) Record(ctx context.Context, field string, kind editor.Kind, before, after editor.Value) (Entry, error) {
	e := Entry{
		Field:   field,
		Kind:    kind,
		Before:  text(kind, before),
		After:   text(kind, after),
		SavedAt: j.now(),
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO saves (field, kind, before, after, saved_at) VALUES (?, ?, ?, ?, ?)`,
		e.Field, string(e.Kind), e.Before, e.After, e.SavedAt.Format(time.RFC3339))
	if err != nil {
		return Entry{}, fmt.Errorf("record save of %s: %w", field, err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("record save of %s: %w", field, err)
	}
	log.Debug(log.CatStore, "journal entry", "field", field, "id", e.ID)
	return e, nil
}

func text(kind editor.Kind, v editor.Value) string {
	if kind == editor.KindPassword && !editor.IsBlank(v) {
		return Mask
	}
	return editor.ValueString(v)
}

// Recent returns up to limit entries, newest first. An empty field lists
// every field.
func (j *Journal) Recent(ctx context.Context, field string, limit int) ([]Entry, error) {
	query := `SELECT id, field, kind, before, after, saved_at FROM saves`
	args := []any{}
	if field != "" {
		query += ` WHERE field = ?`
		args = append(args, field)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			kind    string
			savedAt string
		)
		if err := rows.Scan(&e.ID, &e.Field, &kind, &e.Before, &e.After, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		e.Kind = editor.Kind(kind)
		if e.SavedAt, err = time.Parse(time.RFC3339, savedAt); err != nil {
			return nil, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
