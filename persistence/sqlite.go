// Package persistence stores ooze populations in SQLite so a run can resume.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSave is returned by LoadLatest when the store holds no saves.
var ErrNoSave = errors.New("no saved population")

// CreatureRecord is the persisted form of one ooze.
type CreatureRecord struct {
	ID                  uint32
	Variant             string
	Size                int32
	Oversize            bool
	FollowRangeModifier float64
	Mirrored            bool
	Health              float64
	X, Y, Z             float64
}

// SaveRecord is one saved population.
type SaveRecord struct {
	Tick      int32
	Seed      uint64
	SavedAt   time.Time
	Creatures []CreatureRecord
}

// SQLiteStore persists saves in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tick INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS creatures (
			save_id INTEGER NOT NULL REFERENCES saves(id) ON DELETE CASCADE,
			entity_id INTEGER NOT NULL,
			variant TEXT NOT NULL,
			size INTEGER NOT NULL CHECK (size BETWEEN 1 AND 127),
			oversize INTEGER NOT NULL,
			follow_range_modifier REAL NOT NULL,
			mirrored INTEGER NOT NULL,
			health REAL NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			PRIMARY KEY (save_id, entity_id)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes a population in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, rec SaveRecord) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO saves (tick, seed, saved_at) VALUES (?, ?, ?)`,
		rec.Tick, int64(rec.Seed), rec.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert save: %w", err)
	}
	saveID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("save id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO creatures
		(save_id, entity_id, variant, size, oversize, follow_range_modifier, mirrored, health, x, y, z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare creature insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range rec.Creatures {
		if _, err := stmt.ExecContext(ctx, saveID, c.ID, c.Variant, c.Size, c.Oversize,
			c.FollowRangeModifier, c.Mirrored, c.Health, c.X, c.Y, c.Z); err != nil {
			return fmt.Errorf("insert creature %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LoadLatest returns the most recent save, or ErrNoSave.
func (s *SQLiteStore) LoadLatest(ctx context.Context) (*SaveRecord, error) {
	var (
		saveID  int64
		seed    int64
		savedAt string
		rec     SaveRecord
	)
	row := s.db.QueryRowContext(ctx, `SELECT id, tick, seed, saved_at FROM saves ORDER BY id DESC LIMIT 1`)
	if err := row.Scan(&saveID, &rec.Tick, &seed, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("read latest save: %w", err)
	}
	rec.Seed = uint64(seed)
	if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		rec.SavedAt = t
	}

	rows, err := s.db.QueryContext(ctx, `SELECT entity_id, variant, size, oversize, follow_range_modifier,
		mirrored, health, x, y, z FROM creatures WHERE save_id = ? ORDER BY entity_id`, saveID)
	if err != nil {
		return nil, fmt.Errorf("read creatures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CreatureRecord
		if err := rows.Scan(&c.ID, &c.Variant, &c.Size, &c.Oversize, &c.FollowRangeModifier,
			&c.Mirrored, &c.Health, &c.X, &c.Y, &c.Z); err != nil {
			return nil, fmt.Errorf("scan creature: %w", err)
		}
		rec.Creatures = append(rec.Creatures, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creatures: %w", err)
	}

	return &rec, nil
}

// Count returns the number of saves in the store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saves`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count saves: %w", err)
	}
	return n, nil
}
