package sqlite

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

var (
	ErrNotFound = errors.New("not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	date_of_birth TEXT,
	wake_time     TEXT NOT NULL,
	sleep_time    TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS medicines (
	id                  TEXT PRIMARY KEY,
	profile_id          TEXT NOT NULL,
	name                TEXT NOT NULL,
	dose                TEXT NOT NULL,
	doctor_name         TEXT NOT NULL DEFAULT '',
	custom_instructions TEXT NOT NULL DEFAULT '',
	course_days         INTEGER NOT NULL,
	instruction         TEXT NOT NULL,
	frequency_type      TEXT NOT NULL,
	frequency_value     INTEGER NOT NULL,
	fixed_times         TEXT NOT NULL DEFAULT '[]',
	start_date          TEXT NOT NULL,
	end_date            TEXT,
	status              TEXT NOT NULL,
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS medicines_profile_idx ON medicines (profile_id);

CREATE TABLE IF NOT EXISTS schedules (
	id              TEXT PRIMARY KEY,
	medicine_id     TEXT NOT NULL,
	profile_id      TEXT NOT NULL,
	scheduled_at    TEXT NOT NULL,
	status          TEXT NOT NULL,
	actual_taken_at TEXT,
	medicine_name   TEXT NOT NULL,
	dose            TEXT NOT NULL,
	notified        INTEGER NOT NULL DEFAULT 0,
	UNIQUE (medicine_id, scheduled_at)
);
CREATE INDEX IF NOT EXISTS schedules_profile_time_idx ON schedules (profile_id, scheduled_at);
CREATE INDEX IF NOT EXISTS schedules_medicine_idx ON schedules (medicine_id);
`

// Open abre (o crea) la base SQLite y aplica el esquema. Los timestamps se
// guardan como TEXT RFC3339 para que las comparaciones lexicográficas
// coincidan con las temporales.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// modernc/sqlite es embebido: un solo writer evita SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}

// Los helpers de tiempo: TEXT RFC3339 (UTC) <-> time.Time.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeTime(*t), Valid: true}
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode timestamp %q: %w", s, err)
	}
	return t, nil
}

func decodeTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := decodeTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
