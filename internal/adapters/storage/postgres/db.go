package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Esquema esperado (aplicar por fuera, no hay migraciones automáticas):
//
//	CREATE TABLE profiles (
//	    id            text PRIMARY KEY,
//	    name          text NOT NULL,
//	    date_of_birth date,
//	    wake_time     text NOT NULL,
//	    sleep_time    text NOT NULL,
//	    created_at    timestamptz NOT NULL,
//	    updated_at    timestamptz NOT NULL
//	);
//
//	CREATE TABLE medicines (
//	    id                  text PRIMARY KEY,
//	    profile_id          text NOT NULL,
//	    name                text NOT NULL,
//	    dose                text NOT NULL,
//	    doctor_name         text NOT NULL DEFAULT '',
//	    custom_instructions text NOT NULL DEFAULT '',
//	    course_days         integer NOT NULL,
//	    instruction         text NOT NULL,
//	    frequency_type      text NOT NULL,
//	    frequency_value     integer NOT NULL,
//	    fixed_times         text NOT NULL DEFAULT '[]', -- JSON ["HH:MM", ...]
//	    start_date          timestamptz NOT NULL,
//	    end_date            timestamptz,
//	    status              text NOT NULL,
//	    created_at          timestamptz NOT NULL,
//	    updated_at          timestamptz NOT NULL
//	);
//	CREATE INDEX medicines_profile_idx ON medicines (profile_id);
//
//	CREATE TABLE schedules (
//	    id              text PRIMARY KEY,
//	    medicine_id     text NOT NULL,
//	    profile_id      text NOT NULL,
//	    scheduled_at    timestamptz NOT NULL,
//	    status          text NOT NULL,
//	    actual_taken_at timestamptz,
//	    medicine_name   text NOT NULL,
//	    dose            text NOT NULL,
//	    notified        boolean NOT NULL DEFAULT false,
//	    UNIQUE (medicine_id, scheduled_at)
//	);
//	CREATE INDEX schedules_profile_time_idx ON schedules (profile_id, scheduled_at);
//	CREATE INDEX schedules_medicine_idx ON schedules (medicine_id);

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
