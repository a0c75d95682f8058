package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"medicine-reminder/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			id, name, date_of_birth,
			wake_time, sleep_time,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?)
	`,
		p.ID,
		p.Name,
		encodeTimePtr(p.DateOfBirth),
		p.WakeTime,
		p.SleepTime,
		encodeTime(p.CreatedAt),
		encodeTime(p.UpdatedAt),
	)
	return err
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return profiles.Profile{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, date_of_birth,
			wake_time, sleep_time,
			created_at, updated_at
		FROM profiles
		WHERE id = ?
	`, id)

	return scanProfile(row)
}

func (r *ProfilesRepo) List(ctx context.Context) ([]profiles.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, date_of_birth,
			wake_time, sleep_time,
			created_at, updated_at
		FROM profiles
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profiles.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET
			name = ?,
			date_of_birth = ?,
			wake_time = ?,
			sleep_time = ?,
			updated_at = ?
		WHERE id = ?
	`,
		p.Name,
		encodeTimePtr(p.DateOfBirth),
		p.WakeTime,
		p.SleepTime,
		encodeTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfilesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row rowScanner) (profiles.Profile, error) {
	var p profiles.Profile
	var dob sql.NullString
	var created, updated string
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&dob,
		&p.WakeTime,
		&p.SleepTime,
		&created,
		&updated,
	); err != nil {
		if err == sql.ErrNoRows {
			return profiles.Profile{}, ErrNotFound
		}
		return profiles.Profile{}, err
	}

	var err error
	if p.DateOfBirth, err = decodeTimePtr(dob); err != nil {
		return profiles.Profile{}, err
	}
	if p.CreatedAt, err = decodeTime(created); err != nil {
		return profiles.Profile{}, err
	}
	if p.UpdatedAt, err = decodeTime(updated); err != nil {
		return profiles.Profile{}, err
	}
	return p, nil
}
