package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medicine-reminder/internal/domain/schedules"
)

type SchedulesRepo struct {
	db *sql.DB
}

func NewSchedulesRepo(db *sql.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

const scheduleColumns = `
	id, medicine_id, profile_id,
	scheduled_at, status, actual_taken_at,
	medicine_name, dose, notified
`

func (r *SchedulesRepo) Create(ctx context.Context, s schedules.Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (
			id, medicine_id, profile_id,
			scheduled_at, status, actual_taken_at,
			medicine_name, dose, notified
		) VALUES (?,?,?,?,?,?,?,?,?)
	`,
		s.ID,
		s.MedicineID,
		s.ProfileID,
		encodeTime(s.ScheduledAt),
		string(s.Status),
		encodeTimePtr(s.ActualTakenAt),
		s.MedicineName,
		s.Dose,
		s.Notified,
	)
	return err
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return schedules.Schedule{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE id = ?
	`, id)

	return scanSchedule(row)
}

func (r *SchedulesRepo) ListByProfile(ctx context.Context, profileID string) ([]schedules.Schedule, error) {
	return r.list(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE profile_id = ?
		ORDER BY scheduled_at ASC
	`, profileID)
}

func (r *SchedulesRepo) ListByMedicine(ctx context.Context, medicineID string) ([]schedules.Schedule, error) {
	return r.list(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE medicine_id = ?
		ORDER BY scheduled_at ASC
	`, medicineID)
}

// ListByRange aprovecha que RFC3339 en UTC ordena lexicográficamente igual
// que el tiempo, así el índice (profile_id, scheduled_at) sirve directo.
func (r *SchedulesRepo) ListByRange(ctx context.Context, profileID string, from, to time.Time) ([]schedules.Schedule, error) {
	return r.list(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE profile_id = ?
		  AND scheduled_at >= ?
		  AND scheduled_at <= ?
		ORDER BY scheduled_at ASC
	`, profileID, encodeTime(from), encodeTime(to))
}

func (r *SchedulesRepo) Update(ctx context.Context, s schedules.Schedule) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedules
		SET
			status = ?,
			actual_taken_at = ?,
			notified = ?
		WHERE id = ?
	`,
		string(s.Status),
		encodeTimePtr(s.ActualTakenAt),
		s.Notified,
		s.ID,
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

func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) DeleteByMedicine(ctx context.Context, medicineID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE medicine_id = ?`, medicineID)
	return err
}

func (r *SchedulesRepo) DeleteByProfile(ctx context.Context, profileID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE profile_id = ?`, profileID)
	return err
}

func (r *SchedulesRepo) DeleteFuturePending(ctx context.Context, medicineID string, after time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM schedules
		WHERE medicine_id = ?
		  AND status = ?
		  AND scheduled_at > ?
	`, medicineID, string(schedules.StatusPending), encodeTime(after))
	return err
}

func (r *SchedulesRepo) list(ctx context.Context, query string, args ...any) ([]schedules.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedules.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSchedule(row rowScanner) (schedules.Schedule, error) {
	var s schedules.Schedule
	var at string
	var taken sql.NullString
	if err := row.Scan(
		&s.ID,
		&s.MedicineID,
		&s.ProfileID,
		&at,
		&s.Status,
		&taken,
		&s.MedicineName,
		&s.Dose,
		&s.Notified,
	); err != nil {
		if err == sql.ErrNoRows {
			return schedules.Schedule{}, ErrNotFound
		}
		return schedules.Schedule{}, err
	}

	var err error
	if s.ScheduledAt, err = decodeTime(at); err != nil {
		return schedules.Schedule{}, err
	}
	if s.ActualTakenAt, err = decodeTimePtr(taken); err != nil {
		return schedules.Schedule{}, err
	}
	return s, nil
}
