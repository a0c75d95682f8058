package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"medicine-reminder/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	fixed, err := encodeFixedTimes(m.FixedTimes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medicines (
			id, profile_id,
			name, dose, doctor_name, custom_instructions,
			course_days, instruction,
			frequency_type, frequency_value, fixed_times,
			start_date, end_date, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		m.ID,
		m.ProfileID,
		m.Name,
		m.Dose,
		m.DoctorName,
		m.CustomInstructions,
		m.CourseDays,
		m.Instruction,
		m.FrequencyType,
		m.FrequencyValue,
		fixed,
		m.StartDate,
		toNullDate(m.EndDate),
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medicines.Medicine{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, profile_id,
			name, dose, doctor_name, custom_instructions,
			course_days, instruction,
			frequency_type, frequency_value, fixed_times,
			start_date, end_date, status,
			created_at, updated_at
		FROM medicines
		WHERE id = $1
	`, id)

	return scanMedicine(row)
}

func (r *MedicinesRepo) ListByProfile(ctx context.Context, profileID string) ([]medicines.Medicine, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, profile_id,
			name, dose, doctor_name, custom_instructions,
			course_days, instruction,
			frequency_type, frequency_value, fixed_times,
			start_date, end_date, status,
			created_at, updated_at
		FROM medicines
		WHERE profile_id = $1
		ORDER BY created_at ASC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medicines.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	fixed, err := encodeFixedTimes(m.FixedTimes)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET
			name = $2,
			dose = $3,
			doctor_name = $4,
			custom_instructions = $5,
			course_days = $6,
			instruction = $7,
			frequency_type = $8,
			frequency_value = $9,
			fixed_times = $10,
			end_date = $11,
			status = $12,
			updated_at = $13
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dose,
		m.DoctorName,
		m.CustomInstructions,
		m.CourseDays,
		m.Instruction,
		m.FrequencyType,
		m.FrequencyValue,
		fixed,
		toNullDate(m.EndDate),
		m.Status,
		m.UpdatedAt,
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

func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) DeleteByProfile(ctx context.Context, profileID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE profile_id = $1`, profileID)
	return err
}

func scanMedicine(row rowScanner) (medicines.Medicine, error) {
	var m medicines.Medicine
	var fixed string
	var end sql.NullTime
	if err := row.Scan(
		&m.ID,
		&m.ProfileID,
		&m.Name,
		&m.Dose,
		&m.DoctorName,
		&m.CustomInstructions,
		&m.CourseDays,
		&m.Instruction,
		&m.FrequencyType,
		&m.FrequencyValue,
		&fixed,
		&m.StartDate,
		&end,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medicines.Medicine{}, ErrNotFound
		}
		return medicines.Medicine{}, err
	}

	if end.Valid {
		t := end.Time
		m.EndDate = &t
	}
	if err := decodeFixedTimes(fixed, &m.FixedTimes); err != nil {
		return medicines.Medicine{}, err
	}
	return m, nil
}

// fixed_times se guarda como JSON en una columna text; es una lista chica
// ("HH:MM") y nunca se filtra por ella.
func encodeFixedTimes(ts []string) (string, error) {
	if len(ts) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(ts)
	if err != nil {
		return "", fmt.Errorf("encode fixed_times: %w", err)
	}
	return string(b), nil
}

func decodeFixedTimes(raw string, out *[]string) error {
	if strings.TrimSpace(raw) == "" || raw == "[]" {
		*out = nil
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode fixed_times: %w", err)
	}
	return nil
}
