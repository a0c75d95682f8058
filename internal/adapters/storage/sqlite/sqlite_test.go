package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/profiles"
	"medicine-reminder/internal/domain/schedules"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "reminder.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ts(hh, mm int) time.Time {
	return time.Date(2026, 1, 5, hh, mm, 0, 0, time.UTC)
}

func TestProfilesRepo_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfilesRepo(db)
	ctx := context.Background()

	dob := time.Date(1952, 6, 10, 0, 0, 0, 0, time.UTC)
	p := profiles.Profile{
		ID:          "profile-1",
		Name:        "Mamá",
		DateOfBirth: &dob,
		WakeTime:    "07:00",
		SleepTime:   "22:00",
		CreatedAt:   ts(9, 0),
		UpdatedAt:   ts(9, 0),
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, "profile-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != p.Name || got.WakeTime != p.WakeTime || got.SleepTime != p.SleepTime {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.DateOfBirth == nil || !got.DateOfBirth.Equal(dob) {
		t.Fatalf("expected dob %s, got %v", dob, got.DateOfBirth)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("expected created_at %s, got %s", p.CreatedAt, got.CreatedAt)
	}

	got.SleepTime = "21:30"
	got.UpdatedAt = ts(10, 0)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.GetByID(ctx, "profile-1")
	if again.SleepTime != "21:30" {
		t.Fatalf("expected updated sleep time, got %s", again.SleepTime)
	}

	if err := repo.Delete(ctx, "profile-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "profile-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMedicinesRepo_FixedTimesRoundtrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewMedicinesRepo(db)
	ctx := context.Background()

	m := medicines.Medicine{
		ID:             "med-1",
		ProfileID:      "profile-1",
		Name:           "Amoxicilina",
		Dose:           "500mg",
		CourseDays:     7,
		Instruction:    medicines.InstructionAfterFood,
		FrequencyType:  medicines.FrequencyFixedTimes,
		FrequencyValue: 2,
		FixedTimes:     []string{"09:00", "21:00"},
		StartDate:      ts(9, 0),
		Status:         medicines.StatusActive,
		CreatedAt:      ts(9, 0),
		UpdatedAt:      ts(9, 0),
	}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, "med-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.FixedTimes) != 2 || got.FixedTimes[0] != "09:00" || got.FixedTimes[1] != "21:00" {
		t.Fatalf("fixed times roundtrip mismatch: %v", got.FixedTimes)
	}
	if got.EndDate != nil {
		t.Fatalf("expected nil end date, got %v", got.EndDate)
	}

	end := ts(12, 0)
	got.Status = medicines.StatusStopped
	got.EndDate = &end
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.GetByID(ctx, "med-1")
	if again.Status != medicines.StatusStopped || again.EndDate == nil || !again.EndDate.Equal(end) {
		t.Fatalf("stop roundtrip mismatch: %+v", again)
	}
}

func TestSchedulesRepo_RangeAndFuturePending(t *testing.T) {
	db := openTestDB(t)
	repo := NewSchedulesRepo(db)
	ctx := context.Background()

	seed := []schedules.Schedule{
		{ID: "s1", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: ts(10, 10), Status: schedules.StatusTaken, MedicineName: "Amoxicilina", Dose: "500mg"},
		{ID: "s2", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: ts(14, 30), Status: schedules.StatusPending, MedicineName: "Amoxicilina", Dose: "500mg"},
		{ID: "s3", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: ts(18, 50), Status: schedules.StatusPending, MedicineName: "Amoxicilina", Dose: "500mg"},
		{ID: "s4", MedicineID: "med-2", ProfileID: "profile-1", ScheduledAt: ts(18, 50), Status: schedules.StatusPending, MedicineName: "Hierro", Dose: "1 comprimido"},
	}
	for _, s := range seed {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create %s: %v", s.ID, err)
		}
	}

	// Rango inclusivo en ambos extremos.
	items, err := repo.ListByRange(ctx, "profile-1", ts(10, 10), ts(14, 30))
	if err != nil {
		t.Fatalf("ListByRange: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 in range (inclusive bounds), got %d", len(items))
	}

	// Unicidad (medicina, hora): mismo instante para otra medicina es válido,
	// duplicado exacto no.
	dup := schedules.Schedule{ID: "s5", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: ts(18, 50), Status: schedules.StatusPending}
	if err := repo.Create(ctx, dup); err == nil {
		t.Fatalf("expected unique violation for duplicate (medicine, time)")
	}

	// DeleteFuturePending: borra solo pendientes estrictamente futuras de la
	// medicina.
	if err := repo.DeleteFuturePending(ctx, "med-1", ts(14, 30)); err != nil {
		t.Fatalf("DeleteFuturePending: %v", err)
	}
	if _, err := repo.GetByID(ctx, "s3"); err != ErrNotFound {
		t.Fatalf("expected s3 deleted, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "s2"); err != nil {
		t.Fatalf("expected s2 (at cutoff, not strictly after) preserved: %v", err)
	}
	if _, err := repo.GetByID(ctx, "s1"); err != nil {
		t.Fatalf("expected s1 (taken) preserved: %v", err)
	}
	if _, err := repo.GetByID(ctx, "s4"); err != nil {
		t.Fatalf("expected s4 (other medicine) preserved: %v", err)
	}

	// Resolver una toma persiste estado y hora real.
	takenAt := ts(14, 35)
	s2, _ := repo.GetByID(ctx, "s2")
	s2.Status = schedules.StatusTaken
	s2.ActualTakenAt = &takenAt
	if err := repo.Update(ctx, s2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.GetByID(ctx, "s2")
	if got.Status != schedules.StatusTaken || got.ActualTakenAt == nil || !got.ActualTakenAt.Equal(takenAt) {
		t.Fatalf("resolution roundtrip mismatch: %+v", got)
	}
}
