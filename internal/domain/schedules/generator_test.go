package schedules

import (
	"testing"
	"time"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/profiles"
)

func testProfile(wake, sleep string) profiles.Profile {
	return profiles.Profile{
		ID:        "profile-1",
		Name:      "Mamá",
		WakeTime:  wake,
		SleepTime: sleep,
	}
}

func testMedicine(start time.Time, days int, instr medicines.Instruction, ft medicines.FrequencyType, fv int, fixed []string) medicines.Medicine {
	return medicines.Medicine{
		ID:             "med-1",
		ProfileID:      "profile-1",
		Name:           "Amoxicilina",
		Dose:           "500mg",
		CourseDays:     days,
		Instruction:    instr,
		FrequencyType:  ft,
		FrequencyValue: fv,
		FixedTimes:     fixed,
		StartDate:      start,
	}
}

func wantTimes(t *testing.T, got []Schedule, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d schedules, got %d: %v", len(want), len(got), times(got))
	}
	for i := range want {
		if !got[i].ScheduledAt.Equal(want[i]) {
			t.Fatalf("schedule %d: expected %s, got %s", i, want[i], got[i].ScheduledAt)
		}
	}
}

func times(items []Schedule) []time.Time {
	out := make([]time.Time, 0, len(items))
	for _, it := range items {
		out = append(out, it.ScheduledAt)
	}
	return out
}

func day(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestGenerate_TimesADay_UsesIntervalMidpoints(t *testing.T) {
	// Ventana 07:00-22:00 con buffer => 08:00-21:00 (13h). Tres tomas van al
	// punto medio de cada tercio: 10:10, 14:30, 18:50.
	prof := testProfile("07:00", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 1, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 3, nil)

	got := Generate(med, prof, start, CutoffStartOfDay)

	wantTimes(t, got,
		day(2026, 1, 5, 10, 10),
		day(2026, 1, 5, 14, 30),
		day(2026, 1, 5, 18, 50),
	)
}

func TestGenerate_EveryXHours_StepsFromWindowStart(t *testing.T) {
	prof := testProfile("07:00", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 2, medicines.InstructionAfterFood, medicines.FrequencyEveryXHours, 8, nil)

	got := Generate(med, prof, start, CutoffStartOfDay)

	// 08:00 + 8h = 16:00; 24:00 ya queda fuera de la ventana (fin 21:00).
	wantTimes(t, got,
		day(2026, 1, 5, 8, 0),
		day(2026, 1, 5, 16, 0),
		day(2026, 1, 6, 8, 0),
		day(2026, 1, 6, 16, 0),
	)
}

func TestGenerate_EmptyStomach_SkipsBuffer(t *testing.T) {
	prof := testProfile("07:00", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 1, medicines.InstructionEmptyStomach, medicines.FrequencyEveryXHours, 6, nil)

	got := Generate(med, prof, start, CutoffStartOfDay)

	// Sin buffer la ventana es 07:00-22:00 completa.
	wantTimes(t, got,
		day(2026, 1, 5, 7, 0),
		day(2026, 1, 5, 13, 0),
		day(2026, 1, 5, 19, 0),
	)
}

func TestGenerate_BeforeSleep_OneDoseAtSleepTime(t *testing.T) {
	// before_sleep pisa la frecuencia: aunque pida 3 por día, sale una sola
	// a la hora de dormir, minutos incluidos.
	prof := testProfile("07:00", "22:30")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 2, medicines.InstructionBeforeSleep, medicines.FrequencyTimesADay, 3, nil)

	got := Generate(med, prof, start, CutoffStartOfDay)

	wantTimes(t, got,
		day(2026, 1, 5, 22, 30),
		day(2026, 1, 6, 22, 30),
	)
}

func TestGenerate_FixedTimes_IgnoresWindow(t *testing.T) {
	prof := testProfile("07:00", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 1, medicines.InstructionWithFood, medicines.FrequencyFixedTimes, 2, []string{"06:00", "23:30"})

	got := Generate(med, prof, start, CutoffStartOfDay)

	// Las horas fijas valen tal cual, incluso fuera de la ventana de vigilia.
	wantTimes(t, got,
		day(2026, 1, 5, 6, 0),
		day(2026, 1, 5, 23, 30),
	)
}

func TestGenerate_OvernightWindow_EveryXHours(t *testing.T) {
	// Duerme a las 02:00: la ventana cruza medianoche y el fin cae al día
	// siguiente. Con buffer queda 21:00-01:00.
	prof := testProfile("20:00", "02:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 2, medicines.InstructionAfterFood, medicines.FrequencyEveryXHours, 4, nil)

	got := Generate(med, prof, start, CutoffStartOfDay)

	// La última toma del día 2 (01:00 del 7) cae justo en el fin de curso y
	// queda fuera.
	wantTimes(t, got,
		day(2026, 1, 5, 21, 0),
		day(2026, 1, 6, 1, 0),
		day(2026, 1, 6, 21, 0),
	)
}

func TestGenerate_OvernightWindow_TimesADay(t *testing.T) {
	// Ventana 21:00-01:00 (4h); dos tomas van a los puntos medios de cada
	// mitad: 22:00 y 00:00 del día siguiente.
	prof := testProfile("20:00", "02:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 2, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 2, nil)

	got := Generate(med, prof, start, CutoffStartOfDay)

	wantTimes(t, got,
		day(2026, 1, 5, 22, 0),
		day(2026, 1, 6, 0, 0),
		day(2026, 1, 6, 22, 0),
	)
}

func TestGenerate_CutoffStartOfDay_KeepsTodaysPastDoses(t *testing.T) {
	prof := testProfile("07:00", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 1, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 3, nil)

	// Son las 15:00: la toma de 10:10 ya pasó pero en el alta igual se
	// genera (entra como overdue al leer).
	now := day(2026, 1, 5, 15, 0)
	got := Generate(med, prof, now, CutoffStartOfDay)

	wantTimes(t, got,
		day(2026, 1, 5, 10, 10),
		day(2026, 1, 5, 14, 30),
		day(2026, 1, 5, 18, 50),
	)
}

func TestGenerate_CutoffNow_DropsPastDoses(t *testing.T) {
	prof := testProfile("07:00", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 1, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 3, nil)

	// Al editar no se resucitan tomas que quedaron atrás.
	now := day(2026, 1, 5, 15, 0)
	got := Generate(med, prof, now, CutoffNow)

	wantTimes(t, got,
		day(2026, 1, 5, 18, 50),
	)
}

func TestGenerate_InvalidClock_ReturnsNothing(t *testing.T) {
	prof := testProfile("7am", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 1, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 3, nil)

	if got := Generate(med, prof, start, CutoffStartOfDay); len(got) != 0 {
		t.Fatalf("expected no schedules for invalid wake time, got %d", len(got))
	}
}

func TestGenerate_SnapshotsMedicineFields(t *testing.T) {
	prof := testProfile("07:00", "22:00")
	start := day(2026, 1, 5, 0, 0)
	med := testMedicine(start, 1, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 1, nil)

	got := Generate(med, prof, start, CutoffStartOfDay)
	if len(got) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(got))
	}
	s := got[0]
	if s.MedicineName != med.Name || s.Dose != med.Dose {
		t.Fatalf("expected snapshots %q/%q, got %q/%q", med.Name, med.Dose, s.MedicineName, s.Dose)
	}
	if s.Status != StatusPending {
		t.Fatalf("expected pending, got %s", s.Status)
	}
	if s.ID == "" {
		t.Fatalf("expected generated id")
	}
}
