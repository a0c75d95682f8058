package schedules

import (
	"context"
	"errors"
	"testing"
	"time"

	"medicine-reminder/internal/domain/medicines"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Schedule
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Schedule{}}
}

func (r *testRepo) Create(ctx context.Context, s Schedule) error {
	if s.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[s.ID]; ok {
		return errors.New("repo: already exists")
	}
	for _, other := range r.byID {
		if other.MedicineID == s.MedicineID && other.ScheduledAt.Equal(s.ScheduledAt) {
			return errors.New("repo: duplicate time for medicine")
		}
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Schedule, error) {
	s, ok := r.byID[id]
	if !ok {
		return Schedule{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) ListByProfile(ctx context.Context, profileID string) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, s := range r.byID {
		if s.ProfileID == profileID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) ListByMedicine(ctx context.Context, medicineID string) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, s := range r.byID {
		if s.MedicineID == medicineID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) ListByRange(ctx context.Context, profileID string, from, to time.Time) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, s := range r.byID {
		if s.ProfileID != profileID {
			continue
		}
		if s.ScheduledAt.Before(from) || s.ScheduledAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, s Schedule) error {
	if _, ok := r.byID[s.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) DeleteByMedicine(ctx context.Context, medicineID string) error {
	for id, s := range r.byID {
		if s.MedicineID == medicineID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *testRepo) DeleteByProfile(ctx context.Context, profileID string) error {
	for id, s := range r.byID {
		if s.ProfileID == profileID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *testRepo) DeleteFuturePending(ctx context.Context, medicineID string, after time.Time) error {
	for id, s := range r.byID {
		if s.MedicineID == medicineID && s.Status == StatusPending && s.ScheduledAt.After(after) {
			delete(r.byID, id)
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Plan_InsertsWholeCourse(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := day(2026, 1, 5, 9, 0)
	svc.now = func() time.Time { return now }

	prof := testProfile("07:00", "22:00")
	med := testMedicine(day(2026, 1, 5, 0, 0), 2, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 3, nil)

	n, err := svc.Plan(context.Background(), med, prof)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 schedules planned, got %d", n)
	}
}

func TestService_Regenerate_PreservesResolvedAndPast(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := day(2026, 1, 5, 15, 0)
	svc.now = func() time.Time { return now }

	prof := testProfile("07:00", "22:00")
	med := testMedicine(day(2026, 1, 5, 0, 0), 2, medicines.InstructionAfterFood, medicines.FrequencyTimesADay, 3, nil)

	// Estado previo: una tomada a la mañana, una pendiente vencida, una
	// pendiente futura de hoy y las tres de mañana.
	takenAt := day(2026, 1, 5, 10, 12)
	seed := []Schedule{
		{ID: "s1", MedicineID: med.ID, ProfileID: prof.ID, ScheduledAt: day(2026, 1, 5, 10, 10), Status: StatusTaken, ActualTakenAt: &takenAt},
		{ID: "s2", MedicineID: med.ID, ProfileID: prof.ID, ScheduledAt: day(2026, 1, 5, 14, 30), Status: StatusPending},
		{ID: "s3", MedicineID: med.ID, ProfileID: prof.ID, ScheduledAt: day(2026, 1, 5, 18, 50), Status: StatusPending},
		{ID: "s4", MedicineID: med.ID, ProfileID: prof.ID, ScheduledAt: day(2026, 1, 6, 10, 10), Status: StatusPending},
	}
	for _, s := range seed {
		if err := repo.Create(context.Background(), s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	med.FrequencyValue = 2 // cambio mayor: ahora 2 por día
	if _, err := svc.Regenerate(context.Background(), med, prof); err != nil {
		t.Fatalf("Regenerate error: %v", err)
	}

	// La tomada sigue ahí, intacta.
	got, err := repo.GetByID(context.Background(), "s1")
	if err != nil || got.Status != StatusTaken {
		t.Fatalf("expected taken schedule untouched, got %+v err=%v", got, err)
	}
	// La pendiente vencida (14:30 < 15:00) también: el pasado no se toca.
	if _, err := repo.GetByID(context.Background(), "s2"); err != nil {
		t.Fatalf("expected overdue schedule preserved: %v", err)
	}
	// Las futuras pendientes fueron reemplazadas.
	if _, err := repo.GetByID(context.Background(), "s3"); err == nil {
		t.Fatalf("expected future pending schedule deleted")
	}
	if _, err := repo.GetByID(context.Background(), "s4"); err == nil {
		t.Fatalf("expected future pending schedule deleted")
	}

	// Lo regenerado sale con la nueva frecuencia y solo hacia adelante.
	items, err := svc.ListByMedicine(context.Background(), med.ID)
	if err != nil {
		t.Fatalf("ListByMedicine error: %v", err)
	}
	for _, it := range items {
		if it.Status == StatusPending && it.ScheduledAt.After(now) {
			continue
		}
		if it.ID == "s1" || it.ID == "s2" {
			continue
		}
		t.Fatalf("unexpected schedule after regenerate: %+v", it)
	}
}

func TestService_MarkTaken_SetsActualTime(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := day(2026, 1, 5, 14, 35)
	svc.now = func() time.Time { return now }

	seed := Schedule{ID: "s1", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: day(2026, 1, 5, 14, 30), Status: StatusPending}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.MarkTaken(context.Background(), "s1")
	if err != nil {
		t.Fatalf("MarkTaken error: %v", err)
	}
	if got.Status != StatusTaken {
		t.Fatalf("expected taken, got %s", got.Status)
	}
	if got.ActualTakenAt == nil || !got.ActualTakenAt.Equal(now) {
		t.Fatalf("expected ActualTakenAt=%s, got %v", now, got.ActualTakenAt)
	}

	// Los estados resueltos son terminales.
	if _, err := svc.MarkSkipped(context.Background(), "s1"); !errors.Is(err, ErrResolved) {
		t.Fatalf("expected ErrResolved, got %v", err)
	}
	if _, err := svc.MarkTaken(context.Background(), "s1"); !errors.Is(err, ErrResolved) {
		t.Fatalf("expected ErrResolved, got %v", err)
	}
}

func TestService_MarkSkipped_ClearsActualTime(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return day(2026, 1, 5, 14, 35) }

	seed := Schedule{ID: "s1", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: day(2026, 1, 5, 14, 30), Status: StatusPending}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.MarkSkipped(context.Background(), "s1")
	if err != nil {
		t.Fatalf("MarkSkipped error: %v", err)
	}
	if got.Status != StatusSkipped {
		t.Fatalf("expected skipped, got %s", got.Status)
	}
	if got.ActualTakenAt != nil {
		t.Fatalf("expected nil ActualTakenAt on skip")
	}
}

func TestService_MarkNotified_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	seed := Schedule{ID: "s1", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: day(2026, 1, 5, 14, 30), Status: StatusPending}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.MarkNotified(context.Background(), "s1"); err != nil {
		t.Fatalf("MarkNotified #1 error: %v", err)
	}
	if err := svc.MarkNotified(context.Background(), "s1"); err != nil {
		t.Fatalf("MarkNotified #2 error: %v", err)
	}

	got, _ := repo.GetByID(context.Background(), "s1")
	if !got.Notified {
		t.Fatalf("expected notified flag set")
	}
}

func TestService_Adherence_CountsOverdueAgainst(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := day(2026, 1, 5, 20, 0)
	svc.now = func() time.Time { return now }

	takenAt := day(2026, 1, 5, 10, 12)
	seed := []Schedule{
		{ID: "s1", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: day(2026, 1, 5, 10, 10), Status: StatusTaken, ActualTakenAt: &takenAt},
		{ID: "s2", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: day(2026, 1, 5, 14, 30), Status: StatusSkipped},
		{ID: "s3", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: day(2026, 1, 5, 18, 50), Status: StatusPending}, // vencida
		{ID: "s4", MedicineID: "med-1", ProfileID: "profile-1", ScheduledAt: day(2026, 1, 5, 21, 0), Status: StatusPending}, // futura
	}
	for _, s := range seed {
		if err := repo.Create(context.Background(), s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// 1 tomada de 3 vencidas (taken + skipped + overdue); la futura no cuenta.
	pct, err := svc.Adherence(context.Background(), "profile-1")
	if err != nil {
		t.Fatalf("Adherence error: %v", err)
	}
	want := 100.0 / 3.0
	if pct < want-0.01 || pct > want+0.01 {
		t.Fatalf("expected adherence ~%.2f, got %.2f", want, pct)
	}
}

func TestService_Adherence_NoPastDoses_Is100(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return day(2026, 1, 5, 8, 0) }

	pct, err := svc.Adherence(context.Background(), "profile-1")
	if err != nil {
		t.Fatalf("Adherence error: %v", err)
	}
	if pct != 100 {
		t.Fatalf("expected 100, got %.2f", pct)
	}
}

func TestEffectiveStatus_DerivesOverdueAtRead(t *testing.T) {
	now := day(2026, 1, 5, 15, 0)

	pendingPast := Schedule{Status: StatusPending, ScheduledAt: day(2026, 1, 5, 14, 30)}
	if got := EffectiveStatus(pendingPast, now); got != StatusOverdue {
		t.Fatalf("expected overdue, got %s", got)
	}

	pendingFuture := Schedule{Status: StatusPending, ScheduledAt: day(2026, 1, 5, 18, 50)}
	if got := EffectiveStatus(pendingFuture, now); got != StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}

	taken := Schedule{Status: StatusTaken, ScheduledAt: day(2026, 1, 5, 10, 10)}
	if got := EffectiveStatus(taken, now); got != StatusTaken {
		t.Fatalf("expected taken, got %s", got)
	}
}
