package profiles

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Profile
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Profile{}}
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context) ([]Profile, error) {
	out := make([]Profile, 0)
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_ValidatesClocks(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), CreateInput{
		Name:      "Mamá",
		WakeTime:  "07:00",
		SleepTime: "22:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}

	bad := []CreateInput{
		{Name: "", WakeTime: "07:00", SleepTime: "22:00"},
		{Name: "Mamá", WakeTime: "7am", SleepTime: "22:00"},
		{Name: "Mamá", WakeTime: "07:00", SleepTime: "25:00"},
		{Name: "Mamá", WakeTime: "07:00", SleepTime: ""},
	}
	for _, in := range bad {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestService_Create_AllowsOvernightSleep(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	// Dormir "antes" de despertar es válido: la ventana cruza medianoche.
	if _, err := svc.Create(context.Background(), CreateInput{
		Name:      "Abuelo",
		WakeTime:  "20:00",
		SleepTime: "02:00",
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestService_Update_ReplacesAllFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now1 := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	now2 := now1.Add(2 * time.Hour)

	svc.now = func() time.Time { return now1 }
	p, err := svc.Create(context.Background(), CreateInput{
		Name:      "Mamá",
		WakeTime:  "07:00",
		SleepTime: "22:00",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{
		Name:      "Mamá Rosa",
		WakeTime:  "06:30",
		SleepTime: "21:30",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != "Mamá Rosa" || updated.WakeTime != "06:30" || updated.SleepTime != "21:30" {
		t.Fatalf("expected fields replaced, got %+v", updated)
	}
	if updated.CreatedAt != now1 {
		t.Fatalf("expected CreatedAt preserved")
	}
	if updated.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt bumped")
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:05")
	if err != nil || h != 7 || m != 5 {
		t.Fatalf("expected 7:05, got %d:%d err=%v", h, m, err)
	}

	for _, bad := range []string{"", "7am", "24:00", "07:60", "7:5"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
