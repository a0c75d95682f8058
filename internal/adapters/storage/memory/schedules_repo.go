package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"medicine-reminder/internal/domain/schedules"
)

type scheduleRepo struct {
	mu   sync.RWMutex
	byID map[string]schedules.Schedule
}

func NewScheduleRepo() schedules.Repository {
	return &scheduleRepo{
		byID: make(map[string]schedules.Schedule),
	}
}

func (r *scheduleRepo) Create(ctx context.Context, s schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("schedule already exists")
	}

	// Una medicina no puede tener dos tomas en el mismo instante.
	for _, other := range r.byID {
		if other.MedicineID == s.MedicineID && other.ScheduledAt.Equal(s.ScheduledAt) {
			return errors.New("schedule already exists for that time")
		}
	}

	r.byID[s.ID] = s
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return schedules.Schedule{}, ErrNotFound
	}
	return s, nil
}

func (r *scheduleRepo) ListByProfile(ctx context.Context, profileID string) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)
	for _, s := range r.byID {
		if s.ProfileID == profileID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *scheduleRepo) ListByMedicine(ctx context.Context, medicineID string) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)
	for _, s := range r.byID {
		if s.MedicineID == medicineID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *scheduleRepo) ListByRange(ctx context.Context, profileID string, from, to time.Time) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)
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

func (r *scheduleRepo) Update(ctx context.Context, s schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; !exists {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *scheduleRepo) DeleteByMedicine(ctx context.Context, medicineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.MedicineID == medicineID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *scheduleRepo) DeleteByProfile(ctx context.Context, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.ProfileID == profileID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *scheduleRepo) DeleteFuturePending(ctx context.Context, medicineID string, after time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.MedicineID == medicineID && s.Status == schedules.StatusPending && s.ScheduledAt.After(after) {
			delete(r.byID, id)
		}
	}
	return nil
}
