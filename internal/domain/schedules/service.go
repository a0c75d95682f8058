package schedules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/profiles"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrResolved: la toma ya fue marcada taken o skipped; son estados terminales.
	ErrResolved = errors.New("schedule already resolved")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Plan genera e inserta las tomas de una medicina recién dada de alta.
// Corte al inicio del día: las tomas de hoy que ya pasaron también entran.
func (s *Service) Plan(ctx context.Context, med medicines.Medicine, prof profiles.Profile) (int, error) {
	items := Generate(med, prof, s.now(), CutoffStartOfDay)
	return s.insertAll(ctx, items)
}

// Regenerate aplica la política de regeneración tras un cambio mayor:
// borra las tomas futuras aún pendientes y genera de nuevo con corte "desde
// ahora". Las tomas pasadas o resueltas quedan intactas para el historial.
func (s *Service) Regenerate(ctx context.Context, med medicines.Medicine, prof profiles.Profile) (int, error) {
	now := s.now()
	if err := s.repo.DeleteFuturePending(ctx, med.ID, now); err != nil {
		return 0, fmt.Errorf("delete future schedules: %w", err)
	}
	items := Generate(med, prof, now, CutoffNow)
	return s.insertAll(ctx, items)
}

// CleanupStopped borra las tomas futuras pendientes de una medicina detenida.
func (s *Service) CleanupStopped(ctx context.Context, medicineID string) error {
	medicineID = strings.TrimSpace(medicineID)
	if medicineID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteFuturePending(ctx, medicineID, s.now())
}

// insertAll inserta de a una; ante el primer error aborta y lo propaga. No hay
// atomicidad de lote: una corrida parcial se repara sola en la próxima
// regeneración porque la identidad lógica es (medicina, hora).
func (s *Service) insertAll(ctx context.Context, items []Schedule) (int, error) {
	for i, it := range items {
		if err := s.repo.Create(ctx, it); err != nil {
			return i, fmt.Errorf("insert schedule: %w", err)
		}
	}
	return len(items), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Schedule{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListToday devuelve las tomas del perfil entre el inicio de hoy y el de
// mañana, ordenadas por hora.
func (s *Service) ListToday(ctx context.Context, profileID string) ([]Schedule, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.ListRange(ctx, profileID, start, start.AddDate(0, 0, 1))
}

func (s *Service) ListRange(ctx context.Context, profileID string, from, to time.Time) ([]Schedule, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByRange(ctx, profileID, from, to)
	if err != nil {
		return nil, err
	}
	sortByTime(items)
	return items, nil
}

func (s *Service) ListByMedicine(ctx context.Context, medicineID string) ([]Schedule, error) {
	items, err := s.repo.ListByMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	sortByTime(items)
	return items, nil
}

// MarkTaken registra la toma. Solo se acepta sobre una toma pendiente
// (vencida o no); taken y skipped son terminales.
func (s *Service) MarkTaken(ctx context.Context, id string) (Schedule, error) {
	return s.resolve(ctx, id, StatusTaken)
}

func (s *Service) MarkSkipped(ctx context.Context, id string) (Schedule, error) {
	return s.resolve(ctx, id, StatusSkipped)
}

func (s *Service) resolve(ctx context.Context, id string, status Status) (Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Schedule{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if current.Status != StatusPending {
		return Schedule{}, ErrResolved
	}

	current.Status = status
	if status == StatusTaken {
		takenAt := s.now()
		current.ActualTakenAt = &takenAt
	} else {
		current.ActualTakenAt = nil
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return Schedule{}, err
	}
	return current, nil
}

// MarkNotified deja constancia de que la notificación ya salió. Idempotente.
func (s *Service) MarkNotified(ctx context.Context, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Notified {
		return nil
	}
	current.Notified = true
	return s.repo.Update(ctx, current)
}

// Adherence calcula la adhesión del día de hoy para el perfil.
func (s *Service) Adherence(ctx context.Context, profileID string) (float64, error) {
	items, err := s.ListToday(ctx, profileID)
	if err != nil {
		return 0, err
	}
	return AdherenceOf(items, s.now()), nil
}

func (s *Service) DeleteByMedicine(ctx context.Context, medicineID string) error {
	return s.repo.DeleteByMedicine(ctx, medicineID)
}

func (s *Service) DeleteByProfile(ctx context.Context, profileID string) error {
	return s.repo.DeleteByProfile(ctx, profileID)
}

func sortByTime(items []Schedule) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ScheduledAt.Before(items[j].ScheduledAt)
	})
}
