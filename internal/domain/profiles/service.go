package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

type CreateInput struct {
	Name        string
	DateOfBirth *time.Time
	WakeTime    string
	SleepTime   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Profile, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Profile{}, ErrInvalidInput
	}
	if _, _, err := ParseClock(in.WakeTime); err != nil {
		return Profile{}, ErrInvalidInput
	}
	if _, _, err := ParseClock(in.SleepTime); err != nil {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()
	p := Profile{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		DateOfBirth: in.DateOfBirth,
		WakeTime:    in.WakeTime,
		SleepTime:   in.SleepTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdateInput reemplaza el perfil completo (el formulario del cuidador
// siempre envía todos los campos).
type UpdateInput struct {
	Name        string
	DateOfBirth *time.Time
	WakeTime    string
	SleepTime   string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Profile{}, ErrInvalidInput
	}
	if _, _, err := ParseClock(in.WakeTime); err != nil {
		return Profile{}, ErrInvalidInput
	}
	if _, _, err := ParseClock(in.SleepTime); err != nil {
		return Profile{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.DateOfBirth = in.DateOfBirth
	current.WakeTime = in.WakeTime
	current.SleepTime = in.SleepTime
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Profile{}, err
	}
	return current, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

// Delete borra solo el registro del perfil. El borrado en cascada
// (schedules -> medicines -> profile) lo ordena el handler, no el store.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
