package medicines

import (
	"context"
	"errors"
	"strings"
	"time"

	"medicine-reminder/internal/domain/profiles"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStopped      = errors.New("medicine already stopped")
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

// Definition agrupa los campos que el cuidador edita en el formulario.
// Tanto el alta como la edición reemplazan la definición completa.
type Definition struct {
	Name               string
	Dose               string
	DoctorName         string
	CustomInstructions string
	CourseDays         int
	Instruction        Instruction
	FrequencyType      FrequencyType
	FrequencyValue     int
	FixedTimes         []string
}

func validateDefinition(in Definition) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Dose) == "" {
		return ErrInvalidInput
	}
	if in.CourseDays <= 0 {
		return ErrInvalidInput
	}
	if !ValidInstruction(in.Instruction) {
		return ErrInvalidInput
	}
	if !ValidFrequencyType(in.FrequencyType) {
		return ErrInvalidInput
	}
	if in.FrequencyValue <= 0 {
		return ErrInvalidInput
	}
	if in.FrequencyType == FrequencyFixedTimes {
		// Para fixed_times la cantidad de horas debe coincidir con la frecuencia.
		if len(in.FixedTimes) != in.FrequencyValue {
			return ErrInvalidInput
		}
		for _, ft := range in.FixedTimes {
			if _, _, err := profiles.ParseClock(ft); err != nil {
				return ErrInvalidInput
			}
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, profileID string, in Definition) (Medicine, error) {
	if strings.TrimSpace(profileID) == "" {
		return Medicine{}, ErrInvalidInput
	}
	if err := validateDefinition(in); err != nil {
		return Medicine{}, err
	}

	now := s.now()

	var fixed []string
	if in.FrequencyType == FrequencyFixedTimes {
		fixed = in.FixedTimes
	}

	m := Medicine{
		ID:                 uuid.NewString(),
		ProfileID:          profileID,
		Name:               strings.TrimSpace(in.Name),
		Dose:               strings.TrimSpace(in.Dose),
		DoctorName:         strings.TrimSpace(in.DoctorName),
		CustomInstructions: strings.TrimSpace(in.CustomInstructions),
		CourseDays:         in.CourseDays,
		Instruction:        in.Instruction,
		FrequencyType:      in.FrequencyType,
		FrequencyValue:     in.FrequencyValue,
		FixedTimes:         fixed,
		StartDate:          now,
		Status:             StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

// Update persiste la edición y reporta si hubo un cambio mayor: un cambio en
// los campos que invalidan las tomas futuras ya generadas. Ediciones
// cosméticas (nombre del doctor, instrucciones libres) no regeneran nada.
func (s *Service) Update(ctx context.Context, id string, in Definition) (Medicine, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, false, ErrInvalidInput
	}
	if err := validateDefinition(in); err != nil {
		return Medicine{}, false, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, false, err
	}
	if current.Status == StatusStopped {
		return Medicine{}, false, ErrStopped
	}

	major := hasMajorChange(current, in)

	var fixed []string
	if in.FrequencyType == FrequencyFixedTimes {
		fixed = in.FixedTimes
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Dose = strings.TrimSpace(in.Dose)
	current.DoctorName = strings.TrimSpace(in.DoctorName)
	current.CustomInstructions = strings.TrimSpace(in.CustomInstructions)
	current.CourseDays = in.CourseDays
	current.Instruction = in.Instruction
	current.FrequencyType = in.FrequencyType
	current.FrequencyValue = in.FrequencyValue
	current.FixedTimes = fixed
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Medicine{}, false, err
	}
	return current, major, nil
}

// hasMajorChange compara contra el set de campos que afectan la dosificación:
// name, dose, courseDays, instruction, frequencyType, frequencyValue y la
// lista de horas fijas.
func hasMajorChange(current Medicine, in Definition) bool {
	if current.Name != strings.TrimSpace(in.Name) {
		return true
	}
	if current.Dose != strings.TrimSpace(in.Dose) {
		return true
	}
	if current.CourseDays != in.CourseDays {
		return true
	}
	if current.Instruction != in.Instruction {
		return true
	}
	if current.FrequencyType != in.FrequencyType {
		return true
	}
	if current.FrequencyValue != in.FrequencyValue {
		return true
	}
	if in.FrequencyType == FrequencyFixedTimes && !equalTimes(current.FixedTimes, in.FixedTimes) {
		return true
	}
	return false
}

func equalTimes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Stop marca la medicina como detenida con fecha de fin. Es terminal e
// idempotente: detener una medicina ya detenida no cambia nada.
func (s *Service) Stop(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, err
	}
	if current.Status == StatusStopped {
		return current, nil
	}

	now := s.now()
	current.Status = StatusStopped
	current.EndDate = &now
	current.UpdatedAt = now

	if err := s.repo.Update(ctx, current); err != nil {
		return Medicine{}, err
	}
	return current, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListByProfile incluye medicinas detenidas: el historial las necesita.
func (s *Service) ListByProfile(ctx context.Context, profileID string) ([]Medicine, error) {
	return s.repo.ListByProfile(ctx, profileID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteByProfile(ctx context.Context, profileID string) error {
	return s.repo.DeleteByProfile(ctx, profileID)
}
