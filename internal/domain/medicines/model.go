package medicines

import "time"

// Medicine es la definición de un tratamiento: duración del curso, frecuencia
// e instrucciones. De aquí el generador deriva las tomas concretas (schedules).
type Medicine struct {
	ID        string
	ProfileID string

	Name string
	Dose string // texto libre: "200mg", "5ml"

	DoctorName         string
	CustomInstructions string

	CourseDays  int
	Instruction Instruction

	FrequencyType  FrequencyType
	FrequencyValue int
	FixedTimes     []string // solo para fixed_times; largo == FrequencyValue

	StartDate time.Time
	EndDate   *time.Time // se setea al detener la medicina

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
