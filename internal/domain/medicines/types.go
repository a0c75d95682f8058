package medicines

// Instruction indica cómo debe tomarse la medicina respecto a comidas/sueño.
type Instruction string

const (
	InstructionBeforeFood   Instruction = "before_food"
	InstructionAfterFood    Instruction = "after_food"
	InstructionWithFood     Instruction = "with_food"
	InstructionEmptyStomach Instruction = "empty_stomach"
	InstructionBeforeSleep  Instruction = "before_sleep"
)

func ValidInstruction(i Instruction) bool {
	switch i {
	case InstructionBeforeFood, InstructionAfterFood, InstructionWithFood,
		InstructionEmptyStomach, InstructionBeforeSleep:
		return true
	}
	return false
}

// FrequencyType define cómo se interpreta FrequencyValue.
type FrequencyType string

const (
	FrequencyTimesADay   FrequencyType = "times_a_day"   // N tomas por día, repartidas en la ventana de vigilia
	FrequencyEveryXHours FrequencyType = "every_x_hours" // una toma cada N horas dentro de la ventana
	FrequencyFixedTimes  FrequencyType = "fixed_times"   // lista explícita de horas HH:MM
)

func ValidFrequencyType(f FrequencyType) bool {
	switch f {
	case FrequencyTimesADay, FrequencyEveryXHours, FrequencyFixedTimes:
		return true
	}
	return false
}

type Status string

const (
	StatusActive  Status = "active"
	StatusStopped Status = "stopped" // terminal: no se generan más tomas
)
