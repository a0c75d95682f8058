package profiles

import "time"

// Profile representa a una persona bajo cuidado (un familiar, un paciente a cargo).
// WakeTime y SleepTime definen la ventana de vigilia que usa el generador de tomas.
// Se guardan como reloj local "HH:MM", sin zona horaria: todo el sistema trabaja
// con hora de pared local.
type Profile struct {
	ID   string
	Name string

	DateOfBirth *time.Time

	WakeTime  string // "07:00"
	SleepTime string // "22:00"; si su hora es menor que la de WakeTime, la ventana cruza medianoche

	CreatedAt time.Time
	UpdatedAt time.Time
}
