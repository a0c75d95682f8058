package schedules

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusTaken   Status = "taken"
	StatusSkipped Status = "skipped"

	// StatusOverdue es derivado: una toma pending cuya hora ya pasó.
	// Nunca se persiste; se calcula al leer con EffectiveStatus.
	StatusOverdue Status = "overdue"
)

// Schedule es una toma concreta: una dosis que vence en un instante puntual.
// MedicineName y Dose son snapshots tomados al generar, para que el historial
// siga siendo fiel aunque la medicina se edite después.
type Schedule struct {
	ID         string
	MedicineID string
	ProfileID  string

	ScheduledAt time.Time

	Status        Status
	ActualTakenAt *time.Time

	MedicineName string
	Dose         string

	// Notified marca que el barrido en segundo plano ya emitió la
	// notificación de esta toma; garantiza que no se repita.
	Notified bool
}

// EffectiveStatus aplica la reclasificación de lectura: pending con hora
// vencida se muestra como overdue. El estado guardado no cambia.
func EffectiveStatus(s Schedule, now time.Time) Status {
	if s.Status == StatusPending && s.ScheduledAt.Before(now) {
		return StatusOverdue
	}
	return s.Status
}
