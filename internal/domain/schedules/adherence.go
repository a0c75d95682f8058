package schedules

import "time"

// AdherenceOf calcula el porcentaje de adhesión sobre las tomas cuya hora ya
// pasó: taken / (taken + skipped + overdue). Sin tomas pasadas devuelve 100.
// No hay crédito parcial ni ponderación por medicina.
func AdherenceOf(items []Schedule, now time.Time) float64 {
	past := 0
	taken := 0
	for _, s := range items {
		if !s.ScheduledAt.Before(now) {
			continue
		}
		switch EffectiveStatus(s, now) {
		case StatusTaken:
			taken++
			past++
		case StatusSkipped, StatusOverdue:
			past++
		}
	}
	if past == 0 {
		return 100
	}
	return float64(taken) / float64(past) * 100
}
