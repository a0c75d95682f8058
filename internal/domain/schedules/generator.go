package schedules

import (
	"math"
	"sort"
	"time"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/profiles"

	"github.com/google/uuid"
)

// Cutoff decide desde cuándo se conservan las tomas generadas.
type Cutoff int

const (
	// CutoffStartOfDay se usa en el alta: incluye también las tomas de hoy
	// que ya pasaron, para que el día se vea completo en el tablero.
	CutoffStartOfDay Cutoff = iota

	// CutoffNow se usa al editar: no resucita tomas que ya quedaron atrás.
	CutoffNow
)

// Generate deriva las tomas concretas de una medicina dentro de la ventana de
// vigilia del perfil. Es una función pura: no toca el store y recibe el reloj.
//
// Reglas, por combinación de instrucción y frecuencia:
//   - before_sleep pisa la frecuencia: una toma por día a la hora de dormir.
//   - fixed_times: las horas configuradas tal cual, sin buffer.
//   - every_x_hours / times_a_day: ventana activa acotada por hora de
//     despertar y de dormir, con un buffer de 1 hora a cada lado salvo
//     empty_stomach. Si la hora de dormir es menor que la de despertar la
//     ventana cruza medianoche y el fin cae al día siguiente.
//
// Toda la aritmética es de reloj local; no hay corrección de DST ni de zona.
func Generate(med medicines.Medicine, prof profiles.Profile, now time.Time, cutoff Cutoff) []Schedule {
	wakeHour, _, errW := profiles.ParseClock(prof.WakeTime)
	sleepHour, sleepMinute, errS := profiles.ParseClock(prof.SleepTime)
	if errW != nil || errS != nil {
		return nil
	}

	start := med.StartDate
	courseEnd := start.AddDate(0, 0, med.CourseDays)

	var doseTimes []time.Time

	switch {
	case med.Instruction == medicines.InstructionBeforeSleep:
		for day := 0; day < med.CourseDays; day++ {
			d := start.AddDate(0, 0, day)
			doseTimes = append(doseTimes, at(d, sleepHour, sleepMinute))
		}

	case med.FrequencyType == medicines.FrequencyFixedTimes:
		for day := 0; day < med.CourseDays; day++ {
			d := start.AddDate(0, 0, day)
			for _, ft := range med.FixedTimes {
				h, m, err := profiles.ParseClock(ft)
				if err != nil {
					continue
				}
				doseTimes = append(doseTimes, at(d, h, m))
			}
		}

	default:
		startHour := wakeHour
		endHour := sleepHour
		if med.Instruction != medicines.InstructionEmptyStomach {
			// Buffer de 1 hora a cada lado de la ventana. Solo horas: los
			// minutos de despertar/dormir no participan en estas frecuencias.
			startHour++
			endHour--
		}

		if med.FrequencyType == medicines.FrequencyEveryXHours {
			if med.FrequencyValue <= 0 {
				break
			}
			step := time.Duration(med.FrequencyValue) * time.Hour
			for day := 0; day < med.CourseDays; day++ {
				d := start.AddDate(0, 0, day)
				t := at(d, startHour, 0)

				endDay := d
				if endHour < startHour {
					endDay = d.AddDate(0, 0, 1) // ventana nocturna
				}
				windowEnd := at(endDay, endHour, 0)

				for !t.After(windowEnd) && t.Before(courseEnd) {
					doseTimes = append(doseTimes, t)
					t = t.Add(step)
				}
			}
		} else { // times_a_day
			effectiveEnd := endHour
			if effectiveEnd < startHour {
				effectiveEnd += 24
			}
			durationHours := effectiveEnd - startHour
			if med.FrequencyValue <= 0 || durationHours <= 0 {
				break
			}

			// Cada toma va al punto medio de su subintervalo, para repartir
			// parejo en vez de amontonar al inicio de la ventana.
			intervalMin := float64(durationHours*60) / float64(med.FrequencyValue)
			for day := 0; day < med.CourseDays; day++ {
				windowStart := at(start.AddDate(0, 0, day), startHour, 0)
				for i := 0; i < med.FrequencyValue; i++ {
					offset := float64(i)*intervalMin + intervalMin/2
					t := windowStart.Add(time.Duration(math.Round(offset)) * time.Minute)
					doseTimes = append(doseTimes, t)
				}
			}
		}
	}

	cut := now
	if cutoff == CutoffStartOfDay {
		cut = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	out := make([]Schedule, 0, len(doseTimes))
	seen := make(map[int64]struct{}, len(doseTimes))
	for _, t := range doseTimes {
		if t.Before(cut) || !t.Before(courseEnd) {
			continue
		}
		// Invariante: una sola toma por (medicina, hora).
		if _, dup := seen[t.Unix()]; dup {
			continue
		}
		seen[t.Unix()] = struct{}{}

		out = append(out, Schedule{
			ID:           uuid.NewString(),
			MedicineID:   med.ID,
			ProfileID:    med.ProfileID,
			ScheduledAt:  t,
			Status:       StatusPending,
			MedicineName: med.Name,
			Dose:         med.Dose,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out
}

// at arma un instante con la fecha de d y el reloj dado. Horas fuera de rango
// (p.ej. -1 por el buffer sobre un perfil que duerme a las 00:30) se
// normalizan hacia el día contiguo.
func at(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}
