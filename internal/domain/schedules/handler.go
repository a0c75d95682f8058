package schedules

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/profiles"

	"github.com/go-chi/chi/v5"
)

// AlarmBoard es la superficie de la alarma en primer plano que mantiene el
// sweeper: a lo sumo una alarma activa por vez. Se define acá como interfaz
// para no importar el paquete sweeper (rompe ciclos).
type AlarmBoard interface {
	ActiveAlarm() (Schedule, bool)
	Acknowledge(scheduleID string)
}

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medicines.Service, profilesSvc *profiles.Service, board AlarmBoard) {
	r.Route("/profiles/{profileID}/schedules", func(sr chi.Router) {
		sr.Get("/", listSchedulesHandler(svc))
		sr.Get("/today", listTodayHandler(svc))
		sr.Get("/adherence", adherenceHandler(svc))
	})

	r.Route("/schedules/{scheduleID}", func(sr chi.Router) {
		sr.Post("/take", resolveScheduleHandler(svc, board, StatusTaken))
		sr.Post("/skip", resolveScheduleHandler(svc, board, StatusSkipped))
		sr.Get("/share-text", shareTextHandler(svc, medsSvc, profilesSvc))
	})

	// Alarma activa del perfil en primer plano (si hay).
	r.Get("/alarm", activeAlarmHandler(board))
}

type scheduleResponse struct {
	ID            string     `json:"id"`
	MedicineID    string     `json:"medicine_id"`
	ProfileID     string     `json:"profile_id"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	Status        Status     `json:"status"` // estado efectivo: pending pasado se reporta overdue
	ActualTakenAt *time.Time `json:"actual_taken_at,omitempty"`
	MedicineName  string     `json:"medicine_name"`
	Dose          string     `json:"dose"`
	Notified      bool       `json:"notified"`
}

// listSchedulesHandler godoc
// @Summary Listar tomas por rango
// @Description Devuelve las tomas del perfil con hora dentro de [from, to] (RFC3339, ambos incluidos), ordenadas por hora. El estado pending con hora vencida se reporta como overdue.
// @Tags schedules
// @Produce json
// @Param profileID path string true "ID del perfil"
// @Param from query string true "RFC3339"
// @Param to query string true "RFC3339"
// @Success 200 {array} scheduleResponse
// @Failure 400 {string} string
// @Router /profiles/{profileID}/schedules [get]
func listSchedulesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
		if err != nil {
			http.Error(w, "from must be RFC3339", http.StatusBadRequest)
			return
		}
		to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, "to must be RFC3339", http.StatusBadRequest)
			return
		}

		items, err := svc.ListRange(r.Context(), chi.URLParam(r, "profileID"), from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeScheduleList(w, items, svc.now())
	}
}

func listTodayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListToday(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeScheduleList(w, items, svc.now())
	}
}

func adherenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pct, err := svc.Adherence(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"adherence": pct})
	}
}

// resolveScheduleHandler marca la toma (take/skip) y despeja la alarma activa
// si era esta. Una toma resuelta deja de aparecer en los barridos sola.
func resolveScheduleHandler(svc *Service, board AlarmBoard, status Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "scheduleID")

		var (
			updated Schedule
			err     error
		)
		if status == StatusTaken {
			updated, err = svc.MarkTaken(r.Context(), scheduleID)
		} else {
			updated, err = svc.MarkSkipped(r.Context(), scheduleID)
		}
		if err != nil {
			switch {
			case errors.Is(err, ErrResolved):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "schedule not found", http.StatusNotFound)
			}
			return
		}

		board.Acknowledge(updated.ID)
		writeJSON(w, http.StatusOK, toScheduleResponse(updated, svc.now()))
	}
}

func activeAlarmHandler(board AlarmBoard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := board.ActiveAlarm()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(s, time.Now()))
	}
}

// shareTextHandler arma el texto de recordatorio listo para compartir, con los
// snapshots de la toma más las instrucciones vivas de la medicina.
func shareTextHandler(svc *Service, medsSvc *medicines.Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.GetByID(r.Context(), chi.URLParam(r, "scheduleID"))
		if err != nil {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}

		var b strings.Builder
		name := "someone"
		if p, err := profilesSvc.GetByID(r.Context(), s.ProfileID); err == nil {
			name = p.Name
		}
		fmt.Fprintf(&b, "Reminder for %s:\n", name)
		fmt.Fprintf(&b, "- Medicine: %s\n", s.MedicineName)
		fmt.Fprintf(&b, "- Dose: %s\n", s.Dose)
		fmt.Fprintf(&b, "- Time: %s", s.ScheduledAt.Format("15:04"))

		// Las instrucciones no se snapshotean; se leen de la medicina viva.
		if m, err := medsSvc.GetByID(r.Context(), s.MedicineID); err == nil {
			if m.Instruction != "" {
				fmt.Fprintf(&b, "\n- Instruction: %s", m.Instruction)
			}
			if m.CustomInstructions != "" {
				fmt.Fprintf(&b, "\n- Usage: %s", m.CustomInstructions)
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{"text": b.String()})
	}
}

func writeScheduleList(w http.ResponseWriter, items []Schedule, now time.Time) {
	out := make([]scheduleResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toScheduleResponse(s, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func toScheduleResponse(s Schedule, now time.Time) scheduleResponse {
	return scheduleResponse{
		ID:            s.ID,
		MedicineID:    s.MedicineID,
		ProfileID:     s.ProfileID,
		ScheduledAt:   s.ScheduledAt,
		Status:        EffectiveStatus(s, now),
		ActualTakenAt: s.ActualTakenAt,
		MedicineName:  s.MedicineName,
		Dose:          s.Dose,
		Notified:      s.Notified,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
