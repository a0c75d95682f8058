package medicines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"medicine-reminder/internal/domain/profiles"

	"github.com/go-chi/chi/v5"
)

// SchedulePlanner es lo que este handler necesita del módulo de tomas. La
// interfaz vive del lado del consumidor para no importar el paquete schedules
// (rompe el ciclo medicines <-> schedules).
type SchedulePlanner interface {
	// Plan genera las tomas iniciales del curso y devuelve cuántas insertó.
	Plan(ctx context.Context, med Medicine, prof profiles.Profile) (int, error)
	// Regenerate reemplaza las tomas futuras pendientes tras un cambio mayor.
	Regenerate(ctx context.Context, med Medicine, prof profiles.Profile) (int, error)
	// CleanupStopped borra las tomas futuras no resueltas de una medicina detenida.
	CleanupStopped(ctx context.Context, medicineID string) error
	// DeleteByMedicine borra todas las tomas de la medicina (alta eliminada).
	DeleteByMedicine(ctx context.Context, medicineID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service, planner SchedulePlanner) {
	r.Route("/profiles/{profileID}/medicines", func(mr chi.Router) {
		mr.Post("/", createMedicineHandler(svc, profilesSvc, planner))
		mr.Get("/", listMedicinesHandler(svc))
	})

	r.Route("/medicines/{medicineID}", func(mr chi.Router) {
		mr.Get("/", getMedicineHandler(svc))
		mr.Put("/", updateMedicineHandler(svc, profilesSvc, planner))
		mr.Post("/stop", stopMedicineHandler(svc, planner))
		mr.Delete("/", deleteMedicineHandler(svc, planner))
	})
}

type medicineRequest struct {
	Name               string        `json:"name"`
	Dose               string        `json:"dose"`
	DoctorName         string        `json:"doctor_name"`
	CustomInstructions string        `json:"custom_instructions"`
	CourseDays         int           `json:"course_days"`
	Instruction        Instruction   `json:"instruction"`
	FrequencyType      FrequencyType `json:"frequency_type"`
	FrequencyValue     int           `json:"frequency_value"`
	FixedTimes         []string      `json:"fixed_times,omitempty"`
}

func (in medicineRequest) toDefinition() Definition {
	return Definition{
		Name:               in.Name,
		Dose:               in.Dose,
		DoctorName:         in.DoctorName,
		CustomInstructions: in.CustomInstructions,
		CourseDays:         in.CourseDays,
		Instruction:        in.Instruction,
		FrequencyType:      in.FrequencyType,
		FrequencyValue:     in.FrequencyValue,
		FixedTimes:         in.FixedTimes,
	}
}

type medicineResponse struct {
	ID                 string        `json:"id"`
	ProfileID          string        `json:"profile_id"`
	Name               string        `json:"name"`
	Dose               string        `json:"dose"`
	DoctorName         string        `json:"doctor_name,omitempty"`
	CustomInstructions string        `json:"custom_instructions,omitempty"`
	CourseDays         int           `json:"course_days"`
	Instruction        Instruction   `json:"instruction"`
	FrequencyType      FrequencyType `json:"frequency_type"`
	FrequencyValue     int           `json:"frequency_value"`
	FixedTimes         []string      `json:"fixed_times,omitempty"`
	StartDate          time.Time     `json:"start_date"`
	EndDate            *time.Time    `json:"end_date,omitempty"`
	Status             Status        `json:"status"`
	Planned            int           `json:"planned_schedules,omitempty"`
}

// createMedicineHandler godoc
// @Summary Dar de alta una medicina
// @Description Crea la medicina para el perfil y genera de inmediato las tomas de todo el curso. La respuesta incluye cuántas tomas se planificaron.
// @Tags medicines
// @Accept json
// @Produce json
// @Param profileID path string true "ID del perfil"
// @Param medicine body medicineRequest true "Definición de la medicina"
// @Success 201 {object} medicineResponse
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Router /profiles/{profileID}/medicines [post]
func createMedicineHandler(svc *Service, profilesSvc *profiles.Service, planner SchedulePlanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID := chi.URLParam(r, "profileID")

		prof, err := profilesSvc.GetByID(r.Context(), profileID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		var in medicineRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), profileID, in.toDefinition())
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		planned, err := planner.Plan(r.Context(), m, prof)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := toMedicineResponse(m)
		resp.Planned = planned
		writeJSON(w, http.StatusCreated, resp)
	}
}

func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByProfile(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicineResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicineResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicineID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

// updateMedicineHandler persiste la edición y, si hubo un cambio mayor,
// regenera las tomas futuras pendientes. Las tomas pasadas y las ya resueltas
// quedan como estaban.
func updateMedicineHandler(svc *Service, profilesSvc *profiles.Service, planner SchedulePlanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in medicineRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		m, major, err := svc.Update(r.Context(), chi.URLParam(r, "medicineID"), in.toDefinition())
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrStopped):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "medicine not found", http.StatusNotFound)
			}
			return
		}

		resp := toMedicineResponse(m)
		if major {
			prof, err := profilesSvc.GetByID(r.Context(), m.ProfileID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			planned, err := planner.Regenerate(r.Context(), m, prof)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			resp.Planned = planned
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// stopMedicineHandler detiene la medicina y limpia las tomas futuras no
// resueltas. El historial (tomadas, salteadas, vencidas pasadas) se conserva.
func stopMedicineHandler(svc *Service, planner SchedulePlanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medicineID := chi.URLParam(r, "medicineID")

		m, err := svc.Stop(r.Context(), medicineID)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		if err := planner.CleanupStopped(r.Context(), medicineID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func deleteMedicineHandler(svc *Service, planner SchedulePlanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medicineID := chi.URLParam(r, "medicineID")

		if _, err := svc.GetByID(r.Context(), medicineID); err != nil {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		// Primero las tomas, después la medicina: si algo falla a mitad no
		// quedan tomas huérfanas apuntando a una medicina borrada.
		if err := planner.DeleteByMedicine(r.Context(), medicineID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := svc.Delete(r.Context(), medicineID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicineResponse(m Medicine) medicineResponse {
	return medicineResponse{
		ID:                 m.ID,
		ProfileID:          m.ProfileID,
		Name:               m.Name,
		Dose:               m.Dose,
		DoctorName:         m.DoctorName,
		CustomInstructions: m.CustomInstructions,
		CourseDays:         m.CourseDays,
		Instruction:        m.Instruction,
		FrequencyType:      m.FrequencyType,
		FrequencyValue:     m.FrequencyValue,
		FixedTimes:         m.FixedTimes,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		Status:             m.Status,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
