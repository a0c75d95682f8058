package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// MedicineWiper y ScheduleWiper evitan importar los paquetes medicines/schedules
// (rompe ciclos). El handler los usa para ordenar el borrado en cascada:
// primero schedules, después medicines, al final el perfil.
type MedicineWiper interface {
	DeleteByProfile(ctx context.Context, profileID string) error
}

type ScheduleWiper interface {
	DeleteByProfile(ctx context.Context, profileID string) error
}

// Activator arranca el barrido de notificaciones para el perfil activo.
// Cambiar de perfil activo reinicia el barrido con el nuevo id.
type Activator interface {
	Activate(profileID string)
}

func RegisterRoutes(r chi.Router, svc *Service, meds MedicineWiper, scheds ScheduleWiper, activator Activator) {
	r.Route("/profiles", func(pr chi.Router) {
		pr.Post("/", createProfileHandler(svc))
		pr.Get("/", listProfilesHandler(svc))
		pr.Get("/{profileID}", getProfileHandler(svc))
		pr.Put("/{profileID}", updateProfileHandler(svc))
		pr.Delete("/{profileID}", deleteProfileHandler(svc, meds, scheds))
		pr.Post("/{profileID}/activate", activateProfileHandler(svc, activator))
	})
}

type profileRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD opcional
	WakeTime    string `json:"wake_time"`     // HH:MM
	SleepTime   string `json:"sleep_time"`    // HH:MM
}

type profileResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	WakeTime    string     `json:"wake_time"`
	SleepTime   string     `json:"sleep_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// createProfileHandler godoc
// @Summary Crear perfil
// @Description Registra una persona bajo cuidado. wake_time/sleep_time en formato HH:MM (reloj local).
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body profileRequest true "Perfil"
// @Success 201 {object} profileResponse
// @Failure 400 {string} string
// @Router /profiles [post]
func createProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		dob, ok := parseDOB(w, req.DateOfBirth)
		if !ok {
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			DateOfBirth: dob,
			WakeTime:    req.WakeTime,
			SleepTime:   req.SleepTime,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toProfileResponse(p))
	}
}

func listProfilesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]profileResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		dob, ok := parseDOB(w, req.DateOfBirth)
		if !ok {
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "profileID"), UpdateInput{
			Name:        req.Name,
			DateOfBirth: dob,
			WakeTime:    req.WakeTime,
			SleepTime:   req.SleepTime,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "profile not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// deleteProfileHandler aplica la cascada en orden: tomas, medicinas, perfil.
// Si algo falla a mitad de camino el perfil queda; el cuidador puede reintentar.
func deleteProfileHandler(svc *Service, meds MedicineWiper, scheds ScheduleWiper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID := chi.URLParam(r, "profileID")

		if _, err := svc.GetByID(r.Context(), profileID); err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		if err := scheds.DeleteByProfile(r.Context(), profileID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := meds.DeleteByProfile(r.Context(), profileID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := svc.Delete(r.Context(), profileID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func activateProfileHandler(svc *Service, activator Activator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID := chi.URLParam(r, "profileID")

		if _, err := svc.GetByID(r.Context(), profileID); err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		activator.Activate(profileID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseDOB(w http.ResponseWriter, raw string) (*time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		Name:        p.Name,
		DateOfBirth: p.DateOfBirth,
		WakeTime:    p.WakeTime,
		SleepTime:   p.SleepTime,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
