package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/profiles/{profileID}/reports/adherence", adherenceReportHandler(svc))
}

// adherenceReportHandler godoc
// @Summary Reporte de adherencia por rango de fechas
// @Description Devuelve la adherencia del perfil en [from, to] (YYYY-MM-DD, ambos incluidos) con el detalle por día. Sin parámetros usa los últimos 7 días.
// @Tags reports
// @Produce json
// @Param profileID path string true "ID del perfil"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} AdherenceReport
// @Failure 400 {string} string
// @Router /profiles/{profileID}/reports/adherence [get]
func adherenceReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := svc.now()
		from := now.AddDate(0, 0, -6)
		to := now

		if raw := r.URL.Query().Get("from"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
			if err != nil {
				http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			from = parsed
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
			if err != nil {
				http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			to = parsed
		}

		report, err := svc.Adherence(r.Context(), chi.URLParam(r, "profileID"), from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(report)
	}
}
