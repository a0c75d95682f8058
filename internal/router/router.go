package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "medicine-reminder/internal/adapters/storage/memory"
	pg "medicine-reminder/internal/adapters/storage/postgres"
	lite "medicine-reminder/internal/adapters/storage/sqlite"
	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/profiles"
	"medicine-reminder/internal/domain/reports"
	"medicine-reminder/internal/domain/schedules"
	"medicine-reminder/internal/middleware"
	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/platform/metrics"
	"medicine-reminder/internal/ports/notify"
	"medicine-reminder/internal/sweeper"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "medicine-reminder/docs" // swagger generado
)

type Options struct {
	Log logger.Logger

	// Canal de notificaciones del sweeper; nil => descarta.
	Notifier notify.Notifier

	// Opcional: si viene, usa Postgres directamente.
	DB *sql.DB

	// Opcional: overrides del sweeper (tests); cero usa defaults.
	Sweep sweeper.Options
}

// NewRouter arma repos, services, rutas y el sweeper. El sweeper se devuelve
// sin arrancar; main decide el ciclo de vida.
func NewRouter(opts Options) (http.Handler, *sweeper.Sweeper) {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		profileRepo  profiles.Repository
		medicineRepo medicines.Repository
		scheduleRepo schedules.Repository
	)

	// Selección de storage: Postgres explícito o por env, si no SQLite por
	// env, si no in-memory (dev).
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Warn("postgres unavailable, falling back", map[string]any{"error": err.Error()})
			} else {
				db = opened
			}
		}
	}

	switch {
	case db != nil:
		profileRepo = pg.NewProfilesRepo(db)
		medicineRepo = pg.NewMedicinesRepo(db)
		scheduleRepo = pg.NewSchedulesRepo(db)
	case os.Getenv("SQLITE_PATH") != "":
		sdb, err := lite.Open(os.Getenv("SQLITE_PATH"))
		if err != nil {
			log.Error("sqlite open failed, using in-memory store", map[string]any{"error": err.Error()})
			profileRepo = mem.NewProfileRepo()
			medicineRepo = mem.NewMedicineRepo()
			scheduleRepo = mem.NewScheduleRepo()
			break
		}
		profileRepo = lite.NewProfilesRepo(sdb)
		medicineRepo = lite.NewMedicinesRepo(sdb)
		scheduleRepo = lite.NewSchedulesRepo(sdb)
	default:
		profileRepo = mem.NewProfileRepo()
		medicineRepo = mem.NewMedicineRepo()
		scheduleRepo = mem.NewScheduleRepo()
	}

	// Services por módulo
	profilesSvc := profiles.NewService(profileRepo)
	medicinesSvc := medicines.NewService(medicineRepo)
	schedulesSvc := schedules.NewService(scheduleRepo)
	reportsSvc := reports.NewService(schedulesSvc)

	sw := sweeper.New(schedulesSvc, opts.Notifier, log, opts.Sweep)

	// Rutas por módulo
	profiles.RegisterRoutes(r, profilesSvc, medicinesSvc, schedulesSvc, sw)
	medicines.RegisterRoutes(r, medicinesSvc, profilesSvc, schedulesSvc)
	schedules.RegisterRoutes(r, schedulesSvc, medicinesSvc, profilesSvc, sw)
	reports.RegisterRoutes(r, reportsSvc)

	return r, sw
}
