package reports

import (
	"context"
	"errors"
	"sort"
	"time"

	"medicine-reminder/internal/domain/schedules"
)

var ErrInvalidInput = errors.New("invalid input")

// ScheduleSource es lo que el reporte necesita del módulo de tomas.
type ScheduleSource interface {
	ListRange(ctx context.Context, profileID string, from, to time.Time) ([]schedules.Schedule, error)
}

type Service struct {
	source ScheduleSource
	now    func() time.Time
}

func NewService(source ScheduleSource) *Service {
	return &Service{
		source: source,
		now:    time.Now,
	}
}

// DayReport resume las tomas de un día calendario.
type DayReport struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Taken     int    `json:"taken"`
	Skipped   int    `json:"skipped"`
	Overdue   int    `json:"overdue"`
	Pending   int    `json:"pending"`
	Adherence float64 `json:"adherence"`
}

// AdherenceReport es el reporte del rango completo más el detalle por día.
type AdherenceReport struct {
	From      string      `json:"from"`
	To        string      `json:"to"`
	Adherence float64     `json:"adherence"`
	Days      []DayReport `json:"days"`
}

// Adherence arma el reporte de adherencia para [from, to], ambos días
// incluidos. Los días sin tomas no aparecen en el detalle.
func (s *Service) Adherence(ctx context.Context, profileID string, from, to time.Time) (AdherenceReport, error) {
	if profileID == "" || to.Before(from) {
		return AdherenceReport{}, ErrInvalidInput
	}

	// El rango se expande a días calendario completos en hora local.
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())

	items, err := s.source.ListRange(ctx, profileID, start, end)
	if err != nil {
		return AdherenceReport{}, err
	}

	now := s.now()
	byDay := make(map[string]*DayReport)
	for _, it := range items {
		key := it.ScheduledAt.Format("2006-01-02")
		day, ok := byDay[key]
		if !ok {
			day = &DayReport{Date: key}
			byDay[key] = day
		}
		switch schedules.EffectiveStatus(it, now) {
		case schedules.StatusTaken:
			day.Taken++
		case schedules.StatusSkipped:
			day.Skipped++
		case schedules.StatusOverdue:
			day.Overdue++
		default:
			day.Pending++
		}
	}

	report := AdherenceReport{
		From:      start.Format("2006-01-02"),
		To:        end.Format("2006-01-02"),
		Adherence: schedules.AdherenceOf(items, now),
		Days:      make([]DayReport, 0, len(byDay)),
	}
	for _, day := range byDay {
		day.Adherence = dayAdherence(*day)
		report.Days = append(report.Days, *day)
	}
	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date < report.Days[j].Date
	})
	return report, nil
}

// dayAdherence replica la fórmula global a escala de un día: tomadas sobre
// tomadas + salteadas + vencidas. Las pendientes a futuro no cuentan.
func dayAdherence(d DayReport) float64 {
	due := d.Taken + d.Skipped + d.Overdue
	if due == 0 {
		return 100
	}
	return float64(d.Taken) / float64(due) * 100
}
