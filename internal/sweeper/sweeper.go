package sweeper

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"medicine-reminder/internal/domain/schedules"
	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/platform/metrics"
	"medicine-reminder/internal/ports/notify"
)

const (
	defaultAlarmInterval = 15 * time.Second
	defaultAlarmWindow   = 5 * time.Minute

	defaultNotifyInterval = 60 * time.Second
	defaultNotifyWindow   = 1 * time.Minute
)

// Sweeper corre los dos barridos periódicos sobre el perfil activo:
//
//   - alarma: cada 15s busca tomas pendientes vencidas en los últimos 5
//     minutos y levanta a lo sumo UNA alarma en primer plano.
//   - notificación: cada 60s busca tomas vencidas en el último minuto que
//     todavía no fueron notificadas, entrega el aviso y las marca. La marca
//     se escribe recién después de una entrega exitosa, así un fallo se
//     reintenta en el próximo barrido y un éxito no se repite nunca.
type Sweeper struct {
	scheds   *schedules.Service
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time

	alarmInterval  time.Duration
	alarmWindow    time.Duration
	notifyInterval time.Duration
	notifyWindow   time.Duration

	mu            sync.Mutex
	activeProfile string
	alarm         *schedules.Schedule
}

type Options struct {
	// Intervalos y ventanas; cero usa los defaults.
	AlarmInterval  time.Duration
	AlarmWindow    time.Duration
	NotifyInterval time.Duration
	NotifyWindow   time.Duration

	// Now permite inyectar el reloj en tests.
	Now func() time.Time
}

func New(scheds *schedules.Service, notifier notify.Notifier, log logger.Logger, opts Options) *Sweeper {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	s := &Sweeper{
		scheds:         scheds,
		notifier:       notifier,
		log:            log,
		now:            opts.Now,
		alarmInterval:  opts.AlarmInterval,
		alarmWindow:    opts.AlarmWindow,
		notifyInterval: opts.NotifyInterval,
		notifyWindow:   opts.NotifyWindow,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.alarmInterval <= 0 {
		s.alarmInterval = defaultAlarmInterval
	}
	if s.alarmWindow <= 0 {
		s.alarmWindow = defaultAlarmWindow
	}
	if s.notifyInterval <= 0 {
		s.notifyInterval = defaultNotifyInterval
	}
	if s.notifyWindow <= 0 {
		s.notifyWindow = defaultNotifyWindow
	}
	return s
}

// Start lanza los dos loops y los corta cuando el contexto se cancela.
func (s *Sweeper) Start(ctx context.Context) {
	go s.loop(ctx, "alarm", s.alarmInterval, s.sweepAlarm)
	go s.loop(ctx, "notify", s.notifyInterval, s.sweepNotify)
}

func (s *Sweeper) loop(ctx context.Context, name string, interval time.Duration, sweep func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SweepsTotal.WithLabelValues(name).Inc()
			sweep(ctx)
		}
	}
}

// Activate cambia el perfil activo. La alarma vigente se descarta: era del
// perfil anterior.
func (s *Sweeper) Activate(profileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeProfile == profileID {
		return
	}
	s.activeProfile = profileID
	s.alarm = nil
}

// ActiveProfile devuelve el perfil activo actual ("" si no hay).
func (s *Sweeper) ActiveProfile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProfile
}

// ActiveAlarm devuelve la alarma vigente, si hay.
func (s *Sweeper) ActiveAlarm() (schedules.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.alarm == nil {
		return schedules.Schedule{}, false
	}
	return *s.alarm, true
}

// Acknowledge despeja la alarma si corresponde a esa toma. Se llama al
// resolver la toma (take/skip); una toma resuelta no vuelve a alarmar.
func (s *Sweeper) Acknowledge(scheduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.alarm != nil && s.alarm.ID == scheduleID {
		s.alarm = nil
	}
}

// sweepAlarm busca la toma pendiente vencida más antigua dentro de la
// ventana y la levanta como alarma. Si ya hay una alarma vigente, no hace
// nada: una a la vez.
func (s *Sweeper) sweepAlarm(ctx context.Context) {
	s.mu.Lock()
	profileID := s.activeProfile
	busy := s.alarm != nil
	s.mu.Unlock()

	if profileID == "" || busy {
		return
	}

	now := s.now()
	due, err := s.dueSchedules(ctx, profileID, now.Add(-s.alarmWindow), now)
	if err != nil {
		metrics.SweepErrorsTotal.WithLabelValues("alarm").Inc()
		s.log.Error("alarm sweep failed", map[string]any{"error": err.Error(), "profile_id": profileID})
		return
	}
	if len(due) == 0 {
		return
	}

	next := due[0]

	s.mu.Lock()
	// El perfil pudo cambiar durante la consulta; la alarma sería ajena.
	if s.activeProfile == profileID && s.alarm == nil {
		s.alarm = &next
		metrics.AlarmsRaisedTotal.Inc()
		s.log.Info("alarm raised", map[string]any{
			"schedule_id": next.ID,
			"medicine":    next.MedicineName,
			"due_at":      next.ScheduledAt.Format(time.RFC3339),
		})
	}
	s.mu.Unlock()
}

// sweepNotify entrega la notificación de cada toma vencida no notificada
// dentro de la ventana y la marca. El orden marca-después-de-entregar hace
// que la garantía sea "al menos una vez" ante fallos y "una sola vez" en el
// camino feliz.
func (s *Sweeper) sweepNotify(ctx context.Context) {
	s.mu.Lock()
	profileID := s.activeProfile
	s.mu.Unlock()

	if profileID == "" {
		return
	}

	now := s.now()
	due, err := s.dueSchedules(ctx, profileID, now.Add(-s.notifyWindow), now)
	if err != nil {
		metrics.SweepErrorsTotal.WithLabelValues("notify").Inc()
		s.log.Error("notify sweep failed", map[string]any{"error": err.Error(), "profile_id": profileID})
		return
	}

	for _, d := range due {
		if d.Notified {
			continue
		}

		n := notify.Notification{
			ScheduleID: d.ID,
			ProfileID:  d.ProfileID,
			Title:      fmt.Sprintf("Time for %s!", d.MedicineName),
			Body:       fmt.Sprintf("It's time for your %s of %s.", d.Dose, d.MedicineName),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			s.log.Warn("notification delivery failed", map[string]any{"schedule_id": d.ID, "error": err.Error()})
			continue
		}
		if err := s.scheds.MarkNotified(ctx, d.ID); err != nil {
			s.log.Error("mark notified failed", map[string]any{"schedule_id": d.ID, "error": err.Error()})
			continue
		}
		metrics.NotificationsSentTotal.Inc()
	}
}

// dueSchedules devuelve las tomas pendientes con hora en [from, to],
// ordenadas de más antigua a más nueva.
func (s *Sweeper) dueSchedules(ctx context.Context, profileID string, from, to time.Time) ([]schedules.Schedule, error) {
	items, err := s.scheds.ListRange(ctx, profileID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]schedules.Schedule, 0, len(items))
	for _, it := range items {
		if it.Status == schedules.StatusPending {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}
