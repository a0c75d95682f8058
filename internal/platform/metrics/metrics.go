package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contadores del motor de recordatorios. Se registran en el registry global
// de prometheus; /metrics los expone vía Handler.
var (
	SweepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medicine_reminder_sweeps_total",
		Help: "Barridos ejecutados, por loop (alarm|notify).",
	}, []string{"loop"})

	SweepErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medicine_reminder_sweep_errors_total",
		Help: "Barridos que fallaron consultando el store, por loop.",
	}, []string{"loop"})

	AlarmsRaisedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicine_reminder_alarms_raised_total",
		Help: "Alarmas en primer plano levantadas.",
	})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicine_reminder_notifications_sent_total",
		Help: "Notificaciones entregadas y marcadas como notificadas.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicine_reminder_notification_failures_total",
		Help: "Entregas de notificación que fallaron (se reintentan en el próximo barrido).",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medicine_reminder_http_requests_total",
		Help: "Requests HTTP atendidos, por método y status.",
	}, []string{"method", "status"})
)

// Handler expone el registry global en formato prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
