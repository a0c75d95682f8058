package notify

import "context"

// Notification es el aviso que el sweeper emite cuando una toma entra en
// ventana. Title y Body ya vienen armados; el canal solo entrega.
type Notification struct {
	ScheduleID string `json:"schedule_id"`
	ProfileID  string `json:"profile_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// Notifier entrega una notificación por algún canal. Un error significa que
// la entrega NO ocurrió y la toma no debe marcarse como notificada.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Nop descarta las notificaciones. Es el canal por defecto cuando no hay
// webhook configurado.
type Nop struct{}

func (Nop) Notify(ctx context.Context, n Notification) error { return nil }
