package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"medicine-reminder/internal/platform/httpclient"
	"medicine-reminder/internal/ports/notify"
)

var ErrNotConfigured = errors.New("webhook notifier not configured")

// Config del canal de notificación por webhook.
// URL y Secret normalmente vienen de env vars en quien lo instancie.
type Config struct {
	URL    string
	Secret string

	// Opcional: nombre del header donde se manda el secreto.
	// Si está vacío, se usa "X-Webhook-Secret".
	SecretHeader string

	Timeout time.Duration
}

// Notifier implementa notify.Notifier posteando la notificación como JSON a
// un endpoint externo (gateway de push, bot, etc.).
type Notifier struct {
	url          string
	secret       string
	secretHeader string
	client       *httpclient.Client
}

func New(cfg Config) *Notifier {
	h := strings.TrimSpace(cfg.SecretHeader)
	if h == "" {
		h = "X-Webhook-Secret"
	}
	return &Notifier{
		url:          strings.TrimSpace(cfg.URL),
		secret:       strings.TrimSpace(cfg.Secret),
		secretHeader: h,
		client:       httpclient.New(cfg.Timeout),
	}
}

func (n *Notifier) IsConfigured() bool {
	return n != nil && n.url != ""
}

func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) error {
	if !n.IsConfigured() {
		return ErrNotConfigured
	}

	var headers map[string]string
	if n.secret != "" {
		headers = map[string]string{n.secretHeader: n.secret}
	}
	return n.client.DoJSON(ctx, http.MethodPost, n.url, headers, msg, nil)
}
