package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medicine-reminder/internal/adapters/notify/webhook"
	"medicine-reminder/internal/platform/httpclient"
	"medicine-reminder/internal/ports/notify"
)

func TestNotifier_PostsJSONWithSecret(t *testing.T) {
	var (
		gotMethod string
		gotSecret string
		gotBody   notify.Notification
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotSecret = r.Header.Get("X-Webhook-Secret")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n := webhook.New(webhook.Config{URL: ts.URL, Secret: "s3cret"})

	msg := notify.Notification{
		ScheduleID: "sch-1",
		ProfileID:  "prof-1",
		Title:      "Time for Amoxicillin!",
		Body:       "It's time for your 500mg of Amoxicillin.",
	}
	if err := n.Notify(context.Background(), msg); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("method = %s, want POST", gotMethod)
	}
	if gotSecret != "s3cret" {
		t.Fatalf("secret header = %q", gotSecret)
	}
	if gotBody != msg {
		t.Fatalf("body = %+v, want %+v", gotBody, msg)
	}
}

func TestNotifier_CustomSecretHeader(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	n := webhook.New(webhook.Config{URL: ts.URL, Secret: "Bearer abc", SecretHeader: "Authorization"})
	if err := n.Notify(context.Background(), notify.Notification{ScheduleID: "x"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got != "Bearer abc" {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestNotifier_NotConfigured(t *testing.T) {
	n := webhook.New(webhook.Config{})
	if n.IsConfigured() {
		t.Fatal("expected not configured")
	}
	err := n.Notify(context.Background(), notify.Notification{ScheduleID: "x"})
	if !errors.Is(err, webhook.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestNotifier_Non2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	n := webhook.New(webhook.Config{URL: ts.URL})
	err := n.Notify(context.Background(), notify.Notification{ScheduleID: "x"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %T, want *httpclient.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", httpErr.StatusCode)
	}
}
