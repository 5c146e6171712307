package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lysyi3m/launch-comb/app/announcement"
)

func TestDiscord_Send(t *testing.T) {
	var received webhookPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got '%s'", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewDiscord(server.URL, 5*time.Second).Send(context.Background(), "📢 **title**\nlink")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if received.Content != "📢 **title**\nlink" {
		t.Errorf("Unexpected content %q", received.Content)
	}
}

func TestDiscord_DeliveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := NewDiscord(server.URL, 5*time.Second).Send(context.Background(), "x")
	if !errors.Is(err, announcement.ErrNotifierDelivery) {
		t.Errorf("Expected ErrNotifierDelivery, got: %v", err)
	}

	err = NewDiscord("http://127.0.0.1:1/webhook", time.Second).Send(context.Background(), "x")
	if !errors.Is(err, announcement.ErrNotifierDelivery) {
		t.Errorf("Expected ErrNotifierDelivery for unreachable host, got: %v", err)
	}
}

func TestDiscord_Unconfigured(t *testing.T) {
	err := NewDiscord("", time.Second).Send(context.Background(), "x")
	if !errors.Is(err, announcement.ErrNotifierUnconfigured) {
		t.Errorf("Expected ErrNotifierUnconfigured, got: %v", err)
	}
}

func TestPrinter_Send(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf).Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("Expected 'hello\\n', got %q", buf.String())
	}
}
