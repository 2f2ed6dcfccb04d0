package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(`{"title":"Lofi","lengthSeconds":125}`))
	}))
	defer srv.Close()

	client := NewClient(Options{UserAgent: "test-agent"})

	var got struct {
		Title  string `json:"title"`
		Length int    `json:"lengthSeconds"`
	}
	if err := client.GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.Title != "Lofi" || got.Length != 125 {
		t.Errorf("decoded %+v", got)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(Options{}).Get(context.Background(), srv.URL)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	var v map[string]any
	if err := NewClient(Options{}).GetJSON(context.Background(), srv.URL, &v); err == nil {
		t.Error("expected a decode error")
	}
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	client := NewClient(Options{RequestsPerSecond: 10})
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.Get(context.Background(), srv.URL); err != nil {
			t.Fatal(err)
		}
	}
	// One token up front, then one every 100ms.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("3 requests took %v, limiter not applied", elapsed)
	}
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	client := NewClient(Options{RequestsPerSecond: 0.001})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Get(ctx, "http://127.0.0.1:1"); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
