package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/sdi-client/internal/config"
	"github.com/samvad-hq/sdi-client/pkg/publishers"
)

func TestRelayForwardsReceivedDocumentsToHTTPSink(t *testing.T) {
	sdiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "alice.secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/document_received":
			_, _ = w.Write([]byte(`[{"id":11}]`))
		case "/document_received/details/11":
			_, _ = w.Write([]byte(`{"id":11,"sender":"IT01234567890"}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer sdiSrv.Close()

	var (
		mu     sync.Mutex
		events []publishers.Event
		got    = make(chan struct{}, 1)
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
		select {
		case got <- struct{}{}:
		default:
		}
	}))
	defer sink.Close()

	dir := t.TempDir()
	pubFile := filepath.Join(dir, "publishers.yaml")
	if err := os.WriteFile(pubFile, []byte("publishers:\n  - id: sink\n    type: http\n    http:\n      url: "+sink.URL+"\n"), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	cfg := &config.Config{
		Endpoint:               sdiSrv.URL,
		Username:               "alice",
		APIToken:               "secret",
		Timeout:                5 * time.Second,
		ConnectTimeout:         time.Second,
		PublishersFile:         pubFile,
		PollInterval:           time.Hour,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "relay.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r, err := NewRelay(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewRelay: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatalf("sink never received an event")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Kind != publishers.KindDocumentReceived || events[0].DocumentID != 11 {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestNewRelayRequiresPublishers(t *testing.T) {
	dir := t.TempDir()
	pubFile := filepath.Join(dir, "publishers.yaml")
	raw := "publishers:\n  - id: off\n    type: http\n    enabled: false\n    http:\n      url: https://example.com\n"
	if err := os.WriteFile(pubFile, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	_, err := NewRelay(context.Background(), &config.Config{
		Endpoint:       "https://sdi.example.com",
		Username:       "u",
		APIToken:       "t",
		PublishersFile: pubFile,
	}, nil)
	if err == nil {
		t.Fatalf("expected error when every publisher is disabled")
	}
}

func TestNewSDIClientAppliesTimeouts(t *testing.T) {
	client, err := NewSDIClient(&config.Config{
		Endpoint:       "https://sdi.example.com",
		Timeout:        30 * time.Second,
		ConnectTimeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewSDIClient: %v", err)
	}
	if client.Timeout() != 30*time.Second || client.ConnectTimeout() != 5*time.Second {
		t.Fatalf("timeouts not applied: %s %s", client.Timeout(), client.ConnectTimeout())
	}
	if client.Endpoint() != "https://sdi.example.com" {
		t.Fatalf("endpoint = %s", client.Endpoint())
	}
	if _, err := NewSDIClient(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
