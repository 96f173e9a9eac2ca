package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
      headers:
        X-Token: abc
        X-Empty: ""
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.eu-south-1.amazonaws.com/123/sdi
      region: eu-south-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "queue" {
		t.Fatalf("unexpected enabled publishers %#v", enabled)
	}

	http2, ok := reg.ByID("http2")
	if !ok {
		t.Fatalf("http2 missing")
	}
	if http2.Type != TypeHTTP || http2.HTTP.URL != "https://example.com/2" || http2.HTTP.Method != "POST" {
		t.Fatalf("http2 not sanitized: %#v", http2.HTTP)
	}
	if len(http2.HTTP.Headers) != 1 || http2.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http2 defaults not applied: %#v", http2.HTTP)
	}
}

func TestParseRegistryJSON(t *testing.T) {
	raw := `{"publishers":[{"id":"gcp","type":"pubsub","pubsub":{"project_id":"p","topic":"t"}}]}`
	reg, err := ParseRegistry([]byte(raw), ".json")
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected one publisher")
	}
}

func TestParseRegistryRejectsDuplicates(t *testing.T) {
	raw := `
publishers:
  - {id: a, type: http, http: {url: "https://a"}}
  - {id: a, type: http, http: {url: "https://b"}}
`
	if _, err := ParseRegistry([]byte(raw), ".yaml"); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	tests := []PublisherConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "q"}},
		{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-south-1"}},
		{ID: "g1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
		{ID: "k1", Type: "kafka"},
		{Type: TypeHTTP},
	}
	for _, cfg := range tests {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}
