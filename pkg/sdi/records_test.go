package sdi

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListIDs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int64
		len  int
	}{
		{"numbers", `[3, 1, 2]`, []int64{3, 1, 2}, 3},
		{"objects", `[{"id":10,"status":"ok"},{"id":"11"},{"name":"x"}]`, []int64{10, 11}, 3},
		{"object members", `{"b":{"id":2},"a":1}`, []int64{1, 2}, 2},
		{"empty", `[]`, []int64{}, 0},
		{"scalar", `5`, []int64{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewList([]byte(tt.body))
			if err != nil {
				t.Fatalf("NewList: %v", err)
			}
			if diff := cmp.Diff(tt.want, l.IDs()); diff != "" {
				t.Fatalf("IDs mismatch (-want +got):\n%s", diff)
			}
			if l.Len() != tt.len {
				t.Fatalf("Len = %d, want %d", l.Len(), tt.len)
			}
		})
	}
}

func TestNewListRejectsTrailingData(t *testing.T) {
	if _, err := NewList([]byte(`[1] [2]`)); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRecordIsImmutable(t *testing.T) {
	rec, err := NewDocumentReceived([]byte(`{"id":1,"meta":{"sender":"IT1"},"tags":["a"]}`))
	if err != nil {
		t.Fatalf("NewDocumentReceived: %v", err)
	}

	fields := rec.Fields()
	fields["id"] = "changed"
	fields["meta"].(map[string]any)["sender"] = "changed"
	fields["tags"].([]any)[0] = "changed"

	raw := rec.Raw()
	raw[0] = 'X'

	meta, _ := rec.Field("meta")
	if diff := cmp.Diff(map[string]any{"sender": "IT1"}, meta); diff != "" {
		t.Fatalf("nested field mutated (-want +got):\n%s", diff)
	}
	if id, _ := rec.ID(); id != 1 {
		t.Fatalf("id mutated: %d", id)
	}
	if rec.Raw()[0] != '{' {
		t.Fatalf("raw body mutated")
	}
}

func TestRecordHelpers(t *testing.T) {
	rec, err := NewDocumentSentNotification([]byte(`{"id":9,"type":"RC","score":1.5}`))
	if err != nil {
		t.Fatalf("NewDocumentSentNotification: %v", err)
	}
	if s, ok := rec.String("type"); !ok || s != "RC" {
		t.Fatalf("String(type) = %q, %v", s, ok)
	}
	if s, ok := rec.String("score"); !ok || s != "1.5" {
		t.Fatalf("String(score) = %q, %v", s, ok)
	}
	if _, ok := rec.Field("missing"); ok {
		t.Fatalf("missing field reported present")
	}

	var out struct {
		ID   int    `json:"id"`
		Type string `json:"type"`
	}
	if err := rec.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != 9 || out.Type != "RC" {
		t.Fatalf("decoded %+v", out)
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != `{"id":9,"type":"RC","score":1.5}` {
		t.Fatalf("re-encoded record = %s", encoded)
	}
}

func TestNonObjectRecordHasNoFields(t *testing.T) {
	rec, err := NewDocumentReceivedNotification([]byte(`[1,2]`))
	if err != nil {
		t.Fatalf("NewDocumentReceivedNotification: %v", err)
	}
	if rec.Fields() != nil {
		t.Fatalf("expected nil fields")
	}
	if _, ok := rec.ID(); ok {
		t.Fatalf("expected no id")
	}
}

func TestDocumentInfo(t *testing.T) {
	doc, err := NewDocumentInfo(struct {
		Recipient string `json:"recipient"`
	}{Recipient: "0000000"})
	if err != nil {
		t.Fatalf("NewDocumentInfo: %v", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"recipient":"0000000"}` {
		t.Fatalf("encoded = %s", raw)
	}

	if _, err := DocumentInfoFromJSON([]byte(`{"broken"`)); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, err := NewDocumentInfo(make(chan int)); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestFileWriteAndSave(t *testing.T) {
	f := NewFile([]byte("payload"))
	if f.Len() != 7 {
		t.Fatalf("Len = %d", f.Len())
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	if err != nil || n != 7 || buf.String() != "payload" {
		t.Fatalf("WriteTo = %d, %v, %q", n, err, buf.String())
	}

	path := filepath.Join(t.TempDir(), "invoice.xml")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("saved %q", got)
	}
}
