package sdi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Payload is anything that serializes to a JSON value. It is the body type
// accepted by Execute and SendDocument.
type Payload interface {
	MarshalJSON() ([]byte, error)
}

// DocumentInfo describes a document to submit. Its structure belongs to the
// remote API, so it is carried as an opaque JSON value.
type DocumentInfo struct {
	raw json.RawMessage
}

// NewDocumentInfo serializes v into a DocumentInfo.
func NewDocumentInfo(v any) (DocumentInfo, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("encode document info: %w", err)
	}
	return DocumentInfo{raw: raw}, nil
}

// DocumentInfoFromJSON wraps an already encoded document.
func DocumentInfoFromJSON(raw []byte) (DocumentInfo, error) {
	if !json.Valid(raw) {
		return DocumentInfo{}, &DecodeError{Kind: "document info", Err: errors.New("invalid JSON")}
	}
	return DocumentInfo{raw: append(json.RawMessage(nil), raw...)}, nil
}

// MarshalJSON implements Payload.
func (d DocumentInfo) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}
	return append([]byte(nil), d.raw...), nil
}

// Record is an immutable view over exactly one JSON response body.
type Record struct {
	raw   json.RawMessage
	value any
}

func newRecord(kind string, body []byte) (Record, error) {
	var v any
	if err := decodeJSON(body, &v); err != nil {
		return Record{}, &DecodeError{Kind: kind, Err: err}
	}
	return Record{raw: append(json.RawMessage(nil), body...), value: v}, nil
}

// Raw returns a copy of the body the record was built from.
func (r Record) Raw() json.RawMessage { return append(json.RawMessage(nil), r.raw...) }

// Fields returns a copy of the top-level fields, or nil when the body is
// not a JSON object.
func (r Record) Fields() map[string]any {
	m, ok := r.value.(map[string]any)
	if !ok {
		return nil
	}
	return cloneValue(m).(map[string]any)
}

// Field returns a copy of one top-level field.
func (r Record) Field(name string) (any, bool) {
	m, ok := r.value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return cloneValue(v), ok
}

// String returns a top-level string or number field as text.
func (r Record) String(name string) (string, bool) {
	m, _ := r.value.(map[string]any)
	return stringField(m, name)
}

// ID returns the numeric "id" field.
func (r Record) ID() (int64, bool) {
	m, _ := r.value.(map[string]any)
	return int64Value(m["id"])
}

// Decode unmarshals the raw body into v.
func (r Record) Decode(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return &DecodeError{Kind: "record", Err: err}
	}
	return nil
}

// Equal reports whether both records were built from the same body.
func (r Record) Equal(other Record) bool { return bytes.Equal(r.raw, other.raw) }

// MarshalJSON re-emits the original body.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw(), nil
}

// DocumentSent is a document submitted through the service.
type DocumentSent struct{ Record }

// NewDocumentSent decodes a document_sent detail body.
func NewDocumentSent(body []byte) (DocumentSent, error) {
	r, err := newRecord("document sent", body)
	return DocumentSent{r}, err
}

// DocumentReceived is a document delivered to the account.
type DocumentReceived struct{ Record }

// NewDocumentReceived decodes a document_received detail body.
func NewDocumentReceived(body []byte) (DocumentReceived, error) {
	r, err := newRecord("document received", body)
	return DocumentReceived{r}, err
}

// DocumentSentNotification is a status event attached to a sent document.
type DocumentSentNotification struct{ Record }

// NewDocumentSentNotification decodes a document_sent_notification detail body.
func NewDocumentSentNotification(body []byte) (DocumentSentNotification, error) {
	r, err := newRecord("document sent notification", body)
	return DocumentSentNotification{r}, err
}

// DocumentReceivedNotification is a status event attached to a received document.
type DocumentReceivedNotification struct{ Record }

// NewDocumentReceivedNotification decodes a document_received_notification detail body.
func NewDocumentReceivedNotification(body []byte) (DocumentReceivedNotification, error) {
	r, err := newRecord("document received notification", body)
	return DocumentReceivedNotification{r}, err
}

// File is an attachment or metafile exactly as served.
type File struct {
	data []byte
}

// NewFile copies body into a File.
func NewFile(body []byte) File { return File{data: append([]byte(nil), body...)} }

// Bytes returns a copy of the file content.
func (f File) Bytes() []byte { return append([]byte(nil), f.data...) }

// Len returns the content size in bytes.
func (f File) Len() int { return len(f.data) }

// WriteTo implements io.WriterTo.
func (f File) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.data)
	return int64(n), err
}

// Save writes the content to path.
func (f File) Save(path string) error {
	if err := os.WriteFile(path, f.data, 0o600); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// List is the loosely typed result of a list endpoint: a JSON array or object.
type List struct {
	raw   json.RawMessage
	value any
}

// NewList decodes a list body.
func NewList(body []byte) (List, error) {
	var v any
	if err := decodeJSON(body, &v); err != nil {
		return List{}, &DecodeError{Kind: "list", Err: err}
	}
	return List{raw: append(json.RawMessage(nil), body...), value: v}, nil
}

// Raw returns a copy of the body.
func (l List) Raw() json.RawMessage { return append(json.RawMessage(nil), l.raw...) }

// Value returns a copy of the decoded JSON value. Numbers are json.Number.
func (l List) Value() any { return cloneValue(l.value) }

// Len returns the number of array items or object members.
func (l List) Len() int {
	switch v := l.value.(type) {
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return 0
	}
}

// IDs collects identifiers from items that are numbers or objects with a
// numeric "id". Object members are visited in key order.
func (l List) IDs() []int64 {
	var items []any
	switch v := l.value.(type) {
	case []any:
		items = v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			items = append(items, v[k])
		}
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			item = obj["id"]
		}
		if id, ok := int64Value(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// MarshalJSON re-emits the original body.
func (l List) MarshalJSON() ([]byte, error) {
	if len(l.raw) == 0 {
		return []byte("null"), nil
	}
	return l.Raw(), nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

func stringField(m map[string]any, name string) (string, bool) {
	switch v := m[name].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

func int64Value(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
