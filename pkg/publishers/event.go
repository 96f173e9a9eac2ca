package publishers

import (
	"encoding/json"
	"time"
)

// Event kinds emitted by the relay.
const (
	KindDocumentReceived             = "document_received"
	KindDocumentReceivedNotification = "document_received_notification"
	KindDocumentSentNotification     = "document_sent_notification"
)

// Event is the payload published downstream for one newly observed record.
type Event struct {
	Kind           string          `json:"kind"`
	DocumentID     int64           `json:"document_id"`
	NotificationID int64           `json:"notification_id,omitempty"`
	Record         json.RawMessage `json:"record"`
	ObservedAt     time.Time       `json:"observed_at"`
}

// NewEvent constructs an Event stamped with the current time.
func NewEvent(kind string, documentID, notificationID int64, record json.RawMessage) Event {
	return Event{
		Kind:           kind,
		DocumentID:     documentID,
		NotificationID: notificationID,
		Record:         record,
		ObservedAt:     time.Now().UTC(),
	}
}

// attributes are the routing hints attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"kind":        e.Kind,
		"document_id": formatID(e.DocumentID),
	}
	if e.NotificationID != 0 {
		attrs["notification_id"] = formatID(e.NotificationID)
	}
	return attrs
}
