package relay

import (
	"context"

	"github.com/samvad-hq/sdi-client/pkg/publishers"
	"github.com/samvad-hq/sdi-client/pkg/sdi"
)

// Source is the subset of the SDI client the relay polls.
type Source interface {
	DocumentReceivedList(ctx context.Context) (sdi.List, error)
	DocumentReceived(ctx context.Context, id int64) (sdi.DocumentReceived, error)
	DocumentReceivedNotificationList(ctx context.Context, documentID int64) (sdi.List, error)
	DocumentReceivedNotification(ctx context.Context, id int64) (sdi.DocumentReceivedNotification, error)
	DocumentSentList(ctx context.Context) (sdi.List, error)
	DocumentSentNotificationList(ctx context.Context, documentID int64) (sdi.List, error)
	DocumentSentNotification(ctx context.Context, id int64) (sdi.DocumentSentNotification, error)
}

// EventPublisher publishes relay events downstream and reports how many
// sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which records were already forwarded.
type Deduper interface {
	Seen(key string) (bool, error)
	Mark(key string) error
}
