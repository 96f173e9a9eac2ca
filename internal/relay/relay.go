package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samvad-hq/sdi-client/internal/logger"
	"github.com/samvad-hq/sdi-client/internal/storage"
	"github.com/samvad-hq/sdi-client/pkg/publishers"
)

// Ledger key prefixes.
const (
	keyReceived             = "received"
	keyReceivedNotification = "received_notification"
	keySentNotification     = "sent_notification"
)

// Service forwards newly observed inbox records to the configured publishers.
type Service struct {
	source    Source
	publisher EventPublisher
	deduper   Deduper
	log       logger.Logger
}

// Stats summarises one pass.
type Stats struct {
	Published int
	Skipped   int
	Failed    int
}

// NewService wires a relay over an SDI source, a publisher and a ledger.
func NewService(src Source, pub EventPublisher, log logger.Logger, deduper Deduper) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		source:    src,
		publisher: pub,
		deduper:   deduper,
		log:       log,
	}
}

// RunOnce performs one relay pass over received and sent documents.
func (s *Service) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil || s.source == nil || s.publisher == nil {
		return stats, fmt.Errorf("relay service is not initialized")
	}

	var errs []error
	if err := s.relayReceived(ctx, &stats); err != nil {
		errs = append(errs, err)
	}
	if ctx.Err() == nil {
		if err := s.relaySent(ctx, &stats); err != nil {
			errs = append(errs, err)
		}
	}

	s.log.InfoObj("relay pass completed", "relay_result", map[string]any{
		"published": stats.Published,
		"skipped":   stats.Skipped,
		"failed":    stats.Failed,
	})
	return stats, errors.Join(errs...)
}

func (s *Service) relayReceived(ctx context.Context, stats *Stats) error {
	list, err := s.source.DocumentReceivedList(ctx)
	if err != nil {
		return fmt.Errorf("list received documents: %w", err)
	}

	var errs []error
	for _, id := range list.IDs() {
		if ctx.Err() != nil {
			break
		}
		if err := s.forward(ctx, stats, storage.Key(keyReceived, id), func() (publishers.Event, error) {
			doc, err := s.source.DocumentReceived(ctx, id)
			if err != nil {
				return publishers.Event{}, err
			}
			return publishers.NewEvent(publishers.KindDocumentReceived, id, 0, doc.Raw()), nil
		}); err != nil {
			errs = append(errs, fmt.Errorf("received document %d: %w", id, err))
			continue
		}
		if err := s.relayReceivedNotifications(ctx, stats, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) relayReceivedNotifications(ctx context.Context, stats *Stats, documentID int64) error {
	list, err := s.source.DocumentReceivedNotificationList(ctx, documentID)
	if err != nil {
		return fmt.Errorf("list notifications of received document %d: %w", documentID, err)
	}

	var errs []error
	for _, id := range list.IDs() {
		if ctx.Err() != nil {
			break
		}
		if err := s.forward(ctx, stats, storage.Key(keyReceivedNotification, id), func() (publishers.Event, error) {
			n, err := s.source.DocumentReceivedNotification(ctx, id)
			if err != nil {
				return publishers.Event{}, err
			}
			return publishers.NewEvent(publishers.KindDocumentReceivedNotification, documentID, id, n.Raw()), nil
		}); err != nil {
			errs = append(errs, fmt.Errorf("received notification %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) relaySent(ctx context.Context, stats *Stats) error {
	list, err := s.source.DocumentSentList(ctx)
	if err != nil {
		return fmt.Errorf("list sent documents: %w", err)
	}

	var errs []error
	for _, documentID := range list.IDs() {
		if ctx.Err() != nil {
			break
		}
		notifications, err := s.source.DocumentSentNotificationList(ctx, documentID)
		if err != nil {
			errs = append(errs, fmt.Errorf("list notifications of sent document %d: %w", documentID, err))
			continue
		}
		for _, id := range notifications.IDs() {
			if ctx.Err() != nil {
				break
			}
			if err := s.forward(ctx, stats, storage.Key(keySentNotification, id), func() (publishers.Event, error) {
				n, err := s.source.DocumentSentNotification(ctx, id)
				if err != nil {
					return publishers.Event{}, err
				}
				return publishers.NewEvent(publishers.KindDocumentSentNotification, documentID, id, n.Raw()), nil
			}); err != nil {
				errs = append(errs, fmt.Errorf("sent notification %d: %w", id, err))
			}
		}
	}
	return errors.Join(errs...)
}

// forward fetches, publishes and marks one record unless the ledger already
// holds its key. A lookup failure is treated as unseen.
func (s *Service) forward(ctx context.Context, stats *Stats, key string, fetch func() (publishers.Event, error)) error {
	if s.seen(key) {
		stats.Skipped++
		return nil
	}

	evt, err := fetch()
	if err != nil {
		stats.Failed++
		s.log.WarnObj("relay fetch failed", "relay_fetch_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("fetch: %w", err)
	}
	if !json.Valid(evt.Record) {
		evt.Record = nil
	}

	delivered, err := s.publisher.Publish(ctx, evt)
	if delivered == 0 {
		stats.Failed++
		if err == nil {
			err = errors.New("no publisher accepted the event")
		}
		s.log.ErrorObj("relay publish failed", "relay_publish_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("publish: %w", err)
	}
	if err != nil {
		s.log.WarnObj("relay publish partially failed", "relay_publish_error", map[string]any{
			"key":       key,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}

	stats.Published++
	if s.deduper != nil {
		if err := s.deduper.Mark(key); err != nil {
			s.log.WarnObj("relay mark failed", "relay_mark_error", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	s.log.DebugObj("relay event published", "relay_event", map[string]any{
		"key":       key,
		"kind":      evt.Kind,
		"delivered": delivered,
	})
	return nil
}

func (s *Service) seen(key string) bool {
	if s.deduper == nil {
		return false
	}
	seen, err := s.deduper.Seen(key)
	if err != nil {
		s.log.WarnObj("relay ledger lookup failed", "relay_seen_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return seen
}
