// Package events provides the in-memory event publisher. It stands in
// for a message broker: events are retained in process and appended to
// the audit log opportunistically.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ndquoc/inventory-api/internal/core/domain"
)

// EventSink persists events for audit. Optional; the storage adapter
// implements it against the event_log table.
type EventSink interface {
	AppendEvent(ctx context.Context, event domain.Event) error
}

// LocalPublisher keeps published events in memory and writes them to the
// sink on a best-effort basis. Sink failures are logged and swallowed:
// the audit trail must never affect already-committed state.
type LocalPublisher struct {
	mu        sync.Mutex
	published []domain.Event
	sink      EventSink
	logger    *zap.Logger
}

func NewLocalPublisher(sink EventSink, logger *zap.Logger) *LocalPublisher {
	return &LocalPublisher{sink: sink, logger: logger}
}

func (p *LocalPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	p.published = append(p.published, event)
	p.mu.Unlock()

	p.logger.Info("published event",
		zap.String("event_type", string(event.Type())),
		zap.String("product_id", event.Product()))

	if p.sink != nil {
		if err := p.sink.AppendEvent(ctx, event); err != nil {
			p.logger.Error("failed to persist event",
				zap.String("event_type", string(event.Type())),
				zap.String("product_id", event.Product()),
				zap.Error(err))
		}
	}
	return nil
}

func (p *LocalPublisher) PublishMany(ctx context.Context, events []domain.Event) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Published returns a copy of all events published so far.
func (p *LocalPublisher) Published() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Event, len(p.published))
	copy(out, p.published)
	return out
}

// Clear drops retained events.
func (p *LocalPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = nil
}
