package port

import (
	"context"

	"github.com/ndquoc/inventory-api/internal/core/domain"
)

// EventPublisher delivers domain events for downstream consumption and
// audit. Publishing is fire-and-forget from the caller's perspective:
// failures must never roll back already-committed state.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	PublishMany(ctx context.Context, events []domain.Event) error
}
