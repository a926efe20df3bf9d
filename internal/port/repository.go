package port

import (
	"context"

	"github.com/ndquoc/inventory-api/internal/core/domain"
)

type InventoryRepository interface {
	// Get retrieves inventory by product ID without locking.
	// Returns (nil, nil) when the product has no inventory record.
	Get(ctx context.Context, productID string) (*domain.Inventory, error)

	// GetForUpdate retrieves inventory with a row-level write lock held
	// until the enclosing transaction ends. Must be called inside a
	// TransactionScope. Returns domain.ErrNotFound when the product is absent.
	GetForUpdate(ctx context.Context, productID string) (*domain.Inventory, error)

	// Save upserts the inventory record (insert if absent, update otherwise).
	Save(ctx context.Context, inv *domain.Inventory) error

	// Create inserts a new inventory record, failing with
	// domain.ErrAlreadyExists when the product is already present.
	Create(ctx context.Context, inv *domain.Inventory) error

	// FindLowStock returns all records where available quantity is
	// strictly below the minimum stock level.
	FindLowStock(ctx context.Context) ([]domain.Inventory, error)

	// Delete removes the inventory record. Administrative escape hatch.
	Delete(ctx context.Context, productID string) error
}

// TransactionScope runs fn inside a single database transaction. Row
// locks taken by the scoped repository's GetForUpdate are held until fn
// returns; commit happens iff fn returns nil, otherwise rollback.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repo InventoryRepository) error) error
}
