package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ndquoc/inventory-api/internal/core/domain"
	"github.com/ndquoc/inventory-api/internal/port"
)

// InventoryService orchestrates the inventory use cases. Mutating use
// cases run lock-fetch, aggregate mutation and save inside a single
// transaction; events are published only after the transaction commits,
// so publication never races ahead of durable state.
type InventoryService struct {
	repo      port.InventoryRepository
	tx        port.TransactionScope
	publisher port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewInventoryService(repo port.InventoryRepository, tx port.TransactionScope, publisher port.EventPublisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// GetInventory returns the current inventory for a product. Unlocked read.
func (s *InventoryService) GetInventory(ctx context.Context, productID string) (*domain.Inventory, error) {
	inv, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	if inv == nil {
		s.logger.Warn("product not found", zap.String("product_id", productID))
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	return inv, nil
}

// CreateInventory creates a new inventory record. No row lock is needed:
// the record does not exist yet and the repository's strict insert
// guards against concurrent duplicate creation.
func (s *InventoryService) CreateInventory(ctx context.Context, productID string, initialQuantity, minimumStockLevel int) (*domain.Inventory, error) {
	inv, events, err := domain.NewInventory(productID, initialQuantity, minimumStockLevel, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("inventory created",
		zap.String("product_id", productID),
		zap.Int("initial_quantity", initialQuantity),
		zap.Int("minimum_stock_level", minimumStockLevel))

	s.publish(ctx, events)
	return inv, nil
}

// ReserveInventory reserves quantity units for an order. The order ID is
// carried for audit only; repeated calls with the same order ID reserve
// again.
func (s *InventoryService) ReserveInventory(ctx context.Context, productID string, quantity int, orderID string) (*domain.Inventory, error) {
	inv, events, err := s.mutate(ctx, productID, func(inv *domain.Inventory) ([]domain.Event, error) {
		return inv.Reserve(quantity, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory reserved",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.String("order_id", orderID),
		zap.Int("available", inv.AvailableQuantity()))

	s.publish(ctx, events)
	return inv, nil
}

// ReleaseInventory returns reserved units to the available pool.
func (s *InventoryService) ReleaseInventory(ctx context.Context, productID string, quantity int, orderID, reason string) (*domain.Inventory, error) {
	inv, events, err := s.mutate(ctx, productID, func(inv *domain.Inventory) ([]domain.Event, error) {
		return inv.Release(quantity, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory released",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.String("order_id", orderID),
		zap.String("reason", reason))

	s.publish(ctx, events)
	return inv, nil
}

// AdjustInventory sets the total quantity to an administratively
// corrected value. Reason and actor are recorded in the audit log.
func (s *InventoryService) AdjustInventory(ctx context.Context, productID string, newQuantity int, reason, adjustedBy string) (*domain.Inventory, error) {
	inv, events, err := s.mutate(ctx, productID, func(inv *domain.Inventory) ([]domain.Event, error) {
		return inv.Adjust(newQuantity, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory adjusted",
		zap.String("product_id", productID),
		zap.Int("new_quantity", newQuantity),
		zap.String("reason", reason),
		zap.String("adjusted_by", adjustedBy))

	s.publish(ctx, events)
	return inv, nil
}

// GetLowStockItems returns all products whose available quantity is
// below their minimum stock level. Unlocked scan.
func (s *InventoryService) GetLowStockItems(ctx context.Context) ([]domain.Inventory, error) {
	items, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("find low stock: %w", err)
	}
	return items, nil
}

// DeleteInventory removes the inventory record for a product.
func (s *InventoryService) DeleteInventory(ctx context.Context, productID string) error {
	inv, err := s.repo.Get(ctx, productID)
	if err != nil {
		return fmt.Errorf("get inventory: %w", err)
	}
	if inv == nil {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}

	s.logger.Info("inventory deleted", zap.String("product_id", productID))
	return nil
}

// mutate runs a single aggregate mutation under the product's row lock.
// Aggregate errors abort before save; nothing is persisted on failure.
func (s *InventoryService) mutate(ctx context.Context, productID string, fn func(inv *domain.Inventory) ([]domain.Event, error)) (*domain.Inventory, []domain.Event, error) {
	var (
		result *domain.Inventory
		events []domain.Event
	)

	err := s.tx.Execute(ctx, func(repo port.InventoryRepository) error {
		inv, err := repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		events, err = fn(inv)
		if err != nil {
			return err
		}

		if err := repo.Save(ctx, inv); err != nil {
			return fmt.Errorf("save inventory: %w", err)
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return result, events, nil
}

// publish hands events to the publisher after commit. Failures are
// logged and dropped: the state is already durable.
func (s *InventoryService) publish(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.PublishMany(ctx, events); err != nil {
		s.logger.Error("failed to publish events", zap.Int("count", len(events)), zap.Error(err))
	}
}
