// Package policy holds side-effect policies that react to domain events.
package policy

import (
	"github.com/ndquoc/inventory-api/internal/core/domain"
)

// StockLevelMonitor checks for low stock after stock-reducing mutations.
// It exists for event-driven wiring where mutation and policy are
// decoupled; it must stay consistent with the aggregate's inline check,
// which it does by sharing domain.IsLowStock.
type StockLevelMonitor struct{}

func NewStockLevelMonitor() *StockLevelMonitor {
	return &StockLevelMonitor{}
}

// Apply returns at most one LowStockDetected event for the given trigger.
// Only InventoryReserved and InventoryAdjusted can reduce availability;
// every other event type (including InventoryReleased) is ignored.
func (m *StockLevelMonitor) Apply(event domain.Event, after *domain.Inventory) []domain.Event {
	switch event.(type) {
	case domain.InventoryReserved, domain.InventoryAdjusted:
	default:
		return nil
	}

	if domain.IsLowStock(after.AvailableQuantity(), after.MinimumStockLevel) {
		return []domain.Event{domain.LowStockDetected{
			ProductID:         after.ProductID,
			AvailableQuantity: after.AvailableQuantity(),
			MinimumStockLevel: after.MinimumStockLevel,
			Timestamp:         event.OccurredAt(),
		}}
	}

	return nil
}
