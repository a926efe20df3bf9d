package policy

import (
	"testing"
	"time"

	"github.com/ndquoc/inventory-api/internal/core/domain"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func lowStockInventory() *domain.Inventory {
	return &domain.Inventory{
		ProductID:         "PROD-001",
		TotalQuantity:     50,
		ReservedQuantity:  45,
		MinimumStockLevel: 20,
	}
}

func healthyInventory() *domain.Inventory {
	return &domain.Inventory{
		ProductID:         "PROD-001",
		TotalQuantity:     100,
		ReservedQuantity:  10,
		MinimumStockLevel: 20,
	}
}

func TestApply_ReservedBelowMinimum(t *testing.T) {
	monitor := NewStockLevelMonitor()
	inv := lowStockInventory()

	events := monitor.Apply(domain.InventoryReserved{ProductID: "PROD-001", Quantity: 5, Timestamp: now}, inv)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	low, ok := events[0].(domain.LowStockDetected)
	if !ok {
		t.Fatalf("expected LowStockDetected, got %T", events[0])
	}
	if low.AvailableQuantity != 5 || low.MinimumStockLevel != 20 {
		t.Errorf("unexpected payload: %+v", low)
	}
	if !low.Timestamp.Equal(now) {
		t.Errorf("expected trigger timestamp carried over, got %v", low.Timestamp)
	}
}

func TestApply_AdjustedBelowMinimum(t *testing.T) {
	monitor := NewStockLevelMonitor()

	events := monitor.Apply(domain.InventoryAdjusted{ProductID: "PROD-001", OldQuantity: 100, NewQuantity: 50, Timestamp: now}, lowStockInventory())

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestApply_AboveMinimumNoAlert(t *testing.T) {
	monitor := NewStockLevelMonitor()

	events := monitor.Apply(domain.InventoryReserved{ProductID: "PROD-001", Quantity: 5, Timestamp: now}, healthyInventory())

	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestApply_IgnoresNonTriggeringEvents(t *testing.T) {
	monitor := NewStockLevelMonitor()
	inv := lowStockInventory()

	triggers := []domain.Event{
		domain.InventoryReleased{ProductID: "PROD-001", Quantity: 5, Timestamp: now},
		domain.InventoryCreated{ProductID: "PROD-001", InitialQuantity: 5, MinimumStockLevel: 20, Timestamp: now},
		domain.LowStockDetected{ProductID: "PROD-001", AvailableQuantity: 5, MinimumStockLevel: 20, Timestamp: now},
	}

	for _, e := range triggers {
		if events := monitor.Apply(e, inv); len(events) != 0 {
			t.Errorf("%s should not trigger the policy, got %d events", e.Type(), len(events))
		}
	}
}

func TestApply_ExactlyAtMinimumNoAlert(t *testing.T) {
	monitor := NewStockLevelMonitor()
	inv := &domain.Inventory{
		ProductID:         "PROD-001",
		TotalQuantity:     40,
		ReservedQuantity:  20,
		MinimumStockLevel: 20,
	}

	events := monitor.Apply(domain.InventoryReserved{ProductID: "PROD-001", Quantity: 5, Timestamp: now}, inv)

	if len(events) != 0 {
		t.Errorf("available == minimum must not alert, got %d events", len(events))
	}
}
