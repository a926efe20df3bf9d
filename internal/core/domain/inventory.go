package domain

import (
	"fmt"
	"strings"
	"time"
)

// Inventory is the aggregate root for per-product stock. All mutations go
// through its methods, which re-validate the invariants after applying the
// change and return the domain events describing it. The aggregate does no
// I/O; concurrency control is the repository's row lock, not this struct.
type Inventory struct {
	ProductID         string
	TotalQuantity     int
	ReservedQuantity  int
	MinimumStockLevel int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock is the single low-stock predicate, shared by the aggregate's
// inline check and the stock monitor policy. Strictly below the minimum.
func IsLowStock(available, minimum int) bool {
	return available < minimum
}

// NewInventory creates inventory for a product with no reservations.
// Emits InventoryCreated, plus LowStockDetected when the initial stock is
// already below the minimum level.
func NewInventory(productID string, initialQuantity, minimumStockLevel int, now time.Time) (*Inventory, []Event, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, nil, fmt.Errorf("%w: product id cannot be empty", ErrInvalidQuantity)
	}
	if initialQuantity < 0 {
		return nil, nil, fmt.Errorf("%w: initial quantity cannot be negative", ErrInvalidQuantity)
	}
	if minimumStockLevel < 0 {
		return nil, nil, fmt.Errorf("%w: minimum stock level cannot be negative", ErrInvalidQuantity)
	}

	inv := &Inventory{
		ProductID:         productID,
		TotalQuantity:     initialQuantity,
		ReservedQuantity:  0,
		MinimumStockLevel: minimumStockLevel,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := inv.validateInvariants(); err != nil {
		return nil, nil, err
	}

	events := []Event{InventoryCreated{
		ProductID:         productID,
		InitialQuantity:   initialQuantity,
		MinimumStockLevel: minimumStockLevel,
		Timestamp:         now,
	}}
	events = inv.appendLowStock(events, now)

	return inv, events, nil
}

// AvailableQuantity is always derived, never stored.
func (i *Inventory) AvailableQuantity() int {
	return i.TotalQuantity - i.ReservedQuantity
}

// Reserve commits quantity units of available stock to an order.
func (i *Inventory) Reserve(quantity int, now time.Time) ([]Event, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: reserve quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}
	if quantity > i.AvailableQuantity() {
		return nil, fmt.Errorf("%w: cannot reserve %d units, only %d available",
			ErrInsufficientStock, quantity, i.AvailableQuantity())
	}

	i.ReservedQuantity += quantity
	i.UpdatedAt = now
	if err := i.validateInvariants(); err != nil {
		return nil, err
	}

	events := []Event{InventoryReserved{
		ProductID: i.ProductID,
		Quantity:  quantity,
		Timestamp: now,
	}}
	events = i.appendLowStock(events, now)

	return events, nil
}

// Release returns previously reserved units to the available pool.
// Releasing only increases availability, so it never re-checks low stock.
func (i *Inventory) Release(quantity int, now time.Time) ([]Event, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: release quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}
	if quantity > i.ReservedQuantity {
		return nil, fmt.Errorf("%w: cannot release %d units, only %d reserved",
			ErrInvalidQuantity, quantity, i.ReservedQuantity)
	}

	i.ReservedQuantity -= quantity
	i.UpdatedAt = now
	if err := i.validateInvariants(); err != nil {
		return nil, err
	}

	return []Event{InventoryReleased{
		ProductID: i.ProductID,
		Quantity:  quantity,
		Timestamp: now,
	}}, nil
}

// Adjust sets the total quantity to an administratively corrected value,
// bounded below by current reservations.
func (i *Inventory) Adjust(newTotal int, now time.Time) ([]Event, error) {
	if newTotal < 0 {
		return nil, fmt.Errorf("%w: new quantity cannot be negative, got %d", ErrInvalidQuantity, newTotal)
	}
	if newTotal < i.ReservedQuantity {
		return nil, fmt.Errorf("%w: new quantity %d cannot be less than reserved quantity %d",
			ErrInvalidQuantity, newTotal, i.ReservedQuantity)
	}

	old := i.TotalQuantity
	i.TotalQuantity = newTotal
	i.UpdatedAt = now
	if err := i.validateInvariants(); err != nil {
		return nil, err
	}

	events := []Event{InventoryAdjusted{
		ProductID:   i.ProductID,
		OldQuantity: old,
		NewQuantity: newTotal,
		Timestamp:   now,
	}}
	events = i.appendLowStock(events, now)

	return events, nil
}

func (i *Inventory) appendLowStock(events []Event, now time.Time) []Event {
	if IsLowStock(i.AvailableQuantity(), i.MinimumStockLevel) {
		events = append(events, LowStockDetected{
			ProductID:         i.ProductID,
			AvailableQuantity: i.AvailableQuantity(),
			MinimumStockLevel: i.MinimumStockLevel,
			Timestamp:         now,
		})
	}
	return events
}

// validateInvariants enforces the aggregate's business rules. A failure
// after a mutation was already applied would be an internal consistency
// bug; callers treat it as fatal to the operation.
func (i *Inventory) validateInvariants() error {
	if i.TotalQuantity < 0 {
		return fmt.Errorf("%w: total quantity cannot be negative", ErrInvalidQuantity)
	}
	if i.ReservedQuantity < 0 {
		return fmt.Errorf("%w: reserved quantity cannot be negative", ErrInvalidQuantity)
	}
	if i.MinimumStockLevel < 0 {
		return fmt.Errorf("%w: minimum stock level cannot be negative", ErrInvalidQuantity)
	}
	if i.ReservedQuantity > i.TotalQuantity {
		return fmt.Errorf("%w: reserved quantity (%d) cannot exceed total quantity (%d)",
			ErrInvalidQuantity, i.ReservedQuantity, i.TotalQuantity)
	}
	return nil
}
