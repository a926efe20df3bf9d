package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventInventoryCreated  EventType = "InventoryCreated"
	EventInventoryReserved EventType = "InventoryReserved"
	EventInventoryReleased EventType = "InventoryReleased"
	EventInventoryAdjusted EventType = "InventoryAdjusted"
	EventLowStockDetected  EventType = "LowStockDetected"
)

// Event is a closed union over the inventory event variants below.
// Events are immutable facts; the aggregate hands them off and does not
// retain them.
type Event interface {
	Type() EventType
	Product() string
	OccurredAt() time.Time

	isEvent()
}

type InventoryCreated struct {
	ProductID         string    `json:"product_id"`
	InitialQuantity   int       `json:"initial_quantity"`
	MinimumStockLevel int       `json:"minimum_stock_level"`
	Timestamp         time.Time `json:"timestamp"`
}

type InventoryReserved struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

type InventoryReleased struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

type InventoryAdjusted struct {
	ProductID   string    `json:"product_id"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

type LowStockDetected struct {
	ProductID         string    `json:"product_id"`
	AvailableQuantity int       `json:"available_quantity"`
	MinimumStockLevel int       `json:"minimum_stock_level"`
	Timestamp         time.Time `json:"timestamp"`
}

func (InventoryCreated) Type() EventType  { return EventInventoryCreated }
func (InventoryReserved) Type() EventType { return EventInventoryReserved }
func (InventoryReleased) Type() EventType { return EventInventoryReleased }
func (InventoryAdjusted) Type() EventType { return EventInventoryAdjusted }
func (LowStockDetected) Type() EventType  { return EventLowStockDetected }

func (e InventoryCreated) Product() string  { return e.ProductID }
func (e InventoryReserved) Product() string { return e.ProductID }
func (e InventoryReleased) Product() string { return e.ProductID }
func (e InventoryAdjusted) Product() string { return e.ProductID }
func (e LowStockDetected) Product() string  { return e.ProductID }

func (e InventoryCreated) OccurredAt() time.Time  { return e.Timestamp }
func (e InventoryReserved) OccurredAt() time.Time { return e.Timestamp }
func (e InventoryReleased) OccurredAt() time.Time { return e.Timestamp }
func (e InventoryAdjusted) OccurredAt() time.Time { return e.Timestamp }
func (e LowStockDetected) OccurredAt() time.Time  { return e.Timestamp }

func (InventoryCreated) isEvent()  {}
func (InventoryReserved) isEvent() {}
func (InventoryReleased) isEvent() {}
func (InventoryAdjusted) isEvent() {}
func (LowStockDetected) isEvent()  {}

// EncodeEvent serializes an event variant to JSON for the audit log.
// One explicit case per variant; an unknown type is an error, not a
// reflective fallback.
func EncodeEvent(e Event) ([]byte, error) {
	switch ev := e.(type) {
	case InventoryCreated:
		return json.Marshal(ev)
	case InventoryReserved:
		return json.Marshal(ev)
	case InventoryReleased:
		return json.Marshal(ev)
	case InventoryAdjusted:
		return json.Marshal(ev)
	case LowStockDetected:
		return json.Marshal(ev)
	default:
		return nil, fmt.Errorf("unknown event type %T", e)
	}
}
