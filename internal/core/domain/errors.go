package domain

import "errors"

var (
	// ErrInvalidQuantity covers malformed input and invariant violations.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientStock means the requested reservation exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound means the product has no inventory record.
	ErrNotFound = errors.New("inventory not found")

	// ErrAlreadyExists means an inventory record already exists for the product.
	ErrAlreadyExists = errors.New("inventory already exists")
)
