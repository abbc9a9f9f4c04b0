package services

import "errors"

var (
	// ErrInvalidInput marks a request rejected before touching the store.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOrderNotFound is returned when the order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderClosed is returned when settling an order that is already
	// DELIVERED or CANCELLED.
	ErrOrderClosed = errors.New("order is already closed")

	// ErrInsufficientStock aborts a settlement when a guarded stock
	// decrement matches no row.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSchemaIncompatible is returned when the store is missing
	// structure the sale pipeline requires. Detected at startup, before
	// any transaction opens.
	ErrSchemaIncompatible = errors.New("sales schema is incompatible")
)
