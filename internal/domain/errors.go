package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation wraps caller input problems.
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrEmptyCart is returned when checking out without cart items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientStock is returned when a line asks for more than is available.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict signals a concurrent update won; the caller may retry.
	ErrConflict = errors.New("conflict")
)
