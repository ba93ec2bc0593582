package order

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrAlreadyExists     = errors.New("order already exists")
	ErrInvalidTransition = errors.New("invalid order transition")
	ErrInvalidHandle     = errors.New("handle must look like @username")
)
