package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrMalformedToken indicates a stored credential token could not be decoded.
	ErrMalformedToken = errors.New("malformed credential token")

	// ErrUnsupportedBackend indicates an unknown credential storage backend.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)
