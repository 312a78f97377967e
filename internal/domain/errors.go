package domain

import "errors"

var (
	// ErrNotFound signals a missing restaurant record.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable signals that the record store could not serve a request.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrInvalidDocument signals a stored document that cannot be decoded into a record.
	ErrInvalidDocument = errors.New("invalid document")
)
