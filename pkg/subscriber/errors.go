package subscriber

import "errors"

var (
	// ErrSubscriberNotFound is returned by update-only writes when no record
	// exists for the email. Callers treat it as a skip, not a failure.
	ErrSubscriberNotFound = errors.New("subscriber not found")
	// ErrStoreWrite indicates the persistence layer rejected the write.
	ErrStoreWrite = errors.New("subscriber store write failed")
	// ErrInvalidRecord is returned when a record is missing required fields.
	ErrInvalidRecord = errors.New("invalid subscriber record")
)
