package subscriber

import "context"

// Store persists subscriber records keyed by normalized email.
type Store interface {
	// Get returns the record for the email, or ErrSubscriberNotFound.
	Get(ctx context.Context, email string) (*Record, error)

	// Upsert creates the record or overwrites its plan fields if the email
	// already exists.
	Upsert(ctx context.Context, rec Record) error

	// Update overwrites the plan fields of an existing record and returns
	// ErrSubscriberNotFound when no row matches the email.
	Update(ctx context.Context, rec Record) error
}
