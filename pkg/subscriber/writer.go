package subscriber

import (
	"context"

	"github.com/planbridge/planbridge/pkg/plan"
)

// Writer applies plan entitlements to the store. Writes are last-write-wins
// and replaying the same entitlement converges on the same record.
type Writer struct {
	store           Store
	createIfMissing bool
}

// NewWriter wraps a store. When createIfMissing is false the writer only
// updates existing records and reports ErrSubscriberNotFound otherwise.
func NewWriter(store Store, createIfMissing bool) *Writer {
	return &Writer{store: store, createIfMissing: createIfMissing}
}

// SetPlan writes the plan and usage limit for the email.
func (w *Writer) SetPlan(ctx context.Context, email string, p plan.Plan, usageLimit string) error {
	rec := Record{
		Email:      NormalizeEmail(email),
		Plan:       p,
		UsageLimit: usageLimit,
	}

	if w.createIfMissing {
		return w.store.Upsert(ctx, rec)
	}
	return w.store.Update(ctx, rec)
}
