package reconcile

import (
	"context"

	"github.com/planbridge/planbridge/pkg/billing"
	"github.com/planbridge/planbridge/pkg/subscriber"
)

// IdentityResolver finds the customer email for a normalized event:
// embedded emails win, then a customer lookup against the processor.
type IdentityResolver struct {
	processor billing.ProcessorClient
}

// NewIdentityResolver wraps a processor client.
func NewIdentityResolver(processor billing.ProcessorClient) *IdentityResolver {
	return &IdentityResolver{processor: processor}
}

// Resolve returns the normalized email, or "" when no identity can be
// established. An error is returned only when the processor lookup itself
// fails; an absent identity is not an error.
func (r *IdentityResolver) Resolve(ctx context.Context, n Normalized) (string, error) {
	if email := subscriber.NormalizeEmail(n.Email); email != "" {
		return email, nil
	}
	if email := subscriber.NormalizeEmail(n.LegacyEmail); email != "" {
		return email, nil
	}

	if n.CustomerRef == "" {
		return "", nil
	}

	cust, err := r.processor.GetCustomer(ctx, n.CustomerRef)
	if err != nil {
		return "", err
	}
	if cust.Deleted {
		return "", nil
	}
	return subscriber.NormalizeEmail(cust.Email), nil
}
