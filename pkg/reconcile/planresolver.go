package reconcile

import (
	"context"

	"github.com/planbridge/planbridge/pkg/billing"
)

// PlanResolver finds the plan tokens for a normalized event: an embedded
// line item wins, then a subscription fetch against the processor.
type PlanResolver struct {
	processor billing.ProcessorClient
}

// NewPlanResolver wraps a processor client.
func NewPlanResolver(processor billing.ProcessorClient) *PlanResolver {
	return &PlanResolver{processor: processor}
}

// Resolve returns the price and product tokens, either of which may be
// empty. An error is returned only when the subscription fetch fails; a
// subscription with no line items yields empty tokens.
func (r *PlanResolver) Resolve(ctx context.Context, n Normalized) (priceToken, productToken string, err error) {
	if n.LineItem != nil {
		return n.LineItem.PriceToken, n.LineItem.ProductToken, nil
	}

	if n.SubscriptionRef == "" {
		return "", "", nil
	}

	sub, err := r.processor.GetSubscription(ctx, n.SubscriptionRef)
	if err != nil {
		return "", "", err
	}
	if len(sub.Items) == 0 {
		return "", "", nil
	}
	return sub.Items[0].PriceToken, sub.Items[0].ProductToken, nil
}
