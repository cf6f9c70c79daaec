// Package billing abstracts the payment processor behind a small client
// interface so the reconciliation pipeline can be exercised without network
// access. The production implementation is backed by the official Stripe SDK.
package billing

import "context"

// Customer is the processor's normalized view of a paying customer.
type Customer struct {
	ID      string
	Email   string
	Deleted bool
}

// LineItem carries the price token and its parent product token for one
// subscription line item.
type LineItem struct {
	PriceToken   string
	ProductToken string
}

// Subscription is the processor's normalized view of a subscription,
// reduced to what plan resolution needs.
type Subscription struct {
	ID    string
	Items []LineItem
}

// CheckoutRequest contains the data needed to create a hosted checkout
// session for a subscription purchase.
type CheckoutRequest struct {
	PriceToken string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is a hosted checkout page the buyer is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// ProcessorClient is the read/create surface of the payment processor used
// by identity resolution, plan resolution and the checkout redirect.
type ProcessorClient interface {
	// GetCustomer fetches a customer by processor identifier.
	GetCustomer(ctx context.Context, id string) (*Customer, error)

	// GetSubscription fetches a subscription with its line-item prices and
	// their parent products expanded.
	GetSubscription(ctx context.Context, id string) (*Subscription, error)

	// CreateCheckoutSession creates a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// SignatureVerifier authenticates a raw webhook payload against its
// signature header. Verification must run on the untransformed request
// bytes; any re-serialization invalidates the signature.
type SignatureVerifier interface {
	Verify(payload []byte, sigHeader string) error
}
