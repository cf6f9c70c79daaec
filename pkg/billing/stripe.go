package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Config holds Stripe credentials and webhook verification settings.
type Config struct {
	APIKey             string        `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret      string        `env:"STRIPE_WEBHOOK_SECRET,required"`
	SignatureTolerance time.Duration `env:"STRIPE_SIGNATURE_TOLERANCE" envDefault:"5m"`
}

// StripeClient implements ProcessorClient on top of the official SDK.
type StripeClient struct {
	api *client.API
}

// NewStripeClient creates a Stripe-backed processor client.
func NewStripeClient(cfg Config) (*StripeClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	api := &client.API{}
	api.Init(cfg.APIKey, nil)

	return &StripeClient{api: api}, nil
}

// GetCustomer fetches a customer by identifier.
func (c *StripeClient) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := c.api.Customers.Get(id, params)
	if err != nil {
		return nil, errors.Join(ErrUpstream, fmt.Errorf("get customer %s: %w", id, err))
	}

	return &Customer{
		ID:      cust.ID,
		Email:   cust.Email,
		Deleted: cust.Deleted,
	}, nil
}

// GetSubscription fetches a subscription, expanding each line item's price
// and that price's parent product so both tokens are available for mapping.
func (c *StripeClient) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	params.AddExpand("items.data.price.product")

	sub, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, errors.Join(ErrUpstream, fmt.Errorf("get subscription %s: %w", id, err))
	}

	out := &Subscription{ID: sub.ID}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item == nil || item.Price == nil {
				continue
			}
			li := LineItem{PriceToken: item.Price.ID}
			if item.Price.Product != nil {
				li.ProductToken = item.Price.Product.ID
			}
			out.Items = append(out.Items, li)
		}
	}
	return out, nil
}

// CreateCheckoutSession creates a subscription-mode hosted checkout session.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceToken == "" {
		return nil, errors.New("price token is required")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceToken),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.Join(ErrUpstream, fmt.Errorf("create checkout session: %w", err))
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// stripeVerifier validates Stripe-Signature headers with the SDK's webhook
// helper, which checks the HMAC and the timestamp tolerance.
type stripeVerifier struct {
	secret    string
	tolerance time.Duration
}

// NewSignatureVerifier returns a verifier for the configured webhook secret.
func NewSignatureVerifier(cfg Config) (SignatureVerifier, error) {
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}
	return &stripeVerifier{
		secret:    cfg.WebhookSecret,
		tolerance: cfg.SignatureTolerance,
	}, nil
}

func (v *stripeVerifier) Verify(payload []byte, sigHeader string) error {
	if sigHeader == "" {
		return errors.Join(ErrInvalidSignature, errors.New("missing signature header"))
	}
	if err := webhook.ValidatePayloadWithTolerance(payload, sigHeader, v.secret, v.tolerance); err != nil {
		return errors.Join(ErrInvalidSignature, err)
	}
	return nil
}
