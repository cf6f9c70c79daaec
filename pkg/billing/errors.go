package billing

import "errors"

var (
	// ErrMissingAPIKey is returned when the processor API credential is absent.
	ErrMissingAPIKey = errors.New("payment processor API key is required")
	// ErrMissingWebhookSecret is returned when the webhook signing secret is absent.
	ErrMissingWebhookSecret = errors.New("webhook signing secret is required")
	// ErrInvalidSignature indicates the webhook payload failed authentication.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	// ErrUpstream indicates the processor API was unreachable or returned an
	// error; callers surface it as a retriable failure.
	ErrUpstream = errors.New("payment processor request failed")
)
