package billing_test

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/planbridge/planbridge/pkg/billing"
)

const testSigningSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way the processor does:
// t=<unix>,v1=<hex hmac of "<unix>.<payload>">.
func signPayload(t *testing.T, payload []byte, at time.Time) string {
	t.Helper()
	sig := webhook.ComputeSignature(at, payload, testSigningSecret)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(sig))
}

func newVerifier(t *testing.T) billing.SignatureVerifier {
	t.Helper()
	v, err := billing.NewSignatureVerifier(billing.Config{
		WebhookSecret:      testSigningSecret,
		SignatureTolerance: 5 * time.Minute,
	})
	require.NoError(t, err)
	return v
}

func TestSignatureVerifier(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`)

	t.Run("accepts valid signature", func(t *testing.T) {
		t.Parallel()
		v := newVerifier(t)
		header := signPayload(t, payload, time.Now())
		assert.NoError(t, v.Verify(payload, header))
	})

	t.Run("rejects tampered body", func(t *testing.T) {
		t.Parallel()
		v := newVerifier(t)
		header := signPayload(t, payload, time.Now())
		tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"email":"evil@x.com"}}}`)
		assert.ErrorIs(t, v.Verify(tampered, header), billing.ErrInvalidSignature)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		t.Parallel()
		v, err := billing.NewSignatureVerifier(billing.Config{
			WebhookSecret:      "whsec_other",
			SignatureTolerance: 5 * time.Minute,
		})
		require.NoError(t, err)
		header := signPayload(t, payload, time.Now())
		assert.ErrorIs(t, v.Verify(payload, header), billing.ErrInvalidSignature)
	})

	t.Run("rejects stale timestamp", func(t *testing.T) {
		t.Parallel()
		v := newVerifier(t)
		header := signPayload(t, payload, time.Now().Add(-time.Hour))
		assert.ErrorIs(t, v.Verify(payload, header), billing.ErrInvalidSignature)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		t.Parallel()
		v := newVerifier(t)
		assert.ErrorIs(t, v.Verify(payload, ""), billing.ErrInvalidSignature)
	})
}

func TestNewSignatureVerifier_MissingSecret(t *testing.T) {
	t.Parallel()

	_, err := billing.NewSignatureVerifier(billing.Config{})
	assert.ErrorIs(t, err, billing.ErrMissingWebhookSecret)
}

func TestNewStripeClient_MissingAPIKey(t *testing.T) {
	t.Parallel()

	_, err := billing.NewStripeClient(billing.Config{})
	assert.ErrorIs(t, err, billing.ErrMissingAPIKey)
}
