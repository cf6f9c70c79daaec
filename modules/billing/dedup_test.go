package billing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgbilling "github.com/planbridge/planbridge/pkg/billing"
	"github.com/planbridge/planbridge/pkg/dedup"
	"github.com/planbridge/planbridge/pkg/plan"
	"github.com/planbridge/planbridge/pkg/reconcile"
	"github.com/planbridge/planbridge/pkg/subscriber"

	"github.com/planbridge/planbridge/modules/billing"
)

// newGuardedService builds a handler with a live dedup guard over the given
// store so tests can exercise the mark-after-apply ordering.
func newGuardedService(t *testing.T, store subscriber.Store) (http.Handler, *dedup.Guard) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m, err := plan.NewMapping(
		plan.Entry{Token: "price_basic", Plan: plan.Basic},
		plan.Entry{Token: "price_pro", Plan: plan.Pro},
		plan.Entry{Token: "price_elite", Plan: plan.Elite},
	)
	require.NoError(t, err)

	verifier, err := pkgbilling.NewSignatureVerifier(pkgbilling.Config{
		WebhookSecret:      testSigningSecret,
		SignatureTolerance: 5 * time.Minute,
	})
	require.NoError(t, err)

	guard := dedup.NewGuard(client, dedup.Config{TTL: time.Hour})
	proc := new(mockProcessor)
	svc := billing.NewService(
		billing.Config{
			CheckoutSuccessURL:  "https://app.example.com/billing/success",
			CheckoutCancelURL:   "https://app.example.com/billing/cancel",
			CheckoutFallbackURL: "https://app.example.com/pricing",
		},
		verifier,
		reconcile.NewEngine(proc, m, nil),
		subscriber.NewWriter(store, true),
		guard,
		proc,
		m,
		nil,
	)
	return svc.Handle(), guard
}

func TestWebhook_DuplicateDeliveryShortCircuits(t *testing.T) {
	t.Parallel()

	store := subscriber.NewMemoryStore()
	handler, _ := newGuardedService(t, store)

	payload := `{
		"id": "evt_dup",
		"type": "invoice.payment_succeeded",
		"data": {"object": {
			"customer_email": "buyer@example.com",
			"lines": {"data": [{"price": {"id": "price_basic"}}]}
		}}
	}`

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, signedWebhook(t, payload))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, store.Len())

	// The replay is acknowledged without touching the pipeline again.
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, signedWebhook(t, payload))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "duplicate delivery")
	assert.Equal(t, 1, store.Len())
}

func TestWebhook_FailedDeliveryIsNotMarked(t *testing.T) {
	t.Parallel()

	mem := subscriber.NewMemoryStore()
	store := &flakyStore{Store: mem}
	store.failures.Store(1)

	handler, guard := newGuardedService(t, store)

	payload := `{
		"id": "evt_interrupted",
		"type": "invoice.payment_succeeded",
		"data": {"object": {
			"customer_email": "buyer@example.com",
			"lines": {"data": [{"price": {"id": "price_pro"}}]}
		}}
	}`

	// The first delivery dies after reconciliation but before the write
	// lands. No marker may survive it, or the paid entitlement is lost:
	// the sender retries only on non-2xx, and a "duplicate delivery" 200
	// would stop those retries with zero rows written.
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, signedWebhook(t, payload))
	require.Equal(t, http.StatusInternalServerError, first.Code)
	require.Equal(t, 0, mem.Len())
	require.False(t, guard.Seen(context.Background(), "evt_interrupted"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, signedWebhook(t, payload))
	require.Equal(t, http.StatusOK, second.Code)
	assert.NotContains(t, second.Body.String(), "duplicate delivery")

	rec, err := mem.Get(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, rec.Plan)
	assert.Equal(t, 1, mem.Len())

	// Only the applied delivery is marked.
	assert.True(t, guard.Seen(context.Background(), "evt_interrupted"))
}
