package subscriber_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbridge/planbridge/pkg/plan"
	"github.com/planbridge/planbridge/pkg/subscriber"
)

func TestWriter_SetPlan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates record when missing", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		w := subscriber.NewWriter(store, true)

		require.NoError(t, w.SetPlan(ctx, "user@example.com", plan.Pro, "100"))

		rec, err := store.Get(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, plan.Pro, rec.Plan)
		assert.Equal(t, "100", rec.UsageLimit)
	})

	t.Run("overwrites existing record", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		w := subscriber.NewWriter(store, true)

		require.NoError(t, w.SetPlan(ctx, "user@example.com", plan.Basic, "10"))
		require.NoError(t, w.SetPlan(ctx, "user@example.com", plan.Elite, plan.UnlimitedUsage))

		rec, err := store.Get(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, plan.Elite, rec.Plan)
		assert.Equal(t, plan.UnlimitedUsage, rec.UsageLimit)
	})

	t.Run("replay converges on the same record", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		w := subscriber.NewWriter(store, true)

		require.NoError(t, w.SetPlan(ctx, "user@example.com", plan.Pro, "100"))
		first, err := store.Get(ctx, "user@example.com")
		require.NoError(t, err)

		require.NoError(t, w.SetPlan(ctx, "user@example.com", plan.Pro, "100"))
		second, err := store.Get(ctx, "user@example.com")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("normalizes email before writing", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		w := subscriber.NewWriter(store, true)

		require.NoError(t, w.SetPlan(ctx, "  User@Example.COM ", plan.Basic, "10"))

		rec, err := store.Get(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", rec.Email)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("update-only mode skips unknown subscriber", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		w := subscriber.NewWriter(store, false)

		err := w.SetPlan(ctx, "ghost@example.com", plan.Pro, "100")
		assert.ErrorIs(t, err, subscriber.ErrSubscriberNotFound)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("update-only mode overwrites existing subscriber", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		require.NoError(t, store.Upsert(ctx, subscriber.Record{
			Email: "user@example.com", Plan: plan.Basic, UsageLimit: "10",
		}))

		w := subscriber.NewWriter(store, false)
		require.NoError(t, w.SetPlan(ctx, "user@example.com", plan.Pro, "100"))

		rec, err := store.Get(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, plan.Pro, rec.Plan)
	})

	t.Run("rejects invalid plan", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		w := subscriber.NewWriter(store, true)

		err := w.SetPlan(ctx, "user@example.com", plan.Plan("gold"), "10")
		assert.ErrorIs(t, err, subscriber.ErrInvalidRecord)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		t.Parallel()

		store := subscriber.NewMemoryStore()
		w := subscriber.NewWriter(store, true)

		err := w.SetPlan(ctx, "   ", plan.Basic, "10")
		assert.ErrorIs(t, err, subscriber.ErrInvalidRecord)
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user@example.com", subscriber.NormalizeEmail(" User@EXAMPLE.com "))
	assert.Equal(t, "", subscriber.NormalizeEmail("   "))
}
