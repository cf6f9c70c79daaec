package dedup_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbridge/planbridge/pkg/dedup"
)

func newGuard(t *testing.T) (*dedup.Guard, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return dedup.NewGuard(client, dedup.Config{TTL: time.Minute}), mr
}

func TestGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unmarked delivery is not seen", func(t *testing.T) {
		t.Parallel()

		g, _ := newGuard(t)
		assert.False(t, g.Seen(ctx, "evt_1"))
	})

	t.Run("seen never writes a marker", func(t *testing.T) {
		t.Parallel()

		g, _ := newGuard(t)
		require.False(t, g.Seen(ctx, "evt_2"))
		assert.False(t, g.Seen(ctx, "evt_2"))
	})

	t.Run("marked delivery is seen on replay", func(t *testing.T) {
		t.Parallel()

		g, _ := newGuard(t)
		g.Mark(ctx, "evt_3")
		assert.True(t, g.Seen(ctx, "evt_3"))
	})

	t.Run("distinct events do not collide", func(t *testing.T) {
		t.Parallel()

		g, _ := newGuard(t)
		g.Mark(ctx, "evt_4")
		assert.False(t, g.Seen(ctx, "evt_5"))
	})

	t.Run("marker expires after the window", func(t *testing.T) {
		t.Parallel()

		g, mr := newGuard(t)
		g.Mark(ctx, "evt_6")
		require.True(t, g.Seen(ctx, "evt_6"))

		mr.FastForward(2 * time.Minute)
		assert.False(t, g.Seen(ctx, "evt_6"))
	})

	t.Run("fails open when redis is down", func(t *testing.T) {
		t.Parallel()

		g, mr := newGuard(t)
		mr.Close()
		g.Mark(ctx, "evt_7")
		assert.False(t, g.Seen(ctx, "evt_7"))
	})

	t.Run("nil guard is disabled", func(t *testing.T) {
		t.Parallel()

		var g *dedup.Guard
		g.Mark(ctx, "evt_8")
		assert.False(t, g.Seen(ctx, "evt_8"))
	})

	t.Run("empty event id is never deduplicated", func(t *testing.T) {
		t.Parallel()

		g, _ := newGuard(t)
		g.Mark(ctx, "")
		assert.False(t, g.Seen(ctx, ""))
	})
}
