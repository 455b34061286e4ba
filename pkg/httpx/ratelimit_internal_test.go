package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBucketsSweepIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBuckets(RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5})
	b.now = func() time.Time { return now }
	b.lastSweep = now

	ok, _ := b.take("idle")
	require.True(t, ok)

	now = now.Add(4*time.Minute + 30*time.Second)
	ok, _ = b.take("busy")
	require.True(t, ok)
	require.Len(t, b.byKey, 2)

	// Past the sweep interval "idle" has been quiet for longer than a full
	// refill and is dropped; "busy" was seen half a minute ago and survives.
	now = now.Add(31 * time.Second)
	ok, _ = b.take("busy")
	require.True(t, ok)
	require.Len(t, b.byKey, 1)
	require.Contains(t, b.byKey, "busy")
}

func TestBucketsWait(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBuckets(RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 1})
	b.now = func() time.Time { return now }

	ok, _ := b.take("k")
	require.True(t, ok)

	ok, wait := b.take("k")
	require.False(t, ok)
	require.InDelta(t, float64(30*time.Second), float64(wait), float64(time.Millisecond))

	now = now.Add(31 * time.Second)
	ok, _ = b.take("k")
	require.True(t, ok)
}
