package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCGSequence(t *testing.T) {
	r := WithSeed(42)
	// (42*9301+49297) % 233280 = 206659
	assert.InDelta(t, 206659.0/233280.0, r.Next(), 1e-12)
}

func TestLCGIsDeterministic(t *testing.T) {
	a, b := WithSeed(101), WithSeed(101)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestLCGRanges(t *testing.T) {
	r := WithSeed(7)
	for i := 0; i < 1000; i++ {
		v := r.Next()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)

		f := r.Range(-2, 3)
		assert.GreaterOrEqual(t, f, -2.0)
		assert.Less(t, f, 3.0)

		n := r.Intn(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestWithSeedNormalizesNegative(t *testing.T) {
	assert.Equal(t, WithSeed(233280-5).Next(), WithSeed(-5).Next())
}

func TestWeighted(t *testing.T) {
	r := WithSeed(3)
	counts := make([]int, 3)
	for i := 0; i < 3000; i++ {
		counts[r.Weighted([]float64{0, 1, 3})]++
	}
	assert.Zero(t, counts[0])
	assert.Greater(t, counts[2], counts[1])
	assert.Equal(t, 0, r.Weighted(nil))
}

func TestSeedFromString(t *testing.T) {
	assert.Equal(t, int64(1), SeedFromString(""))
	assert.Equal(t, int64(97), SeedFromString("a"))
	assert.Equal(t, int64(97*31+98), SeedFromString("ab"))
	assert.NotEqual(t, SeedFromString("forest-1"), SeedFromString("forest-2"))
}
