package position

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveOrderAndValues(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}
	liq, err := Liquidity(Funding{Asset: AssetX, Amount: 1000.0}, 1.0, r)
	require.NoError(t, err)

	prices := []float64{0.5, 0.8, 1.0, 1.2, 1.5}
	points, err := Curve(liq, r, 1.0, prices)
	require.NoError(t, err)
	require.Len(t, points, len(prices))

	for i, p := range prices {
		assert.Equal(t, p, points[i].Price, "output order must match input order")

		want, err := Evaluate(liq, r, 1.0, p)
		require.NoError(t, err)
		assert.Equal(t, want.Loss, points[i].Loss)
		assert.Equal(t, want.LP, points[i].LP)
		assert.Equal(t, want.Hold, points[i].Hold)
	}

	// The identity sample is the curve minimum at exactly zero.
	assert.Zero(t, points[2].Loss)
}

func TestCurveOmitsZeroHoldSamples(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}

	points, err := Curve(0, r, 1.0, []float64{0.9, 1.0, 1.1})
	require.NoError(t, err)
	assert.Empty(t, points, "an empty position holds nothing at any price")
}

func TestCurveRejectsBadSample(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}

	_, err := Curve(100, r, 1.0, []float64{1.0, -2.0})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCurveParallelMatchesSerial(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}
	liq, err := Liquidity(Funding{Asset: AssetY, Amount: 2500.0}, 1.05, r)
	require.NoError(t, err)

	prices := SpanGrid(1.0, 0.5, 200)

	serial, err := Curve(liq, r, 1.0, prices)
	require.NoError(t, err)

	for _, workers := range []int{1, 4, 32} {
		parallel, err := CurveParallel(context.Background(), workers, liq, r, 1.0, prices)
		require.NoError(t, err)
		assert.Equal(t, serial, parallel, "workers=%d", workers)
	}
}

func TestCurveParallelPropagatesError(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}

	_, err := CurveParallel(context.Background(), 8, 100, r, 1.0, []float64{1.0, 0, 1.1})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGrid(t *testing.T) {
	samples := Grid(0.5, 1.5, 5)
	require.Len(t, samples, 5)
	assert.Equal(t, 0.5, samples[0])
	assert.Equal(t, 1.5, samples[4])
	assert.InDelta(t, 0.75, samples[1], 1e-12)
	assert.InDelta(t, 1.0, samples[2], 1e-12)

	assert.Nil(t, Grid(0.5, 1.5, 0))
	assert.Equal(t, []float64{0.5}, Grid(0.5, 1.5, 1))
}

func TestSpanGrid(t *testing.T) {
	samples := SpanGrid(1.0, 0.5, 200)
	require.Len(t, samples, 200)
	assert.InDelta(t, 0.5, samples[0], 1e-12)
	assert.Equal(t, 1.5, samples[199])
	for _, p := range samples {
		assert.Greater(t, p, 0.0)
	}
}

func BenchmarkCurve(b *testing.B) {
	r := Range{Lower: 0.8, Upper: 1.2}
	liq, err := Liquidity(Funding{Asset: AssetX, Amount: 1000.0}, 1.0, r)
	if err != nil {
		b.Fatalf("solve liquidity: %v", err)
	}
	prices := SpanGrid(1.0, 0.5, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Curve(liq, r, 1.0, prices); err != nil {
			b.Fatalf("curve: %v", err)
		}
	}
}
