package position

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositionInRange(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}
	liq, err := Liquidity(Funding{Asset: AssetX, Amount: 1000.0}, 1.0, r)
	require.NoError(t, err)

	comp, err := CompositionAt(liq, 1.0, r)
	require.NoError(t, err)

	assert.InDelta(t, 452.144, comp.X, 0.01)
	assert.InDelta(t, 547.856, comp.Y, 0.01)
	assert.InDelta(t, 1000.0, comp.Value(1.0), 1e-9)
}

func TestCompositionBoundaries(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}
	liq := 5000.0

	// At the lower bound the y side is exactly empty, at the upper
	// bound the x side is.
	atLower, err := CompositionAt(liq, r.Lower, r)
	require.NoError(t, err)
	assert.Zero(t, atLower.Y)
	assert.Greater(t, atLower.X, 0.0)

	atUpper, err := CompositionAt(liq, r.Upper, r)
	require.NoError(t, err)
	assert.Zero(t, atUpper.X)
	assert.Greater(t, atUpper.Y, 0.0)

	// The clamped and literal formulas agree across the bounds: no
	// jump on either side.
	for _, eps := range []float64{1e-9, 1e-12} {
		justBelow, err := CompositionAt(liq, r.Lower-eps, r)
		require.NoError(t, err)
		assert.InDelta(t, atLower.X, justBelow.X, 1e-6)
		assert.InDelta(t, atLower.Y, justBelow.Y, 1e-6)

		justAbove, err := CompositionAt(liq, r.Upper+eps, r)
		require.NoError(t, err)
		assert.InDelta(t, atUpper.X, justAbove.X, 1e-6)
		assert.InDelta(t, atUpper.Y, justAbove.Y, 1e-6)
	}
}

func TestCompositionPlateaus(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}
	liq := 5189.363

	atLower, err := CompositionAt(liq, r.Lower, r)
	require.NoError(t, err)
	for _, p := range []float64{0.79, 0.7, 0.5, 0.01} {
		comp, err := CompositionAt(liq, p, r)
		require.NoError(t, err)
		assert.Equal(t, atLower, comp, "price %g must sit on the all-x plateau", p)
	}

	atUpper, err := CompositionAt(liq, r.Upper, r)
	require.NoError(t, err)
	for _, p := range []float64{1.21, 1.5, 3.0, 100.0} {
		comp, err := CompositionAt(liq, p, r)
		require.NoError(t, err)
		assert.Equal(t, atUpper, comp, "price %g must sit on the all-y plateau", p)
	}
}

func TestCompositionNonNegative(t *testing.T) {
	r := Range{Lower: 0.5, Upper: 2.0}
	for _, liq := range []float64{0, 1, 1234.5} {
		for _, p := range []float64{0.1, 0.5, 0.9, 1.0, 1.7, 2.0, 5.0} {
			comp, err := CompositionAt(liq, p, r)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, comp.X, 0.0, "liq %g price %g", liq, p)
			assert.GreaterOrEqual(t, comp.Y, 0.0, "liq %g price %g", liq, p)
		}
	}
}

func TestCompositionZeroLiquidity(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}
	for _, p := range []float64{0.5, 1.0, 2.0} {
		comp, err := CompositionAt(0, p, r)
		require.NoError(t, err)
		assert.Equal(t, Composition{}, comp)
	}
}

func TestCompositionRejectsBadInputs(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}

	_, err := CompositionAt(-1, 1.0, r)
	assert.ErrorIs(t, err, ErrInvalidFunding)

	_, err = CompositionAt(100, -1.0, r)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = CompositionAt(100, 1.0, Range{Lower: 1.2, Upper: 0.8})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name   string
		lower  float64
		upper  float64
		wantOK bool
	}{
		{"valid", 0.8, 1.2, true},
		{"inverted", 1.2, 0.8, false},
		{"equal bounds", 1.0, 1.0, false},
		{"zero lower", 0, 1.2, false},
		{"negative upper", 0.8, -1.2, false},
		{"nan bound", math.NaN(), 1.2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRange(tt.lower, tt.upper)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRange)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Lower: 0.8, Upper: 1.2}
	assert.True(t, r.Contains(1.0))
	assert.False(t, r.Contains(0.8), "bounds are exclusive")
	assert.False(t, r.Contains(1.2))
	assert.False(t, r.Contains(0.5))
}
