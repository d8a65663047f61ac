package sqrtprice

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q96Int(t *testing.T) *uint256.Int {
	t.Helper()
	v, overflow := uint256.FromBig(new(big.Int).Lsh(big.NewInt(1), 96))
	require.False(t, overflow)
	return v
}

func TestPriceFromTick(t *testing.T) {
	assert.Equal(t, 1.0, PriceFromTick(0))
	assert.InDelta(t, 1.0001, PriceFromTick(1), 1e-12)
	// 1.0001^6931 lands just under a price doubling.
	assert.InEpsilon(t, 2.0, PriceFromTick(6931), 1e-3)
	assert.InEpsilon(t, 0.5, PriceFromTick(-6932), 1e-3)
}

func TestTickForPrice(t *testing.T) {
	for _, tick := range []int{-50000, -1, 0, 1, 887, 50000} {
		got, err := TickForPrice(PriceFromTick(tick))
		require.NoError(t, err)
		assert.Equal(t, tick, got, "tick %d must survive the round trip", tick)
	}

	_, err := TickForPrice(0)
	assert.Error(t, err)
	_, err = TickForPrice(-3)
	assert.Error(t, err)
}

func TestSqrtX96UnitPrice(t *testing.T) {
	v, err := SqrtX96FromPrice(1.0)
	require.NoError(t, err)
	assert.Equal(t, q96Int(t).String(), v.String(), "sqrt(1) is exactly 2^96")

	price, err := PriceFromSqrtX96(v, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, price)
}

func TestSqrtX96RoundTrip(t *testing.T) {
	for _, price := range []float64{1e-4, 0.5, 1.44, 1234.5678, 1e12} {
		enc, err := SqrtX96FromPrice(price)
		require.NoError(t, err)
		dec, err := PriceFromSqrtX96(enc, 0, 0)
		require.NoError(t, err)
		assert.InEpsilon(t, price, dec, 1e-9, "price %g", price)
	}
}

func TestSqrtX96DecimalScaling(t *testing.T) {
	// A raw pool price of 1e12 with a 6-decimal token0 against an
	// 18-decimal token1 is a human price of 1.0.
	enc, err := SqrtX96FromPrice(1e12)
	require.NoError(t, err)
	price, err := PriceFromSqrtX96(enc, 6, 18)
	require.NoError(t, err)
	assert.InEpsilon(t, 1.0, price, 1e-9)
}

func TestSqrtX96Rejects(t *testing.T) {
	_, err := SqrtX96FromPrice(0)
	assert.Error(t, err)
	_, err = SqrtX96FromPrice(-1)
	assert.Error(t, err)

	_, err = PriceFromSqrtX96(nil, 0, 0)
	assert.Error(t, err)
	_, err = PriceFromSqrtX96(uint256.NewInt(0), 0, 0)
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		eps     float64
		wantErr bool
	}{
		{input: "1.05", want: 1.05},
		{input: " 0.8 ", want: 0.8},
		{input: "tick:0", want: 1.0},
		{input: "tick:6931", want: 2.0, eps: 1e-3},
		{input: "x96:79228162514264337593543950336", want: 1.0},
		{input: "x96:0x1000000000000000000000000", want: 1.0},
		{input: "tick:abc", wantErr: true},
		{input: "x96:notanumber", wantErr: true},
		{input: "1.05x", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.eps > 0 {
				assert.InEpsilon(t, tt.want, got, tt.eps)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
