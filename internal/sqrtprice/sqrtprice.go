// Package sqrtprice converts the price encodings used by on-chain
// pools (Q64.96 square-root prices and ticks) into the plain float
// prices the calculator works with. The engine itself stays tick-free;
// these are input conveniences only.
package sqrtprice

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// tickBase is the per-tick price ratio used by v3 pools.
const tickBase = 1.0001

func q96() *big.Float {
	return new(big.Float).SetPrec(192).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))
}

// PriceFromSqrtX96 decodes a Q64.96 square-root price into a human
// price, rescaled for the token decimals (price of token0 in token1
// units times 10^(decimals0-decimals1)).
func PriceFromSqrtX96(sqrtX96 *uint256.Int, decimals0, decimals1 int) (float64, error) {
	if sqrtX96 == nil || sqrtX96.IsZero() {
		return 0, fmt.Errorf("sqrt price is zero")
	}
	f := new(big.Float).SetPrec(192).SetInt(sqrtX96.ToBig())
	f.Quo(f, q96())
	ratio, _ := f.Float64()
	return ratio * ratio * math.Pow(10, float64(decimals0-decimals1)), nil
}

// SqrtX96FromPrice encodes a positive price as a Q64.96 square-root
// price. The result carries float64 precision, which is all the
// calculator needs.
func SqrtX96FromPrice(price float64) (*uint256.Int, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, fmt.Errorf("price must be a positive finite number, got %g", price)
	}
	f := new(big.Float).SetPrec(192).SetFloat64(math.Sqrt(price))
	f.Mul(f, q96())
	i, _ := f.Int(nil)
	v, overflow := uint256.FromBig(i)
	if overflow {
		return nil, fmt.Errorf("price %g does not fit a 256-bit sqrt encoding", price)
	}
	return v, nil
}

// PriceFromTick returns the price at a tick index, 1.0001^tick.
func PriceFromTick(tick int) float64 {
	return math.Pow(tickBase, float64(tick))
}

// TickForPrice returns the tick index whose price is nearest to p.
func TickForPrice(price float64) (int, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("price must be a positive finite number, got %g", price)
	}
	return int(math.Round(math.Log(price) / math.Log(tickBase))), nil
}

// ParsePrice reads a price from user input. Plain numbers pass
// through; "tick:<index>" and "x96:<sqrt price>" (decimal or 0x hex)
// select the pool encodings. X96 input assumes equal token decimals;
// use PriceFromSqrtX96 directly when they differ.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "tick:"):
		tick, err := strconv.Atoi(strings.TrimPrefix(s, "tick:"))
		if err != nil {
			return 0, fmt.Errorf("malformed tick input %q: %w", s, err)
		}
		return PriceFromTick(tick), nil
	case strings.HasPrefix(s, "x96:"):
		raw := strings.TrimPrefix(s, "x96:")
		var (
			v   *uint256.Int
			err error
		)
		if strings.HasPrefix(raw, "0x") {
			v, err = uint256.FromHex(raw)
		} else {
			v, err = uint256.FromDecimal(raw)
		}
		if err != nil {
			return 0, fmt.Errorf("malformed sqrt price input %q: %w", s, err)
		}
		return PriceFromSqrtX96(v, 0, 0)
	default:
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed price input %q: %w", s, err)
		}
		return price, nil
	}
}
