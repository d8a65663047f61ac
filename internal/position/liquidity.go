package position

import (
	"fmt"
	"math"
)

// Liquidity solves the pool liquidity parameter bought by a one-sided
// deposit at price p into the band r.
//
// An X deposit prices the whole position in X terms: the deposit is
// notionally swapped at p with no fees and enters the pool on both
// sides, so the funded amount equals the opening position value
// x + y/p. A Y deposit uses the direct closed form y = L*(sqrt(p) -
// sqrt(lower)), so the funded amount lands in the y balance exactly.
// The two conventions are applied consistently everywhere a funding
// amount is compared with a composition.
func Liquidity(f Funding, p float64, r Range) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	if err := validPrice(p); err != nil {
		return 0, err
	}
	if err := f.Validate(); err != nil {
		return 0, err
	}

	sqrtP := math.Sqrt(p)
	switch f.Asset {
	case AssetX:
		// Marginal x-cost of one unit of liquidity at p within the band.
		denom := 2*sqrtP - math.Sqrt(r.Lower) - p/math.Sqrt(r.Upper)
		if denom <= 0 {
			return 0, fmt.Errorf("%w: price %g cannot absorb an x deposit into [%g, %g]",
				ErrInvalidRange, p, r.Lower, r.Upper)
		}
		return p * f.Amount / denom, nil
	case AssetY:
		denom := sqrtP - math.Sqrt(r.Lower)
		if denom <= 0 {
			return 0, fmt.Errorf("%w: price %g is not above the lower bound %g, a y deposit buys no liquidity",
				ErrInvalidRange, p, r.Lower)
		}
		return f.Amount / denom, nil
	default:
		return 0, fmt.Errorf("%w: unknown asset %q", ErrInvalidFunding, string(f.Asset))
	}
}
