// Package position implements the concentrated-liquidity math for a
// single Uniswap-v3-style range position: solving the liquidity
// parameter from a one-sided deposit, deriving the token split at any
// price, and valuing the position against a passive hold.
//
// Prices quote asset X in units of asset Y. Valuations denominate
// everything in X units, so Y balances convert back with a division by
// price. All functions are pure; values go in, values come out.
package position

import (
	"fmt"
	"math"
)

// Range is the price band a position provides liquidity in.
type Range struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewRange validates the bounds and returns the band.
func NewRange(lower, upper float64) (Range, error) {
	r := Range{Lower: lower, Upper: upper}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate checks the band invariant: finite bounds, 0 < Lower < Upper.
func (r Range) Validate() error {
	if !isFinite(r.Lower) || !isFinite(r.Upper) {
		return fmt.Errorf("%w: bounds must be finite numbers, got [%g, %g]", ErrInvalidRange, r.Lower, r.Upper)
	}
	if r.Lower <= 0 || r.Upper <= 0 {
		return fmt.Errorf("%w: bounds must be positive, got [%g, %g]", ErrInvalidRange, r.Lower, r.Upper)
	}
	if r.Lower >= r.Upper {
		return fmt.Errorf("%w: lower bound %g must be below upper bound %g", ErrInvalidRange, r.Lower, r.Upper)
	}
	return nil
}

// Contains reports whether p sits strictly inside the band.
func (r Range) Contains(p float64) bool {
	return p > r.Lower && p < r.Upper
}

// clamp pins p into [Lower, Upper]. Both composition formulas evaluate
// at the clamped price, which freezes the position at its boundary
// split once the market leaves the band.
func (r Range) clamp(p float64) float64 {
	return math.Min(math.Max(p, r.Lower), r.Upper)
}

// Position is an open liquidity position: the solved liquidity
// parameter and the band it is concentrated in. Positions are value
// objects; every derived quantity is recomputed per query.
type Position struct {
	Liquidity float64 `json:"liquidity"`
	Range     Range   `json:"range"`
}

// Open solves the liquidity for a deposit at price p and wraps it with
// its range.
func Open(f Funding, p float64, r Range) (Position, error) {
	liq, err := Liquidity(f, p, r)
	if err != nil {
		return Position{}, err
	}
	return Position{Liquidity: liq, Range: r}, nil
}

// CompositionAt derives the token split of the position at price p.
func (pos Position) CompositionAt(p float64) (Composition, error) {
	return CompositionAt(pos.Liquidity, p, pos.Range)
}

// Evaluate values the position at pNew against holding the pInitial
// split untouched.
func (pos Position) Evaluate(pInitial, pNew float64) (Valuation, error) {
	return Evaluate(pos.Liquidity, pos.Range, pInitial, pNew)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validPrice(p float64) error {
	if !isFinite(p) || p <= 0 {
		return fmt.Errorf("%w: price must be a positive finite number, got %g", ErrInvalidRange, p)
	}
	return nil
}
