package position

import (
	"fmt"
	"math"
)

// Composition is the token split of a position at one price.
type Composition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Value prices the split in X units at p.
func (c Composition) Value(p float64) float64 {
	return c.X + c.Y/p
}

// CompositionAt derives the token balances held by liquidity liq in
// band r when the market trades at p. The formulas evaluate at the
// price clamped into the band, so the function is total over p > 0:
// below Lower the position is all X and frozen at its Lower split,
// above Upper it is all Y and frozen at its Upper split, and the
// clamped and literal formulas agree exactly at the bounds.
func CompositionAt(liq, p float64, r Range) (Composition, error) {
	if err := r.Validate(); err != nil {
		return Composition{}, err
	}
	if err := validPrice(p); err != nil {
		return Composition{}, err
	}
	if !isFinite(liq) || liq < 0 {
		return Composition{}, fmt.Errorf("%w: liquidity must be non-negative, got %g", ErrInvalidFunding, liq)
	}

	sqrtEff := math.Sqrt(r.clamp(p))
	return Composition{
		X: liq * (1/sqrtEff - 1/math.Sqrt(r.Upper)),
		Y: liq * (sqrtEff - math.Sqrt(r.Lower)),
	}, nil
}
