package position

import "fmt"

// Valuation compares the position against holding its initial split.
// LP and Hold are denominated in X units at the new price; Loss is the
// relative shortfall (Hold - LP) / Hold, zero when the price returns
// to its initial level and positive whenever the position underperforms
// the hold.
type Valuation struct {
	LP   float64 `json:"lp_value"`
	Hold float64 `json:"hold_value"`
	Loss float64 `json:"loss"`
}

// Evaluate computes the loss of holding the position from pInitial to
// pNew versus leaving the pInitial split untouched. Both sides are
// valued at pNew, so they are directly comparable. The loss comes out
// of the arithmetic as is; it is never clamped.
func Evaluate(liq float64, r Range, pInitial, pNew float64) (Valuation, error) {
	init, err := CompositionAt(liq, pInitial, r)
	if err != nil {
		return Valuation{}, err
	}
	current, err := CompositionAt(liq, pNew, r)
	if err != nil {
		return Valuation{}, err
	}

	lp := current.Value(pNew)
	hold := init.Value(pNew)
	if hold == 0 {
		return Valuation{}, fmt.Errorf("%w: position holds nothing at price %g", ErrZeroHoldValue, pInitial)
	}
	return Valuation{
		LP:   lp,
		Hold: hold,
		Loss: (hold - lp) / hold,
	}, nil
}
