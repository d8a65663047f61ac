package position

import "errors"

// Failures surfaced by the math. Matched with errors.Is; wrapping call
// sites add the offending values.
var (
	// ErrInvalidRange covers malformed bands, non-positive prices and
	// solver configurations whose denominator is not positive.
	ErrInvalidRange = errors.New("invalid price range")

	// ErrInvalidFunding covers deposits that cannot buy liquidity:
	// non-positive amounts or an unknown asset tag.
	ErrInvalidFunding = errors.New("invalid funding")

	// ErrZeroHoldValue is returned when the hold-side valuation is
	// zero, which makes the loss ratio undefined.
	ErrZeroHoldValue = errors.New("hold value is zero")
)
