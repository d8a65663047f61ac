package position

import (
	"fmt"
	"strings"
)

// Asset tags which side of the pair a deposit is denominated in.
type Asset string

const (
	// AssetX is the base asset; prices quote one unit of it in Y.
	AssetX Asset = "x"
	// AssetY is the quote asset.
	AssetY Asset = "y"
)

// Valid reports whether the tag is one of the two known assets.
func (a Asset) Valid() bool {
	switch a {
	case AssetX, AssetY:
		return true
	default:
		return false
	}
}

// ParseAsset maps user input to an asset tag, accepting any casing.
func ParseAsset(s string) (Asset, error) {
	switch a := Asset(strings.ToLower(strings.TrimSpace(s))); a {
	case AssetX, AssetY:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown asset %q (want %q or %q)", ErrInvalidFunding, s, AssetX, AssetY)
	}
}

// Funding describes a single-asset deposit used to open a position.
type Funding struct {
	Asset  Asset   `json:"asset"`
	Amount float64 `json:"amount"`
}

// Validate checks that the deposit can buy a usable amount of
// liquidity.
func (f Funding) Validate() error {
	if !f.Asset.Valid() {
		return fmt.Errorf("%w: unknown asset %q", ErrInvalidFunding, string(f.Asset))
	}
	if !isFinite(f.Amount) || f.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %g", ErrInvalidFunding, f.Amount)
	}
	return nil
}
