// =============================================
// File: internal/scenario/scenario.go
// =============================================
package scenario

import (
	"fmt"
	"time"

	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
)

// Scenario is one saved position setup from the scenarios YAML file.
type Scenario struct {
	Name       string    `yaml:"name"`
	Asset      string    `yaml:"asset"`
	Amount     float64   `yaml:"amount"`
	Price      float64   `yaml:"price"` // price at funding time
	LowerBound float64   `yaml:"lower_bound"`
	UpperBound float64   `yaml:"upper_bound"`
	EvalPrice  float64   `yaml:"eval_price,omitempty"` // optional price to evaluate at; 0 means funding price
	CreatedAt  time.Time `yaml:"created_at,omitempty"`
}

// NewScenario creates a properly initialized scenario
func NewScenario(name, asset string, amount, price, lower, upper float64) *Scenario {
	return &Scenario{
		Name:       name,
		Asset:      asset,
		Amount:     amount,
		Price:      price,
		LowerBound: lower,
		UpperBound: upper,
		CreatedAt:  time.Now(),
	}
}

// Range returns the price range of the scenario
func (s *Scenario) Range() position.Range {
	return position.Range{Lower: s.LowerBound, Upper: s.UpperBound}
}

// Funding returns the deposit described by the scenario
func (s *Scenario) Funding() (position.Funding, error) {
	asset, err := position.ParseAsset(s.Asset)
	if err != nil {
		return position.Funding{}, err
	}
	return position.Funding{Asset: asset, Amount: s.Amount}, nil
}

// Target returns the price the scenario should be evaluated at
func (s *Scenario) Target() float64 {
	if s.EvalPrice > 0 {
		return s.EvalPrice
	}
	return s.Price
}

// Open funds the position the scenario describes
func (s *Scenario) Open() (position.Position, error) {
	f, err := s.Funding()
	if err != nil {
		return position.Position{}, err
	}
	return position.Open(f, s.Price, s.Range())
}

// Validate checks if the scenario has valid parameters
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name cannot be empty")
	}

	f, err := s.Funding()
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}

	r := s.Range()
	if err := r.Validate(); err != nil {
		return err
	}

	if s.Price <= 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	if s.EvalPrice < 0 {
		return fmt.Errorf("eval price cannot be negative")
	}

	// The deposit must actually buy liquidity at the funding price
	if _, err := position.Liquidity(f, s.Price, r); err != nil {
		return fmt.Errorf("scenario cannot fund a position: %w", err)
	}

	return nil
}
