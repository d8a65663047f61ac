package position

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// CurvePoint is one sample of the loss curve.
type CurvePoint struct {
	Price float64 `json:"price"`
	LP    float64 `json:"lp_value"`
	Hold  float64 `json:"hold_value"`
	Loss  float64 `json:"loss"`
}

// Curve maps Evaluate over the price samples in order. Samples whose
// hold valuation is zero are omitted; any other failure aborts the
// sweep. The result order matches the input order.
func Curve(liq float64, r Range, pInitial float64, prices []float64) ([]CurvePoint, error) {
	points := make([]CurvePoint, 0, len(prices))
	for _, p := range prices {
		v, err := Evaluate(liq, r, pInitial, p)
		if errors.Is(err, ErrZeroHoldValue) {
			continue
		}
		if err != nil {
			return nil, err
		}
		points = append(points, CurvePoint{Price: p, LP: v.LP, Hold: v.Hold, Loss: v.Loss})
	}
	return points, nil
}

// CurveParallel computes the same curve as Curve with up to workers
// goroutines. Every sample depends only on its own inputs, so the
// sweep fans out freely; the output order still matches the input
// order.
func CurveParallel(ctx context.Context, workers int, liq float64, r Range, pInitial float64, prices []float64) ([]CurvePoint, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]CurvePoint, len(prices))
	keep := make([]bool, len(prices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range prices {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			v, err := Evaluate(liq, r, pInitial, p)
			if errors.Is(err, ErrZeroHoldValue) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = CurvePoint{Price: p, LP: v.LP, Hold: v.Hold, Loss: v.Loss}
			keep[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	points := make([]CurvePoint, 0, len(prices))
	for i, ok := range keep {
		if ok {
			points = append(points, results[i])
		}
	}
	return points, nil
}

// Grid returns n evenly spaced samples from lo to hi inclusive.
func Grid(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	step := (hi - lo) / float64(n-1)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = lo + float64(i)*step
	}
	samples[n-1] = hi // avoid drifting past hi on the last step
	return samples
}

// SpanGrid builds the sweep domain around a center price: n samples
// across [(1-span)*center, (1+span)*center]. The span must sit in
// (0, 1) so the lower edge stays positive.
func SpanGrid(center, span float64, n int) []float64 {
	return Grid(center*(1-span), center*(1+span), n)
}
