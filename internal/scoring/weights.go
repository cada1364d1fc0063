package scoring

import "fmt"

// Weights defines the relative importance of each vehicle-selection
// factor. Scores are on a 0..100 scale, so the weights sum to 100 when
// every factor applies.
type Weights struct {
	CapacityEfficiency float64
	Cost               float64
	Comfort            float64
	RequirementMatch   float64
}

// DefaultWeights returns the standard 30/25/20/25 distribution.
func DefaultWeights() Weights {
	return Weights{
		CapacityEfficiency: 30,
		Cost:               25,
		Comfort:            20,
		RequirementMatch:   25,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.CapacityEfficiency + w.Cost + w.Comfort + w.RequirementMatch
}

// Validate checks that no weight is negative and the total is positive.
func (w Weights) Validate() error {
	for _, v := range []float64{w.CapacityEfficiency, w.Cost, w.Comfort, w.RequirementMatch} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("weights sum to %f, must be positive", w.Sum())
	}
	return nil
}
