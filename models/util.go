package models

import (
	"fmt"
	"math"
)

func checkSteps(steps int) error {
	if steps < 0 {
		return fmt.Errorf("got %d, %w", steps, ErrInvalidSteps)
	}
	return nil
}

func checkFinite(name string, vals ...float64) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s[%d], %w", name, i, ErrNonFinite)
		}
	}
	return nil
}

// difference returns the first order difference of y.
func difference(y []float64) []float64 {
	if len(y) < 2 {
		return []float64{}
	}
	res := make([]float64, len(y)-1)
	for i := 1; i < len(y); i++ {
		res[i-1] = y[i] - y[i-1]
	}
	return res
}
