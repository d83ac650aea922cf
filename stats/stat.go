// Package stats summarizes sensor histories for display.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrEmpty = errors.New("no observations")

const (
	DefaultLowerPerc   = 0.25
	DefaultUpperPerc   = 0.75
	DefaultTukeyFactor = 1.5
)

// Summary describes a series of readings. Missing values must already be removed.
type Summary struct {
	Count  int     `json:"count"`
	Last   float64 `json:"last"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func Summarize(y []float64) (Summary, error) {
	if len(y) == 0 {
		return Summary{}, ErrEmpty
	}
	s := Summary{
		Count: len(y),
		Last:  y[len(y)-1],
		Min:   floats.Min(y),
		Max:   floats.Max(y),
	}
	if len(y) == 1 {
		s.Mean = y[0]
		return s, nil
	}
	s.Mean, s.StdDev = stat.MeanStdDev(y, nil)
	return s, nil
}

// DetectOutliers returns the indices of readings outside the Tukey fences built from the
// lowerPerc and upperPerc quantiles. A series without spread has no outliers.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	lowerPerc = math.Min(math.Max(lowerPerc, 0.0), 1.0)
	upperPerc = math.Min(math.Max(upperPerc, 0.0), 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)
	if lowerPerc > upperPerc {
		lowerPerc, upperPerc = upperPerc, lowerPerc
	}

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)

	lower := stat.Quantile(lowerPerc, stat.Empirical, yCopy, nil)
	upper := stat.Quantile(upperPerc, stat.Empirical, yCopy, nil)
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
