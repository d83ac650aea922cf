package timedataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time series")
	ErrNegativeHorizon    = errors.New("horizon count must be non-negative")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length and time must be strictly increasing. Values may be
// NaN to mark a missing reading.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice. The
// inputs are copied. An empty dataset is valid.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// DropMissing returns a copy of the dataset without the points whose value is NaN.
func (td *TimeDataset) DropMissing() *TimeDataset {
	tSeries := make([]time.Time, 0, len(td.T))
	ySeries := make([]float64, 0, len(td.Y))
	for i := 0; i < len(td.T); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		tSeries = append(tSeries, td.T[i])
		ySeries = append(ySeries, td.Y[i])
	}
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

// EndTime returns the last time point or the zero time if the dataset is empty.
func (td *TimeDataset) EndTime() time.Time {
	if td == nil {
		return time.Time{}
	}
	return TimeSlice(td.T).EndTime()
}

// Horizon generates n evenly spaced time points following start, excluding start itself.
func Horizon(start time.Time, n int, interval time.Duration) ([]time.Time, error) {
	if n < 0 {
		return nil, ErrNegativeHorizon
	}
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(time.Duration(i+1)*interval))
	}
	return t, nil
}
