package timedataset

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// SetMissing marks every point in [start, end) as a missing reading.
func (s Series) SetMissing(t []time.Time, start, end time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
			s[i] = math.NaN()
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

func GenerateRampY(n int, start, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, start+slope*float64(i))
	}
	return Series(y)
}
