package forecast

import "time"

// Results holds the point forecasts for one parameter. T[i] is the time step of Forecast[i].
// T is empty when the parameter had no history to anchor the forecast to.
type Results struct {
	Parameter string      `json:"parameter"`
	T         []time.Time `json:"time"`
	Forecast  []float64   `json:"forecast"`
}

func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Forecast)
}

// Empty reports whether the model produced no forecastable output.
func (r *Results) Empty() bool {
	return r.Len() == 0
}

// First returns the next step forecast.
func (r *Results) First() (float64, bool) {
	return r.At(0)
}

// At returns the forecast at the given step index.
func (r *Results) At(idx int) (float64, bool) {
	if idx < 0 || idx >= r.Len() {
		return 0, false
	}
	return r.Forecast[idx], true
}
