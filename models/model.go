// Package models holds the pre-fitted forecasting models that can be restored from a model
// artifact. Models are never refit here; each one only projects its fitted state forward.
package models

// Forecaster produces point estimates for the next steps following the end of the data the
// model was fit on. Implementations must not mutate their state so repeated calls with the
// same steps return the same values. An empty result with a nil error means the model has no
// forecastable output.
type Forecaster interface {
	Forecast(steps int) ([]float64, error)
}

// Validator is implemented by models that can check their restored state before use.
type Validator interface {
	Validate() error
}
