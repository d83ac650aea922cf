package models

import "fmt"

// HoltWinters is the fitted state of additive triple exponential smoothing. Samples is the
// number of observations the state has absorbed and positions the seasonal index. A model
// without seasonal components degrades to Holt's linear trend.
type HoltWinters struct {
	Level    float64   `json:"level"`
	Trend    float64   `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Samples  int       `json:"samples"`
}

func (hw *HoltWinters) Validate() error {
	if hw.Samples < 0 {
		return fmt.Errorf("negative sample count %d, %w", hw.Samples, ErrInvalidModel)
	}
	if err := checkFinite("level", hw.Level); err != nil {
		return err
	}
	if err := checkFinite("trend", hw.Trend); err != nil {
		return err
	}
	return checkFinite("seasonal", hw.Seasonal...)
}

func (hw *HoltWinters) Forecast(steps int) ([]float64, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	if err := hw.Validate(); err != nil {
		return nil, err
	}
	res := make([]float64, steps)
	for i := 0; i < steps; i++ {
		h := i + 1
		res[i] = hw.Level + float64(h)*hw.Trend
		if n := len(hw.Seasonal); n > 0 {
			res[i] += hw.Seasonal[(hw.Samples+h-1)%n]
		}
	}
	return res, nil
}
