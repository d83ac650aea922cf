package models

// Constant forecasts the same value for every step.
type Constant struct {
	Value float64 `json:"value"`
}

func (c *Constant) Validate() error {
	return checkFinite("value", c.Value)
}

func (c *Constant) Forecast(steps int) ([]float64, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	res := make([]float64, steps)
	for i := range res {
		res[i] = c.Value
	}
	return res, nil
}
