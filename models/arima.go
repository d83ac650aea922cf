package models

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Order is the (p, d, q) order of an ARIMA model.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// ARIMA is a fitted ARIMA(p,d,q) model. The AR and MA terms act on the series differenced d
// times. History holds the trailing observations of the undifferenced series and Residuals the
// trailing one step innovations, both oldest first.
type ARIMA struct {
	Order     Order     `json:"order"`
	Const     float64   `json:"const"`
	AR        []float64 `json:"ar"`
	MA        []float64 `json:"ma"`
	History   []float64 `json:"history"`
	Residuals []float64 `json:"residuals"`
}

func (a *ARIMA) Validate() error {
	o := a.Order
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("negative order %s, %w", o, ErrInvalidModel)
	}
	if len(a.AR) != o.P {
		return fmt.Errorf("%s has %d ar coefficients, %w", o, len(a.AR), ErrInvalidModel)
	}
	if len(a.MA) != o.Q {
		return fmt.Errorf("%s has %d ma coefficients, %w", o, len(a.MA), ErrInvalidModel)
	}
	if err := checkFinite("const", a.Const); err != nil {
		return err
	}
	if err := checkFinite("ar", a.AR...); err != nil {
		return err
	}
	if err := checkFinite("ma", a.MA...); err != nil {
		return err
	}
	if err := checkFinite("history", a.History...); err != nil {
		return err
	}
	return checkFinite("residuals", a.Residuals...)
}

// Forecast recursively projects the differenced series with future innovations set to zero
// and integrates the result back to the original scale. Returns an empty slice when the
// trailing history is too short to seed the recursion.
func (a *ARIMA) Forecast(steps int) ([]float64, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if steps == 0 || len(a.History) < a.Order.P+a.Order.D {
		return []float64{}, nil
	}

	levels := make([][]float64, a.Order.D+1)
	levels[0] = make([]float64, len(a.History))
	copy(levels[0], a.History)
	for k := 1; k <= a.Order.D; k++ {
		levels[k] = difference(levels[k-1])
	}

	w := make([]float64, len(levels[a.Order.D]), len(levels[a.Order.D])+steps)
	copy(w, levels[a.Order.D])
	e := make([]float64, len(a.Residuals), len(a.Residuals)+steps)
	copy(e, a.Residuals)

	res := make([]float64, steps)
	for h := 0; h < steps; h++ {
		yhat := a.Const
		for i := 1; i <= a.Order.P; i++ {
			yhat += a.AR[i-1] * w[len(w)-i]
		}
		for j := 1; j <= a.Order.Q; j++ {
			if idx := len(e) - j; idx >= 0 {
				yhat += a.MA[j-1] * e[idx]
			}
		}
		w = append(w, yhat)
		e = append(e, 0)
		res[h] = yhat
	}

	for k := a.Order.D - 1; k >= 0; k-- {
		floats.CumSum(res, res)
		floats.AddConst(levels[k][len(levels[k])-1], res)
	}
	return res, nil
}
