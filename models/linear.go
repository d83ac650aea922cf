package models

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

type FeatureType string

const (
	FeatureTypeGrowth      FeatureType = "growth"
	FeatureTypeSeasonality FeatureType = "seasonality"
)

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// FeatureWeight is one fitted coefficient of a Linear model. Growth features are the minutes
// elapsed since the model origin. Seasonality features are a fourier component of the given
// order over Period.
type FeatureWeight struct {
	Type        FeatureType `json:"type"`
	Period      Duration    `json:"period,omitempty"`
	Order       int         `json:"order,omitempty"`
	FourierComp FourierComp `json:"fourier_component,omitempty"`
	Value       float64     `json:"value"`
}

func (fw FeatureWeight) String() string {
	switch fw.Type {
	case FeatureTypeGrowth:
		return "growth_linear"
	case FeatureTypeSeasonality:
		return fmt.Sprintf("seas_%s_%02d_%s", fw.Period.Std(), fw.Order, fw.FourierComp)
	}
	return string(fw.Type)
}

func (fw FeatureWeight) validate() error {
	switch fw.Type {
	case FeatureTypeGrowth:
	case FeatureTypeSeasonality:
		if fw.Period <= 0 || fw.Order < 1 {
			return fmt.Errorf("%s needs a positive period and order, %w", fw, ErrInvalidModel)
		}
		if fw.FourierComp != FourierCompSin && fw.FourierComp != FourierCompCos {
			return fmt.Errorf("fourier component %q, %w", fw.FourierComp, ErrUnknownFeature)
		}
	default:
		return fmt.Errorf("%q, %w", fw.Type, ErrUnknownFeature)
	}
	return checkFinite(fw.String(), fw.Value)
}

func (fw FeatureWeight) feature(t time.Time, origin time.Time) float64 {
	switch fw.Type {
	case FeatureTypeGrowth:
		return t.Sub(origin).Minutes()
	case FeatureTypeSeasonality:
		periodSec := fw.Period.Std().Seconds()
		phase := 2.0 * math.Pi * float64(fw.Order) * math.Mod(float64(t.Unix()), periodSec) / periodSec
		if fw.FourierComp == FourierCompSin {
			return math.Sin(phase)
		}
		return math.Cos(phase)
	}
	return 0
}

// Linear is a fitted linear model over a growth term and fourier seasonality. Forecasts are
// evaluated at TrainEndTime + i*Interval.
type Linear struct {
	TrainEndTime time.Time       `json:"train_end_time"`
	Origin       time.Time       `json:"origin"`
	Interval     Duration        `json:"interval"`
	Intercept    float64         `json:"intercept"`
	Weights      []FeatureWeight `json:"weights"`
}

func (l *Linear) Validate() error {
	if l.Interval <= 0 {
		return fmt.Errorf("non-positive interval %s, %w", l.Interval.Std(), ErrInvalidModel)
	}
	if l.TrainEndTime.IsZero() {
		return fmt.Errorf("unset train end time, %w", ErrInvalidModel)
	}
	for _, fw := range l.Weights {
		if err := fw.validate(); err != nil {
			return err
		}
	}
	return checkFinite("intercept", l.Intercept)
}

func (l *Linear) Forecast(steps int) ([]float64, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if steps == 0 {
		return []float64{}, nil
	}

	origin := l.Origin
	if origin.IsZero() {
		origin = l.TrainEndTime
	}

	n := len(l.Weights) + 1
	weights := make([]float64, 0, n)
	weights = append(weights, l.Intercept)
	for _, fw := range l.Weights {
		weights = append(weights, fw.Value)
	}

	features := make([]float64, 0, steps*n)
	for i := 1; i <= steps; i++ {
		t := l.TrainEndTime.Add(time.Duration(i) * l.Interval.Std())
		features = append(features, 1.0)
		for _, fw := range l.Weights {
			features = append(features, fw.feature(t, origin))
		}
	}

	wMx := mat.NewDense(1, n, weights)
	featMx := mat.NewDense(steps, n, features)

	var resMx mat.Dense
	resMx.Mul(wMx, featMx.T())
	return mat.Row(nil, 0, &resMx), nil
}
