// Package forecast pairs the historical series of a parameter with its pre-fitted model and
// produces a fixed length sequence of future point estimates.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-envmonitor/catalog"
	"github.com/aouyang1/go-envmonitor/logging"
	"github.com/aouyang1/go-envmonitor/models"
	"github.com/aouyang1/go-envmonitor/timedataset"
	"github.com/sirupsen/logrus"
)

var (
	ErrForecast        = errors.New("forecast failed")
	ErrInvalidHorizon  = errors.New("horizon must be non-negative")
	ErrHorizonMismatch = errors.New("model returned a different number of steps than requested")
	ErrNonFinite       = errors.New("model returned a non-finite value")
)

const (
	DefaultHorizon = 10
	DefaultStep    = time.Minute
)

// HistorySource provides the missing-filtered history of a parameter.
type HistorySource interface {
	Series(name string) (*timedataset.TimeDataset, error)
}

// Resolver provides the pre-fitted model of a parameter.
type Resolver interface {
	Resolve(parameter string) (models.Forecaster, error)
}

type Options struct {
	// Step is the spacing of forecast time points after the last historical timestamp.
	Step   time.Duration
	Logger logrus.FieldLogger
}

func NewDefaultOptions() *Options {
	return &Options{
		Step: DefaultStep,
	}
}

// Engine is the forecast engine. It holds no mutable state and can serve concurrent callers
// as long as its history source and resolver can.
type Engine struct {
	history  HistorySource
	resolver Resolver
	catalog  *catalog.Catalog
	step     time.Duration
	log      logrus.FieldLogger
}

// New creates an engine. A nil catalog allows any parameter present in the history source.
func New(history HistorySource, resolver Resolver, cat *catalog.Catalog, opt *Options) *Engine {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	step := opt.Step
	if step <= 0 {
		step = DefaultStep
	}
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		history:  history,
		resolver: resolver,
		catalog:  cat,
		step:     step,
		log:      log.WithField("component", "forecast"),
	}
}

// Step returns the spacing between forecast time points.
func (e *Engine) Step() time.Duration {
	return e.step
}

// Forecast runs the model of parameter for exactly horizon steps and returns the forecast
// together with the missing-filtered history it follows. The history is also returned when the
// model cannot be resolved or fails so callers can still display it.
//
// A model without forecastable output yields empty Results and no error. The model is called
// even when the history is empty.
func (e *Engine) Forecast(parameter string, horizon int) (*Results, *timedataset.TimeDataset, error) {
	if horizon < 0 {
		return nil, nil, fmt.Errorf("got %d, %w, %w", horizon, ErrInvalidHorizon, ErrForecast)
	}
	if e.catalog != nil && !e.catalog.Contains(parameter) {
		return nil, nil, fmt.Errorf("%q, %w", parameter, catalog.ErrUnknownParameter)
	}

	series, err := e.history.Series(parameter)
	if err != nil {
		return nil, nil, err
	}

	log := e.log.WithField("parameter", parameter)

	model, err := e.resolver.Resolve(parameter)
	if err != nil {
		log.WithError(err).Debug("unable to resolve model")
		return nil, series, err
	}

	values, err := model.Forecast(horizon)
	if err != nil {
		log.WithError(err).Debug("model forecast failed")
		return nil, series, fmt.Errorf("unable to forecast %q, %w: %w", parameter, ErrForecast, err)
	}

	res := &Results{Parameter: parameter}
	if len(values) == 0 {
		log.Debug("model produced no forecastable output")
		return res, series, nil
	}
	if len(values) != horizon {
		return nil, series, fmt.Errorf(
			"%q expected %d steps, but got %d, %w: %w",
			parameter, horizon, len(values), ErrForecast, ErrHorizonMismatch,
		)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			log.WithField("step", i+1).Debug("model produced a non-finite value")
			return nil, series, fmt.Errorf(
				"%q step %d is %v, %w: %w",
				parameter, i+1, v, ErrForecast, ErrNonFinite,
			)
		}
	}

	res.Forecast = make([]float64, horizon)
	copy(res.Forecast, values)
	if series.Len() > 0 {
		res.T, err = timedataset.Horizon(series.EndTime(), horizon, e.step)
		if err != nil {
			return nil, series, fmt.Errorf("%w: %w", ErrForecast, err)
		}
	}

	log.WithFields(logrus.Fields{
		"horizon":     horizon,
		"history_len": series.Len(),
		"history_end": series.EndTime(),
	}).Debug("forecast complete")
	return res, series, nil
}
