// Package envmonitor is the presentation layer of the environmental monitoring dashboard. It turns
// a parameter selection into a prediction summary and a page of stacked forecast graphs.
package envmonitor

import (
	"errors"
	"time"

	"github.com/aouyang1/go-envmonitor/catalog"
	"github.com/aouyang1/go-envmonitor/forecast"
	"github.com/aouyang1/go-envmonitor/logging"
	"github.com/aouyang1/go-envmonitor/timedataset"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoParameters     = errors.New("no parameters selected")
	ErrTargetOutOfRange = errors.New("target time is beyond the maximum projection")
)

// SeriesForecaster forecasts a parameter and returns the history it follows.
type SeriesForecaster interface {
	Forecast(parameter string, horizon int) (*forecast.Results, *timedataset.TimeDataset, error)
	Step() time.Duration
}

// Dashboard drives the prediction and graph views. The selection written by Predict is read by
// Graphs.
type Dashboard struct {
	engine    SeriesForecaster
	catalog   *catalog.Catalog
	selection *Selection
	opt       *Options
	log       logrus.FieldLogger
}

// New creates a dashboard. A nil selection starts a fresh, empty one.
func New(engine SeriesForecaster, cat *catalog.Catalog, selection *Selection, opt *Options) *Dashboard {
	opt = opt.withDefaults()
	if selection == nil {
		selection = NewSelection()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Dashboard{
		engine:    engine,
		catalog:   cat,
		selection: selection,
		opt:       opt,
		log:       log.WithField("component", "dashboard"),
	}
}

func (d *Dashboard) Catalog() *catalog.Catalog {
	return d.catalog
}

func (d *Dashboard) Selection() *Selection {
	return d.selection
}

func (d *Dashboard) Options() Options {
	return *d.opt
}

// resolveParams expands the select all flag and drops duplicate names while keeping order.
func (d *Dashboard) resolveParams(params []string, selectAll bool) []string {
	if selectAll {
		return d.catalog.Names()
	}
	seen := make(map[string]struct{}, len(params))
	res := make([]string, 0, len(params))
	for _, p := range params {
		if p == "" {
			continue
		}
		if _, exists := seen[p]; exists {
			continue
		}
		seen[p] = struct{}{}
		res = append(res, p)
	}
	return res
}
