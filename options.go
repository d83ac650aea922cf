package envmonitor

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultHorizon            = 10
	DefaultMaxProjectionSteps = 1440
	DefaultPanelHeight        = 300
)

type Options struct {
	// Horizon is the number of steps forecast for every prediction and graph panel.
	Horizon int

	// ProjectToTarget reports the forecast at the requested target time instead of the next
	// step, extending the horizon up to MaxProjectionSteps.
	ProjectToTarget    bool
	MaxProjectionSteps int

	// PanelHeight is the pixel height of each stacked graph panel.
	PanelHeight int

	Now    func() time.Time
	Logger logrus.FieldLogger
}

func NewDefaultOptions() *Options {
	return &Options{
		Horizon:            DefaultHorizon,
		MaxProjectionSteps: DefaultMaxProjectionSteps,
		PanelHeight:        DefaultPanelHeight,
		Now:                time.Now,
	}
}

func (o *Options) withDefaults() *Options {
	def := NewDefaultOptions()
	if o == nil {
		return def
	}
	res := *o
	if res.Horizon <= 0 {
		res.Horizon = def.Horizon
	}
	if res.MaxProjectionSteps <= 0 {
		res.MaxProjectionSteps = def.MaxProjectionSteps
	}
	if res.PanelHeight <= 0 {
		res.PanelHeight = def.PanelHeight
	}
	if res.Now == nil {
		res.Now = def.Now
	}
	return &res
}
