package envmonitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aouyang1/go-envmonitor/forecast"
	"github.com/sirupsen/logrus"
)

const (
	unavailableText = "Prediction unavailable"
	headerLayout    = "2006-01-02 15:04:05"
)

// PredictionRequest is a user's prediction submission. Target defaults to the current time.
type PredictionRequest struct {
	Parameters []string  `json:"parameters"`
	SelectAll  bool      `json:"select_all"`
	Target     time.Time `json:"target"`
}

// Prediction is the summary entry for one parameter.
type Prediction struct {
	Parameter string     `json:"parameter"`
	Available bool       `json:"available"`
	Value     float64    `json:"value"`
	At        *time.Time `json:"at,omitempty"`
	Step      int        `json:"step,omitempty"`
	Error     string     `json:"error,omitempty"`

	Err error `json:"-"`
}

// Display returns the value with two decimals, or the unavailable marker.
func (p Prediction) Display() string {
	if !p.Available {
		return unavailableText
	}
	return fmt.Sprintf("%.2f", p.Value)
}

// Summary is the ordered list of predictions for a request.
type Summary struct {
	Target  time.Time    `json:"target"`
	Entries []Prediction `json:"predictions"`

	// Note is set when a reported value does not correspond to the requested target time.
	Note string `json:"note,omitempty"`
}

func (s *Summary) Header() string {
	return "Predictions for " + s.Target.Format(headerLayout) + ":"
}

// Lines renders one markdown bullet per entry in selection order.
func (s *Summary) Lines() []string {
	lines := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", e.Parameter, e.Display()))
	}
	return lines
}

func (s *Summary) String() string {
	var sb strings.Builder
	sb.WriteString(s.Header())
	for _, line := range s.Lines() {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	if s.Note != "" {
		sb.WriteString("\n\n")
		sb.WriteString(s.Note)
	}
	return sb.String()
}

// Unavailable returns the number of entries without a value.
func (s *Summary) Unavailable() int {
	var n int
	for _, e := range s.Entries {
		if !e.Available {
			n++
		}
	}
	return n
}

// Predict forecasts every requested parameter and reports one value per parameter. A failing
// parameter is marked unavailable without affecting the others. An empty selection returns
// ErrNoParameters before any forecast is attempted and leaves the stored selection untouched.
func (d *Dashboard) Predict(req PredictionRequest) (*Summary, error) {
	params := d.resolveParams(req.Parameters, req.SelectAll)
	if len(params) == 0 {
		return nil, ErrNoParameters
	}
	d.selection.Set(params)

	target := req.Target
	if target.IsZero() {
		target = d.opt.Now()
	}

	summary := &Summary{
		Target:  target,
		Entries: make([]Prediction, 0, len(params)),
	}
	var offTarget bool
	for _, param := range params {
		entry := d.predict(param, target)
		if entry.At != nil && absDuration(target.Sub(*entry.At)) >= d.engine.Step() {
			offTarget = true
		}
		summary.Entries = append(summary.Entries, entry)
	}
	if offTarget {
		summary.Note = fmt.Sprintf(
			"Note: values are forecasts for the step after the last recorded measurement and may not correspond to %s.",
			target.Format(headerLayout),
		)
	}

	d.log.WithFields(logrus.Fields{
		"parameters":  len(params),
		"unavailable": summary.Unavailable(),
		"target":      target,
	}).Info("prediction summary generated")
	return summary, nil
}

func (d *Dashboard) predict(param string, target time.Time) Prediction {
	entry := Prediction{Parameter: param}
	fail := func(err error) Prediction {
		d.log.WithField("parameter", param).WithError(err).Warn("prediction unavailable")
		entry.Err = err
		entry.Error = err.Error()
		return entry
	}

	horizon := d.opt.Horizon
	res, series, err := d.engine.Forecast(param, horizon)
	if err != nil {
		return fail(err)
	}

	idx := 0
	if d.opt.ProjectToTarget && series.Len() > 0 && target.After(series.EndTime()) {
		step := d.engine.Step()
		steps := int(math.Ceil(float64(target.Sub(series.EndTime())) / float64(step)))
		if steps > d.opt.MaxProjectionSteps {
			return fail(fmt.Errorf("%d steps after %s, %w", steps, series.EndTime().Format(headerLayout), ErrTargetOutOfRange))
		}
		if steps > horizon {
			res, _, err = d.engine.Forecast(param, steps)
			if err != nil {
				return fail(err)
			}
		}
		idx = steps - 1
	}

	val, ok := res.At(idx)
	if !ok {
		return fail(fmt.Errorf("no output at step %d, %w", idx+1, forecast.ErrForecast))
	}
	entry.Available = true
	entry.Value = val
	entry.Step = idx + 1
	if idx < len(res.T) {
		at := res.T[idx]
		entry.At = &at
	}
	return entry
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
