package store

import (
	"fmt"
	"os"
	"time"

	"github.com/aouyang1/go-envmonitor/models"
	"github.com/goccy/go-json"
)

type Kind string

const (
	KindARIMA       Kind = "arima"
	KindHoltWinters Kind = "holt_winters"
	KindLinear      Kind = "linear"
	KindConstant    Kind = "constant"
)

// Artifact is the serialized form of a pre-fitted model bound to one parameter. Only the
// section matching Kind is read.
type Artifact struct {
	Parameter string `json:"parameter"`
	Kind      Kind   `json:"kind"`

	// TrainEndTime and Scores describe the fit and are informational only.
	TrainEndTime time.Time          `json:"train_end_time,omitempty"`
	Scores       map[string]float64 `json:"scores,omitempty"`

	ARIMA       *models.ARIMA       `json:"arima,omitempty"`
	HoltWinters *models.HoltWinters `json:"holt_winters,omitempty"`
	Linear      *models.Linear      `json:"linear,omitempty"`
	Constant    *models.Constant    `json:"constant,omitempty"`
}

// Forecaster returns the model held by the artifact section selected by Kind.
func (a *Artifact) Forecaster() (models.Forecaster, error) {
	var (
		f       models.Forecaster
		present bool
	)
	switch a.Kind {
	case KindARIMA:
		f, present = a.ARIMA, a.ARIMA != nil
	case KindHoltWinters:
		f, present = a.HoltWinters, a.HoltWinters != nil
	case KindLinear:
		f, present = a.Linear, a.Linear != nil
	case KindConstant:
		f, present = a.Constant, a.Constant != nil
	default:
		return nil, fmt.Errorf("%q, %w", a.Kind, ErrUnknownKind)
	}
	if !present {
		return nil, fmt.Errorf("%q, %w", a.Kind, ErrMissingSection)
	}
	if v, ok := f.(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Decode parses an artifact and returns its model. The artifact must either be unbound or
// bound to parameter. All failures wrap ErrModelCorrupt.
func Decode(data []byte, parameter string) (models.Forecaster, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrModelCorrupt)
	}
	if a.Parameter != "" && a.Parameter != parameter {
		return nil, fmt.Errorf("artifact bound to %q, not %q, %w", a.Parameter, parameter, ErrModelCorrupt)
	}
	f, err := a.Forecaster()
	if err != nil {
		return nil, fmt.Errorf("%w, %w", err, ErrModelCorrupt)
	}
	return f, nil
}

// WriteArtifact serializes an artifact to path.
func WriteArtifact(path string, a *Artifact) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
