package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aouyang1/go-envmonitor/catalog"
	"github.com/aouyang1/go-envmonitor/dataset"
	"github.com/aouyang1/go-envmonitor/models"
	"github.com/aouyang1/go-envmonitor/store"
	"github.com/aouyang1/go-envmonitor/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0          = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	errSensor   = errors.New("sensor model diverged")
	testCatalog = catalog.New([]catalog.Parameter{
		{Name: "Temperature (°C)"},
		{Name: "pH Value"},
		{Name: "Humidity (%)"},
		{Name: "Turbidity (NTU)"},
	})
)

type forecasterFunc func(steps int) ([]float64, error)

func (f forecasterFunc) Forecast(steps int) ([]float64, error) {
	return f(steps)
}

type mapResolver struct {
	models map[string]models.Forecaster
	calls  map[string]int
}

func (r *mapResolver) Resolve(parameter string) (models.Forecaster, error) {
	r.calls[parameter]++
	m, exists := r.models[parameter]
	if !exists {
		return nil, store.ErrModelNotFound
	}
	return m, nil
}

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	index := []time.Time{t0, t0.Add(time.Minute), t0.Add(2 * time.Minute), t0.Add(3 * time.Minute)}
	tbl, err := dataset.NewTable(
		index,
		map[string][]float64{
			"Temperature (°C)": {10.0, 10.2, math.NaN(), 10.5},
			"pH Value":         {7.0, 7.1, 7.0, 7.2},
			"Humidity (%)":     {math.NaN(), math.NaN(), math.NaN(), math.NaN()},
		},
		[]string{"Temperature (°C)", "pH Value", "Humidity (%)"},
	)
	require.Nil(t, err)
	return tbl
}

func TestForecastWithStore(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, nil)
	require.Nil(t, s.Save(&store.Artifact{
		Parameter: "Temperature (°C)",
		Kind:      store.KindConstant,
		Constant:  &models.Constant{Value: 10.5},
	}))

	e := New(testTable(t), s, testCatalog, nil)
	res, series, err := e.Forecast("Temperature (°C)", DefaultHorizon)
	require.Nil(t, err)

	assert.Equal(t, []float64{10.0, 10.2, 10.5}, series.Y)
	assert.Equal(t, []time.Time{t0, t0.Add(time.Minute), t0.Add(3 * time.Minute)}, series.T)

	require.Equal(t, 10, res.Len())
	for i := 0; i < res.Len(); i++ {
		assert.Equal(t, 10.5, res.Forecast[i])
		assert.Equal(t, t0.Add(time.Duration(3+i+1)*time.Minute), res.T[i])
	}

	first, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, 10.5, first)

	// unchanged table and artifact give identical results
	again, _, err := e.Forecast("Temperature (°C)", DefaultHorizon)
	require.Nil(t, err)
	assert.Equal(t, res, again)

	_, series, err = e.Forecast("pH Value", DefaultHorizon)
	assert.ErrorIs(t, err, store.ErrModelNotFound)
	require.NotNil(t, series)
	assert.Equal(t, 4, series.Len())
}

func TestForecast(t *testing.T) {
	constant := &models.Constant{Value: 1.5}

	testData := map[string]struct {
		parameter   string
		horizon     int
		models      map[string]models.Forecaster
		expectedLen int
		expectedT   bool
		err         error
		resolved    bool
	}{
		"valid horizon": {
			parameter:   "pH Value",
			horizon:     10,
			models:      map[string]models.Forecaster{"pH Value": constant},
			expectedLen: 10,
			expectedT:   true,
			resolved:    true,
		},
		"custom horizon": {
			parameter:   "pH Value",
			horizon:     3,
			models:      map[string]models.Forecaster{"pH Value": constant},
			expectedLen: 3,
			expectedT:   true,
			resolved:    true,
		},
		"negative horizon": {
			parameter: "pH Value",
			horizon:   -1,
			err:       ErrInvalidHorizon,
		},
		"not in catalog": {
			parameter: "Wind Speed (m/s)",
			horizon:   10,
			err:       catalog.ErrUnknownParameter,
		},
		"catalog parameter without column": {
			parameter: "Turbidity (NTU)",
			horizon:   10,
			err:       dataset.ErrUnknownColumn,
		},
		"missing model": {
			parameter: "pH Value",
			horizon:   10,
			err:       store.ErrModelNotFound,
			resolved:  true,
		},
		"model failure": {
			parameter: "pH Value",
			horizon:   10,
			models: map[string]models.Forecaster{
				"pH Value": forecasterFunc(func(int) ([]float64, error) { return nil, errSensor }),
			},
			err:      errSensor,
			resolved: true,
		},
		"no forecastable output": {
			parameter: "pH Value",
			horizon:   10,
			models: map[string]models.Forecaster{
				"pH Value": forecasterFunc(func(int) ([]float64, error) { return []float64{}, nil }),
			},
			expectedLen: 0,
			resolved:    true,
		},
		"wrong length": {
			parameter: "pH Value",
			horizon:   10,
			models: map[string]models.Forecaster{
				"pH Value": forecasterFunc(func(int) ([]float64, error) { return []float64{1, 2}, nil }),
			},
			err:      ErrHorizonMismatch,
			resolved: true,
		},
		"infinite output": {
			parameter: "pH Value",
			horizon:   3,
			models: map[string]models.Forecaster{
				"pH Value": &models.HoltWinters{Level: 1e308, Trend: 1e308},
			},
			err:      ErrNonFinite,
			resolved: true,
		},
		"nan output": {
			parameter: "pH Value",
			horizon:   3,
			models: map[string]models.Forecaster{
				"pH Value": forecasterFunc(func(int) ([]float64, error) { return []float64{7.1, math.NaN(), 7.2}, nil }),
			},
			err:      ErrForecast,
			resolved: true,
		},
		"empty history still calls model": {
			parameter:   "Humidity (%)",
			horizon:     10,
			models:      map[string]models.Forecaster{"Humidity (%)": constant},
			expectedLen: 10,
			expectedT:   false,
			resolved:    true,
		},
		"empty history model error propagates": {
			parameter: "Humidity (%)",
			horizon:   10,
			models: map[string]models.Forecaster{
				"Humidity (%)": forecasterFunc(func(int) ([]float64, error) { return nil, errSensor }),
			},
			err:      ErrForecast,
			resolved: true,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			r := &mapResolver{models: td.models, calls: make(map[string]int)}
			e := New(testTable(t), r, testCatalog, nil)

			res, _, err := e.Forecast(td.parameter, td.horizon)
			if td.resolved {
				assert.Equal(t, 1, r.calls[td.parameter])
			} else {
				assert.Equal(t, 0, r.calls[td.parameter])
			}
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.Nil(t, res)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expectedLen, res.Len())
			if td.expectedT {
				assert.Len(t, res.T, td.expectedLen)
			} else {
				assert.Empty(t, res.T)
			}
		})
	}
}

func TestForecastGapsDoNotChangeLength(t *testing.T) {
	index := timedataset.GenerateT(60, time.Minute, func() time.Time { return t0.Add(time.Hour) })
	values := timedataset.GenerateRampY(60, 20, 0.1).
		SetMissing(index, index[10], index[20]).
		SetMissing(index, index[40], index[45])
	tbl, err := dataset.NewTable(index, map[string][]float64{"Temperature (°C)": values}, []string{"Temperature (°C)"})
	require.Nil(t, err)

	model := forecasterFunc(func(steps int) ([]float64, error) {
		return make([]float64, steps), nil
	})
	r := &mapResolver{models: map[string]models.Forecaster{"Temperature (°C)": model}, calls: make(map[string]int)}

	e := New(tbl, r, nil, &Options{Step: time.Minute})
	for _, horizon := range []int{1, 10, 25} {
		res, series, err := e.Forecast("Temperature (°C)", horizon)
		require.Nil(t, err)
		assert.Equal(t, horizon, res.Len())
		assert.Equal(t, 45, series.Len())
		assert.Equal(t, index[59].Add(time.Minute), res.T[0])
	}
}

func TestResultsAt(t *testing.T) {
	var nilRes *Results
	assert.True(t, nilRes.Empty())
	_, ok := nilRes.First()
	assert.False(t, ok)

	res := &Results{Forecast: []float64{1, 2, 3}}
	v, ok := res.At(2)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	_, ok = res.At(3)
	assert.False(t, ok)
}
