package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aouyang1/go-envmonitor/catalog"
	"github.com/aouyang1/go-envmonitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantArtifact(parameter string, val float64) *Artifact {
	return &Artifact{
		Parameter: parameter,
		Kind:      KindConstant,
		Constant:  &models.Constant{Value: val},
	}
}

func TestResolveMatchesArtifactPresence(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)

	cat := catalog.Default()
	present := make(map[string]bool)
	for i, name := range cat.Names() {
		if i%3 == 0 {
			continue
		}
		require.Nil(t, s.Save(constantArtifact(name, float64(i))))
		present[name] = true
	}

	for _, name := range cat.Names() {
		t.Run(name, func(t *testing.T) {
			m, err := s.Resolve(name)
			if !present[name] {
				assert.ErrorIs(t, err, ErrModelNotFound)
				assert.Nil(t, m)
				assert.False(t, s.Exists(name))
				return
			}
			require.Nil(t, err)
			assert.NotNil(t, m)
			assert.True(t, s.Exists(name))
		})
	}
}

func TestResolveCorrupt(t *testing.T) {
	testData := map[string]struct {
		content string
		err     error
	}{
		"not json": {
			content: "\x80\x04\x95pickle",
		},
		"unknown kind": {
			content: `{"parameter": "pH Value", "kind": "prophet"}`,
			err:     ErrUnknownKind,
		},
		"missing section": {
			content: `{"parameter": "pH Value", "kind": "arima"}`,
			err:     ErrMissingSection,
		},
		"bound to other parameter": {
			content: `{"parameter": "Humidity (%)", "kind": "constant", "constant": {"value": 1}}`,
		},
		"invalid model state": {
			content: `{"parameter": "pH Value", "kind": "arima", "arima": {"order": {"p": 2}, "ar": [0.5]}}`,
			err:     models.ErrInvalidModel,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := New(dir, nil)
			require.Nil(t, os.WriteFile(s.Path("pH Value"), []byte(td.content), 0o644))

			m, err := s.Resolve("pH Value")
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrModelCorrupt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
		})
	}
}

func TestResolveUnboundArtifact(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)
	content := `{"kind": "holt_winters", "holt_winters": {"level": 7.0, "trend": 0.1}}`
	require.Nil(t, os.WriteFile(filepath.Join(dir, "pH_Value3.json"), []byte(content), 0o644))

	m, err := s.Resolve("pH Value")
	require.Nil(t, err)

	res, err := m.Forecast(2)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{7.1, 7.2}, res, 1e-9)
}

func TestResolveCacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, &Options{Naming: DefaultNaming, Cache: true})
	param := "Sound Level (dB)"

	require.Nil(t, s.Save(constantArtifact(param, 40)))
	first, err := s.Resolve(param)
	require.Nil(t, err)

	again, err := s.Resolve(param)
	require.Nil(t, err)
	assert.Same(t, first, again)

	require.Nil(t, s.Save(constantArtifact(param, 55.5)))
	later := time.Now().Add(time.Hour)
	require.Nil(t, os.Chtimes(s.Path(param), later, later))

	updated, err := s.Resolve(param)
	require.Nil(t, err)
	assert.NotSame(t, first, updated)

	res, err := updated.Forecast(1)
	require.Nil(t, err)
	assert.Equal(t, []float64{55.5}, res)

	require.Nil(t, os.Remove(s.Path(param)))
	_, err = s.Resolve(param)
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestResolveWithoutCache(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, &Options{Naming: DefaultNaming, Cache: false})
	param := "Moisture (%)"
	require.Nil(t, s.Save(constantArtifact(param, 12)))

	first, err := s.Resolve(param)
	require.Nil(t, err)
	second, err := s.Resolve(param)
	require.Nil(t, err)
	assert.NotSame(t, first, second)
}

func TestResolveDirectoryIsNotArtifact(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)
	require.Nil(t, os.Mkdir(s.Path("pH Value"), 0o755))

	_, err := s.Resolve("pH Value")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestSaveRequiresParameter(t *testing.T) {
	s := New(t.TempDir(), nil)
	err := s.Save(&Artifact{Kind: KindConstant, Constant: &models.Constant{}})
	assert.ErrorIs(t, err, ErrModelCorrupt)
}
