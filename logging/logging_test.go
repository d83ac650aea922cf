package logging

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		level         string
		environment   string
		expectedLevel logrus.Level
		expectedJSON  bool
	}{
		"debug development":  {"debug", "development", logrus.DebugLevel, false},
		"warn production":    {"warn", "production", logrus.WarnLevel, true},
		"invalid falls back": {"loud", "production", logrus.InfoLevel, true},
		"empty falls back":   {"", "staging", logrus.InfoLevel, true},
		"case insensitive":   {"ERROR", "Development", logrus.ErrorLevel, false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithOutput(&buf, td.level, td.environment)
			assert.Equal(t, td.expectedLevel, logger.GetLevel())

			logger.WithField("parameter", "pH Value").Error("model missing")

			if td.expectedJSON {
				var entry map[string]interface{}
				require.Nil(t, json.Unmarshal(buf.Bytes(), &entry))
				assert.Equal(t, "model missing", entry["msg"])
				assert.Equal(t, "pH Value", entry["parameter"])
				assert.Equal(t, "error", entry["level"])
				return
			}
			assert.Contains(t, buf.String(), "model missing")
			assert.Contains(t, buf.String(), "parameter=\"pH Value\"")
		})
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Info("dropped") })
}
