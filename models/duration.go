package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Duration is a time.Duration that serializes as a Go duration string such as "1m". Numbers
// are read as nanoseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		dur, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*d = Duration(dur)
	case float64:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("invalid duration %s", strconv.Quote(string(data)))
	}
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
