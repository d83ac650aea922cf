package timedataset

import "time"

// TimeSlice is an ordered slice of time points.
type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	if len(t) < 1 {
		return time.Time{}
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	if len(t) < 1 {
		return time.Time{}
	}
	return t[len(t)-1]
}

// EstimateFreq returns the most common spacing between consecutive points. Ties go to the
// shorter spacing.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		frequencies[t[i].Sub(t[i-1])] += 1
	}

	var maxCnt int
	var maxDelta time.Duration
	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}
