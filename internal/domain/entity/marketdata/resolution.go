package marketdata

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownResolution = errors.New("unknown resolution")

type Resolution string

const (
	ResolutionTick   Resolution = "tick"
	ResolutionSecond Resolution = "second"
	ResolutionMinute Resolution = "minute"
	ResolutionHour   Resolution = "hour"
	ResolutionDaily  Resolution = "daily"
)

// ResolutionAll is the command-line meta value meaning tick data plus every
// coarser resolution aggregated from it.
const ResolutionAll = "all"

var periods = map[Resolution]time.Duration{
	ResolutionTick:   0,
	ResolutionSecond: time.Second,
	ResolutionMinute: time.Minute,
	ResolutionHour:   time.Hour,
	ResolutionDaily:  24 * time.Hour,
}

// DerivedFromTick lists the resolutions produced from tick data for ResolutionAll, finest first.
var DerivedFromTick = []Resolution{ResolutionSecond, ResolutionMinute, ResolutionHour, ResolutionDaily}

func (r Resolution) String() string {
	return string(r)
}

func (r Resolution) IsValid() bool {
	_, ok := periods[r]
	return ok
}

// Period is the bar length of the resolution; zero for tick.
func (r Resolution) Period() time.Duration {
	return periods[r]
}

func ParseResolution(s string) (Resolution, error) {
	r := Resolution(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownResolution, s)
	}
	return r, nil
}
