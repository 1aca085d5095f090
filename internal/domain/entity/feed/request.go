package feed

import (
	"time"
)

// Request is what the connector needs to look up one instrument's history.
// A nil End asks for everything through the latest published data.
type Request struct {
	Ticker          string
	SecurityType    string
	Kind            Kind
	IntervalSeconds int
	Start           time.Time
	End             *time.Time
	OldestFirst     bool
}

func (r Request) IsOpenEnded() bool {
	return r.End == nil
}
