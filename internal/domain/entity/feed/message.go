package feed

import "time"

// Kind tags the Message variants.
type Kind string

const (
	KindTick     Kind = "tick"
	KindInterval Kind = "interval"
	KindDaily    Kind = "daily"
)

// Message is a vendor-native event as returned by the feed. Timestamps are
// New York civil time; a zero Time marks an unset sentinel row.
type Message interface {
	Kind() Kind
	Time() time.Time
}

type TickMessage struct {
	Timestamp time.Time
	Last      float64
	Bid       float64
	Ask       float64
	Size      float64
}

func (m TickMessage) Kind() Kind      { return KindTick }
func (m TickMessage) Time() time.Time { return m.Timestamp }

// IntervalMessage is labeled with the close of its interval.
type IntervalMessage struct {
	Timestamp    time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	PeriodVolume float64
}

func (m IntervalMessage) Kind() Kind      { return KindInterval }
func (m IntervalMessage) Time() time.Time { return m.Timestamp }

// DailyMessage covers daily, weekly and monthly rows; Timestamp is the session date.
type DailyMessage struct {
	Timestamp    time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	PeriodVolume float64
}

func (m DailyMessage) Kind() Kind      { return KindDaily }
func (m DailyMessage) Time() time.Time { return m.Timestamp }
