package otlp

import (
	"fmt"
	"strings"
	"time"
)

// AggregationTemporality selects whether exported values are cumulative since
// start or deltas since the previous export.
type AggregationTemporality string

const (
	AggregationTemporalityCumulative AggregationTemporality = "cumulative"
	AggregationTemporalityDelta      AggregationTemporality = "delta"
)

func (t AggregationTemporality) String() string { return string(t) }

func (t AggregationTemporality) valid() bool {
	return t == AggregationTemporalityCumulative || t == AggregationTemporalityDelta
}

func (t AggregationTemporality) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

func (t *AggregationTemporality) UnmarshalText(text []byte) error {
	v := AggregationTemporality(strings.ToLower(strings.TrimSpace(string(text))))
	if v != "" && !v.valid() {
		return fmt.Errorf("unknown aggregation temporality %q (want cumulative or delta)", string(text))
	}
	*t = v
	return nil
}

// TimeUnit is the granularity used to render duration-based metrics.
type TimeUnit string

const (
	Nanoseconds  TimeUnit = "nanoseconds"
	Microseconds TimeUnit = "microseconds"
	Milliseconds TimeUnit = "milliseconds"
	Seconds      TimeUnit = "seconds"
	Minutes      TimeUnit = "minutes"
	Hours        TimeUnit = "hours"
	Days         TimeUnit = "days"
)

var timeUnits = map[TimeUnit]struct {
	d      time.Duration
	symbol string
}{
	Nanoseconds:  {time.Nanosecond, "ns"},
	Microseconds: {time.Microsecond, "us"},
	Milliseconds: {time.Millisecond, "ms"},
	Seconds:      {time.Second, "s"},
	Minutes:      {time.Minute, "min"},
	Hours:        {time.Hour, "h"},
	Days:         {24 * time.Hour, "d"},
}

func (u TimeUnit) String() string { return string(u) }

func (u TimeUnit) valid() bool {
	_, ok := timeUnits[u]
	return ok
}

// Duration returns the length of one unit, or 0 for an unknown unit.
func (u TimeUnit) Duration() time.Duration {
	return timeUnits[u].d
}

// Symbol returns the UCUM symbol for the unit ("ms", "s", ...).
func (u TimeUnit) Symbol() string {
	return timeUnits[u].symbol
}

// ParseTimeUnitSymbol maps a UCUM time symbol back to its TimeUnit.
func ParseTimeUnitSymbol(symbol string) (TimeUnit, bool) {
	for u, info := range timeUnits {
		if info.symbol == symbol {
			return u, true
		}
	}
	return "", false
}

func (u TimeUnit) MarshalText() ([]byte, error) {
	return []byte(u), nil
}

func (u *TimeUnit) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*u = ""
		return nil
	}
	if v := TimeUnit(s); v.valid() {
		*u = v
		return nil
	}
	if v, ok := ParseTimeUnitSymbol(s); ok {
		*u = v
		return nil
	}
	return fmt.Errorf("unknown time unit %q", string(text))
}

// Protocol is the OTLP transport used by the meter registry.
type Protocol string

const (
	ProtocolHTTPProtobuf Protocol = "http/protobuf"
	ProtocolGRPC         Protocol = "grpc"
)

func (p Protocol) String() string { return string(p) }

func (p Protocol) valid() bool {
	return p == ProtocolHTTPProtobuf || p == ProtocolGRPC
}

func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

func (p *Protocol) UnmarshalText(text []byte) error {
	v := Protocol(strings.ToLower(strings.TrimSpace(string(text))))
	if v == "http" {
		v = ProtocolHTTPProtobuf
	}
	if v != "" && !v.valid() {
		return fmt.Errorf("unknown protocol %q (want http/protobuf or grpc)", string(text))
	}
	*p = v
	return nil
}
