package series

import (
	"fmt"
	"time"
)

// Granularity represents the length of an aggregation period
type Granularity string

const (
	GranularityDay        Granularity = "day"
	GranularityWeek       Granularity = "week"
	GranularityMonth      Granularity = "month"
	GranularityProjection Granularity = "projection" // forward-looking pseudo-granularity
)

// Rank orders granularities for records sharing a period boundary:
// a day, its week summary and its month summary sort adjacently.
func (g Granularity) Rank() int {
	switch g {
	case GranularityDay:
		return 0
	case GranularityWeek:
		return 1
	case GranularityMonth:
		return 2
	case GranularityProjection:
		return 3
	default:
		return 4
	}
}

// Required capacity metrics. Every sample must carry all four.
const (
	MetricUsable              = "usable_capacity"
	MetricUsed                = "used_capacity"
	MetricSubscribed          = "subscribed_capacity"
	MetricSubscribedAllocated = "subscribed_allocated_capacity"
)

// RequiredMetrics lists the metrics a sample must carry to be usable.
var RequiredMetrics = []string{
	MetricUsable,
	MetricUsed,
	MetricSubscribed,
	MetricSubscribedAllocated,
}

// Sample is one capacity observation for one entity.
// Metrics holds the required capacity metrics plus any extra
// continuous metrics the caller wants aggregated alongside them.
type Sample struct {
	EntityID  string             `json:"entity_id"`
	Timestamp time.Time          `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Validate checks the sample against the schema. A violation is fatal
// for the whole batch: the input is structurally unusable.
func (s Sample) Validate() error {
	if s.EntityID == "" {
		return &SchemaError{Field: "entity_id", Reason: "empty"}
	}
	if s.Timestamp.IsZero() {
		return &SchemaError{Field: "timestamp", Entity: s.EntityID, Reason: "zero value"}
	}
	for _, name := range RequiredMetrics {
		if _, ok := s.Metrics[name]; !ok {
			return &SchemaError{Field: name, Entity: s.EntityID, Reason: "missing metric"}
		}
	}
	return nil
}

// OHLC summarizes the designated metric within one day.
type OHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// AggregatedRecord is one row of the unified output table.
//
// Optional numerics are pointers so that "undefined" stays distinguishable
// from zero: Metrics is nil for a bucket with no samples, NetChange is nil
// for the first period of a series or when an adjacent end capacity is
// undefined, and OHLC is only set at day granularity.
type AggregatedRecord struct {
	EntityID     string             `json:"entity_id"`
	PeriodStart  time.Time          `json:"period_start"`
	Granularity  Granularity        `json:"granularity"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
	SampleCount  int                `json:"sample_count"`
	EndCapacity  *float64           `json:"end_capacity,omitempty"`
	NetChange    *float64           `json:"net_change,omitempty"`
	Provisioned  float64            `json:"provisioned"`
	Recovered    float64            `json:"recovered"`
	OHLC         *OHLC              `json:"ohlc,omitempty"`
	IsProjection bool               `json:"is_projection"`
	Note         string             `json:"provision_note,omitempty"`
}

// EventKind classifies a future capacity-change event.
type EventKind string

const (
	KindProvision EventKind = "provision"
	KindRecovery  EventKind = "recovery"
)

// FutureEvent is a discrete, scheduled capacity change applied to an
// entity's projection as a step function. Supplied by the caller,
// immutable during processing.
type FutureEvent struct {
	EntityID string    `json:"entity_id"`
	Date     time.Time `json:"event_date"`
	Amount   float64   `json:"amount"`
	Kind     EventKind `json:"kind"`
}

// Validate checks the event kind. Unknown kinds are fatal.
func (e FutureEvent) Validate() error {
	switch e.Kind {
	case KindProvision, KindRecovery:
		return nil
	default:
		return &SchemaError{Field: "kind", Entity: e.EntityID, Reason: fmt.Sprintf("unknown event kind %q", e.Kind)}
	}
}

// SchemaError reports structurally unusable input. It aborts the batch.
type SchemaError struct {
	Field  string
	Entity string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("schema error: entity %s: field %s: %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema error: field %s: %s", e.Field, e.Reason)
}

// WarningCode identifies a recoverable, per-entity condition.
type WarningCode string

const (
	WarnProjectionUnavailable WarningCode = "projection_unavailable"
	WarnEventOutOfRange       WarningCode = "event_out_of_range"
	WarnDegenerateTrend       WarningCode = "degenerate_trend"
)

// Warning is attached to the output instead of being thrown: one
// entity's trouble never blocks another entity's results.
type Warning struct {
	EntityID string      `json:"entity_id"`
	Code     WarningCode `json:"code"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.EntityID, w.Code, w.Message)
}
