package config

import "capsight/pkg/series"

// Engine defaults. A zero projection horizon is meaningful ("no
// projection"), so there is deliberately no default horizon.
const (
	DefaultWorkers = 4
	DefaultMetric  = series.MetricUsed
)

// DefaultGranularities is what a run computes when the caller does not
// pick a subset.
var DefaultGranularities = []series.Granularity{
	series.GranularityDay,
	series.GranularityWeek,
	series.GranularityMonth,
}
