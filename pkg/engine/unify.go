package engine

import (
	"sort"

	"capsight/pkg/series"
)

// unify orders the merged record table deterministically: entity, then
// period start, then granularity rank, so a day, its week summary and
// its month summary sharing a boundary stay adjacent in a fixed order.
func unify(records []series.AggregatedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		if !a.PeriodStart.Equal(b.PeriodStart) {
			return a.PeriodStart.Before(b.PeriodStart)
		}
		return a.Granularity.Rank() < b.Granularity.Rank()
	})
}

// sortWarnings fixes the warning order so reruns are byte-identical.
func sortWarnings(warnings []series.Warning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		a, b := warnings[i], warnings[j]
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
}
