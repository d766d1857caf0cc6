// Package normalize prepares raw capacity samples for aggregation.
//
// Resampling needs one strictly ordered sequence per entity with unique
// timestamps; duplicate timestamps would make bucket membership ambiguous,
// so they are collapsed by averaging.
package normalize

import (
	"sort"

	"capsight/pkg/series"
)

// Normalize groups samples by entity, sorts each group by timestamp and
// merges samples sharing an exact timestamp by averaging their metrics.
// Any sample violating the schema aborts the whole batch.
func Normalize(samples []series.Sample) (map[string][]series.Sample, error) {
	byEntity := make(map[string][]series.Sample)

	for _, s := range samples {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		byEntity[s.EntityID] = append(byEntity[s.EntityID], s)
	}

	for id, group := range byEntity {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
		byEntity[id] = mergeDuplicates(group)
	}

	return byEntity, nil
}

// Entities returns the entity IDs of a normalized batch in ascending order.
func Entities(byEntity map[string][]series.Sample) []string {
	ids := make([]string, 0, len(byEntity))
	for id := range byEntity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// mergeDuplicates collapses runs of samples with identical timestamps
// into one sample whose metrics are the arithmetic mean of the run.
// The input must already be sorted by timestamp.
func mergeDuplicates(sorted []series.Sample) []series.Sample {
	out := make([]series.Sample, 0, len(sorted))

	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Timestamp.Equal(sorted[i].Timestamp) {
			j++
		}

		if j == i+1 {
			out = append(out, sorted[i])
			i = j
			continue
		}

		sums := make(map[string]float64)
		counts := make(map[string]int)
		for _, s := range sorted[i:j] {
			for name, v := range s.Metrics {
				sums[name] += v
				counts[name]++
			}
		}

		merged := series.Sample{
			EntityID:  sorted[i].EntityID,
			Timestamp: sorted[i].Timestamp,
			Metrics:   make(map[string]float64, len(sums)),
		}
		for name, sum := range sums {
			merged.Metrics[name] = sum / float64(counts[name])
		}

		out = append(out, merged)
		i = j
	}

	return out
}
