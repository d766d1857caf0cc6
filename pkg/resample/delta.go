package resample

import "capsight/pkg/series"

// ClassifyDeltas fills NetChange, Provisioned and Recovered for one
// granularity's record sequence, in place.
//
// The delta anchors on end capacity (last real sample in the period),
// not the period mean: the mean would understate end-of-period state.
// The first record has no prior period, so its net change stays
// undefined. A record adjacent to an empty bucket also stays undefined
// rather than diffing across the gap.
func ClassifyDeltas(records []series.AggregatedRecord) {
	for i := range records {
		records[i].NetChange = nil
		records[i].Provisioned = 0
		records[i].Recovered = 0

		if i == 0 {
			continue
		}

		cur := records[i].EndCapacity
		prev := records[i-1].EndCapacity
		if cur == nil || prev == nil {
			continue
		}

		delta := *cur - *prev
		records[i].NetChange = &delta
		if delta > 0 {
			records[i].Provisioned = delta
		} else {
			records[i].Recovered = -delta
		}
	}
}
