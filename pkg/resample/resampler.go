package resample

import (
	"time"

	"capsight/pkg/series"
)

// Daily partitions one entity's normalized samples into calendar days and
// aggregates each continuous metric by arithmetic mean. The designated
// metric additionally yields the bucket's end capacity (value of the last
// real sample in the day, not the mean) and an OHLC summary.
//
// Every day between the entity's first and last sample is represented;
// days without samples produce a record with nil Metrics.
func Daily(samples []series.Sample, metric string) []series.AggregatedRecord {
	if len(samples) == 0 {
		return nil
	}

	first := DayStart(samples[0].Timestamp)
	last := DayStart(samples[len(samples)-1].Timestamp)

	var records []series.AggregatedRecord
	idx := 0

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)

		start := idx
		for idx < len(samples) && samples[idx].Timestamp.Before(next) {
			idx++
		}
		bucket := samples[start:idx]

		rec := series.AggregatedRecord{
			EntityID:    samples[0].EntityID,
			PeriodStart: day,
			Granularity: series.GranularityDay,
			SampleCount: len(bucket),
		}

		if len(bucket) > 0 {
			rec.Metrics = meanMetrics(bucket)
			rec.EndCapacity = lastValue(bucket, metric)
			rec.OHLC = Summarize(bucket, metric)
		}

		records = append(records, rec)
	}

	return records
}

// Reaggregate derives weekly or monthly records from the canonical daily
// view. Metric values are means of the defined daily means, end capacity
// is the last defined daily end capacity in the period, sample counts sum.
func Reaggregate(daily []series.AggregatedRecord, granularity series.Granularity) []series.AggregatedRecord {
	if len(daily) == 0 {
		return nil
	}

	var bucketOf func(time.Time) time.Time
	var step func(time.Time) time.Time
	switch granularity {
	case series.GranularityWeek:
		bucketOf = WeekStart
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	case series.GranularityMonth:
		bucketOf = MonthStart
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	default:
		return nil
	}

	first := bucketOf(daily[0].PeriodStart)
	last := bucketOf(daily[len(daily)-1].PeriodStart)

	var records []series.AggregatedRecord
	idx := 0

	for period := first; !period.After(last); period = step(period) {
		rec := series.AggregatedRecord{
			EntityID:    daily[0].EntityID,
			PeriodStart: period,
			Granularity: granularity,
		}

		sums := make(map[string]float64)
		counts := make(map[string]int)

		for idx < len(daily) && bucketOf(daily[idx].PeriodStart).Equal(period) {
			d := daily[idx]
			rec.SampleCount += d.SampleCount
			for name, v := range d.Metrics {
				sums[name] += v
				counts[name]++
			}
			if d.EndCapacity != nil {
				rec.EndCapacity = d.EndCapacity
			}
			idx++
		}

		if len(sums) > 0 {
			rec.Metrics = make(map[string]float64, len(sums))
			for name, sum := range sums {
				rec.Metrics[name] = sum / float64(counts[name])
			}
		}

		records = append(records, rec)
	}

	return records
}

// meanMetrics averages every metric across the bucket's samples.
func meanMetrics(bucket []series.Sample) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range bucket {
		for name, v := range s.Metrics {
			sums[name] += v
			counts[name]++
		}
	}

	means := make(map[string]float64, len(sums))
	for name, sum := range sums {
		means[name] = sum / float64(counts[name])
	}
	return means
}

// lastValue returns the metric's value from the last sample carrying it,
// or nil when no sample in the bucket does.
func lastValue(bucket []series.Sample, metric string) *float64 {
	for i := len(bucket) - 1; i >= 0; i-- {
		if v, ok := bucket[i].Metrics[metric]; ok {
			return &v
		}
	}
	return nil
}
