package resample

import "capsight/pkg/series"

// Summarize derives the open/high/low/close of the metric across one
// day's samples, which must be ordered by timestamp. Samples not
// carrying the metric are ignored; if none carries it the summary is
// undefined. A single sample yields open = high = low = close.
func Summarize(bucket []series.Sample, metric string) *series.OHLC {
	var o *series.OHLC

	for _, s := range bucket {
		v, ok := s.Metrics[metric]
		if !ok {
			continue
		}

		if o == nil {
			o = &series.OHLC{Open: v, High: v, Low: v, Close: v}
			continue
		}

		if v > o.High {
			o.High = v
		}
		if v < o.Low {
			o.Low = v
		}
		o.Close = v
	}

	return o
}
