package resample

import (
	"testing"
	"time"

	"capsight/pkg/series"
)

func TestClassifyDeltas(t *testing.T) {
	day := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

	daily := Daily([]series.Sample{
		sample("a", day, 50),
		sample("a", day.AddDate(0, 0, 1), 58),
		sample("a", day.AddDate(0, 0, 2), 53),
	}, series.MetricUsed)
	ClassifyDeltas(daily)

	// first record never has a prior period to diff against
	first := daily[0]
	if first.NetChange != nil {
		t.Errorf("first NetChange = %v, expected undefined", *first.NetChange)
	}
	if first.Provisioned != 0 || first.Recovered != 0 {
		t.Errorf("first provisioned/recovered = %v/%v, expected 0/0", first.Provisioned, first.Recovered)
	}

	up := daily[1]
	if up.NetChange == nil || *up.NetChange != 8 {
		t.Fatalf("NetChange = %v, expected 8", up.NetChange)
	}
	if up.Provisioned != 8 || up.Recovered != 0 {
		t.Errorf("positive delta split = %v/%v, expected 8/0", up.Provisioned, up.Recovered)
	}

	down := daily[2]
	if down.NetChange == nil || *down.NetChange != -5 {
		t.Fatalf("NetChange = %v, expected -5", down.NetChange)
	}
	if down.Provisioned != 0 || down.Recovered != 5 {
		t.Errorf("negative delta split = %v/%v, expected 0/5", down.Provisioned, down.Recovered)
	}
}

func TestClassifyDeltas_GapBreaksChain(t *testing.T) {
	day := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

	// day 0 and day 2 have samples, day 1 is an empty bucket
	daily := Daily([]series.Sample{
		sample("a", day, 50),
		sample("a", day.AddDate(0, 0, 2), 60),
	}, series.MetricUsed)
	ClassifyDeltas(daily)

	if len(daily) != 3 {
		t.Fatalf("expected 3 records, got %d", len(daily))
	}
	for i, rec := range daily {
		if rec.NetChange != nil {
			t.Errorf("record %d NetChange = %v, expected undefined across the gap", i, *rec.NetChange)
		}
	}
}
