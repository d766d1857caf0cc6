package normalize

import (
	"errors"
	"testing"
	"time"

	"capsight/pkg/series"
)

func sample(id string, ts time.Time, used float64) series.Sample {
	return series.Sample{
		EntityID:  id,
		Timestamp: ts,
		Metrics: map[string]float64{
			series.MetricUsable:              100,
			series.MetricUsed:                used,
			series.MetricSubscribed:          120,
			series.MetricSubscribedAllocated: 80,
		},
	}
}

func TestNormalize_GroupsAndSorts(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	in := []series.Sample{
		sample("b", base.Add(2*time.Hour), 30),
		sample("a", base.Add(4*time.Hour), 12),
		sample("a", base, 10),
		sample("b", base, 28),
	}

	byEntity, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if got := Entities(byEntity); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Entities = %v, expected [a b]", got)
	}

	a := byEntity["a"]
	if len(a) != 2 {
		t.Fatalf("expected 2 samples for entity a, got %d", len(a))
	}
	if !a[0].Timestamp.Before(a[1].Timestamp) {
		t.Errorf("samples for entity a are not sorted: %v, %v", a[0].Timestamp, a[1].Timestamp)
	}
}

func TestNormalize_MergesDuplicateTimestamps(t *testing.T) {
	ts := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	byEntity, err := Normalize([]series.Sample{
		sample("a", ts, 10),
		sample("a", ts, 20),
		sample("a", ts.Add(time.Hour), 40),
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	a := byEntity["a"]
	if len(a) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 samples, got %d", len(a))
	}
	if got := a[0].Metrics[series.MetricUsed]; got != 15 {
		t.Errorf("merged used_capacity = %v, expected mean 15", got)
	}
	if got := a[0].Metrics[series.MetricUsable]; got != 100 {
		t.Errorf("merged usable_capacity = %v, expected 100", got)
	}
}

func TestNormalize_SchemaErrors(t *testing.T) {
	ts := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	missingMetric := sample("a", ts, 10)
	delete(missingMetric.Metrics, series.MetricSubscribed)

	tests := []struct {
		name string
		in   series.Sample
	}{
		{"empty entity id", sample("", ts, 10)},
		{"zero timestamp", sample("a", time.Time{}, 10)},
		{"missing required metric", missingMetric},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Normalize([]series.Sample{test.in})
			var schemaErr *series.SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	byEntity, err := Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(byEntity) != 0 {
		t.Errorf("expected empty result, got %d entities", len(byEntity))
	}
}
