package series

import (
	"errors"
	"testing"
	"time"
)

func TestGranularityRank(t *testing.T) {
	order := []Granularity{GranularityDay, GranularityWeek, GranularityMonth, GranularityProjection}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank below %s", order[i-1], order[i])
		}
	}
}

func TestSampleValidate(t *testing.T) {
	valid := Sample{
		EntityID:  "a",
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Metrics: map[string]float64{
			MetricUsable:              1,
			MetricUsed:                1,
			MetricSubscribed:          1,
			MetricSubscribedAllocated: 1,
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	broken := valid
	broken.Metrics = map[string]float64{MetricUsable: 1}
	err := broken.Validate()
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestFutureEventValidate(t *testing.T) {
	ev := FutureEvent{EntityID: "a", Date: time.Now(), Amount: 5, Kind: KindProvision}
	if err := ev.Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	ev.Kind = "teleport"
	var schemaErr *SchemaError
	if err := ev.Validate(); !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for unknown kind, got %v", err)
	}
}
