package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"capsight/pkg/engine"
	"capsight/pkg/series"
)

// Feeds a few weeks of synthetic storage-array telemetry through the
// engine and prints the unified table plus diagnostics.
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}).With().Timestamp().Logger().Level(zerolog.DebugLevel)

	rng := rand.New(rand.NewSource(42))
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	var samples []series.Sample
	for day := 0; day < 28; day++ {
		for _, hour := range []int{2, 10, 18} {
			ts := start.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)

			// array-a grows ~40 GiB/day, array-b is flat with noise
			samples = append(samples,
				series.Sample{
					EntityID:  "array-a",
					Timestamp: ts,
					Metrics: map[string]float64{
						series.MetricUsable:              100_000,
						series.MetricUsed:                52_000 + 40*float64(day) + rng.Float64()*8,
						series.MetricSubscribed:          140_000,
						series.MetricSubscribedAllocated: 90_000,
					},
				},
				series.Sample{
					EntityID:  "array-b",
					Timestamp: ts,
					Metrics: map[string]float64{
						series.MetricUsable:              60_000,
						series.MetricUsed:                31_000 + rng.Float64()*20,
						series.MetricSubscribed:          75_000,
						series.MetricSubscribedAllocated: 48_000,
					},
				},
			)
		}
	}

	events := []series.FutureEvent{
		{EntityID: "array-a", Date: start.AddDate(0, 0, 35), Amount: 4_000, Kind: series.KindProvision},
		{EntityID: "array-a", Date: start.AddDate(0, 0, 10), Amount: 1_000, Kind: series.KindRecovery}, // historical, will be skipped
	}

	ceiling := 100_000.0
	eng := engine.New(engine.Config{
		HorizonDays: 60,
		Metric:      series.MetricUsed,
		Ceiling:     &ceiling,
	}, log)

	res, err := eng.Run(context.Background(), samples, events)
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}

	for _, rec := range res.Records {
		line := fmt.Sprintf("%-8s %s %-10s", rec.EntityID, rec.PeriodStart.Format("2006-01-02"), rec.Granularity)
		if rec.Metrics != nil {
			line += fmt.Sprintf(" used=%.1f", rec.Metrics[series.MetricUsed])
		}
		if rec.NetChange != nil {
			line += fmt.Sprintf(" net=%+.1f", *rec.NetChange)
		}
		if rec.OHLC != nil {
			line += fmt.Sprintf(" ohlc=%.1f/%.1f/%.1f/%.1f", rec.OHLC.Open, rec.OHLC.High, rec.OHLC.Low, rec.OHLC.Close)
		}
		if rec.Note != "" {
			line += " note=" + rec.Note
		}
		fmt.Println(line)
	}

	for entity, crossing := range res.Ceilings {
		log.Info().Str("entity", entity).Time("crossing", crossing).Msg("projected ceiling crossing")
	}
}
