// Package engine runs the full capacity pipeline over an in-memory batch:
// normalize, resample per granularity, classify deltas, project the trend,
// inject future events and unify everything into one ordered table.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"capsight/pkg/config"
	"capsight/pkg/forecast"
	"capsight/pkg/normalize"
	"capsight/pkg/resample"
	"capsight/pkg/series"
)

// Config is the immutable parameter set for one batch run.
type Config struct {
	// Granularities to emit; defaults to day, week and month. Daily
	// aggregates are always computed internally since coarser
	// granularities derive from them.
	Granularities []series.Granularity

	// HorizonDays is how many calendar days to project past the last
	// historical sample. Zero disables projection.
	HorizonDays int

	// Metric designates the capacity metric used for end-capacity
	// deltas, OHLC summaries and the trend projection.
	Metric string

	// Ceiling, when set, enables the ceiling-crossing diagnostic.
	Ceiling *float64

	// Workers bounds the per-entity fan-out.
	Workers int
}

// Result is the batch output: the unified record table, per-entity
// ceiling-crossing dates (absent means undefined) and the warnings
// collected along the way.
type Result struct {
	Records  []series.AggregatedRecord
	Ceilings map[string]time.Time
	Warnings []series.Warning
}

// Engine executes batches. Stateless between runs; safe to reuse.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// New builds an engine, filling unset config fields with the package
// defaults. Pass zerolog.Nop() for silent embedding.
func New(cfg Config, log zerolog.Logger) *Engine {
	if len(cfg.Granularities) == 0 {
		cfg.Granularities = config.DefaultGranularities
	}
	if cfg.Metric == "" {
		cfg.Metric = config.DefaultMetric
	}
	if cfg.Workers <= 0 {
		cfg.Workers = config.DefaultWorkers
	}
	if cfg.HorizonDays < 0 {
		cfg.HorizonDays = 0
	}
	return &Engine{cfg: cfg, log: log}
}

// Run processes one batch. Schema violations abort the whole run; every
// other condition is recovered per entity and surfaced as a warning.
// The computation is deterministic: the same input yields the same
// output, record for record.
func (e *Engine) Run(ctx context.Context, samples []series.Sample, events []series.FutureEvent) (*Result, error) {
	started := time.Now()

	eventsByEntity := make(map[string][]series.FutureEvent)
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		eventsByEntity[ev.EntityID] = append(eventsByEntity[ev.EntityID], ev)
	}

	byEntity, err := normalize.Normalize(samples)
	if err != nil {
		return nil, err
	}
	ids := normalize.Entities(byEntity)

	// Entities are independent, so they fan out across workers with no
	// shared state: each worker owns the disjoint slice of entities its
	// hash shard selects, and writes only its own output slots.
	workers := e.cfg.Workers
	if workers > len(ids) {
		workers = len(ids)
	}
	if workers < 1 {
		workers = 1
	}

	outputs := make([]entityOutput, len(ids))
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i, id := range ids {
				if xxhash.Sum64String(id)%uint64(workers) != uint64(w) {
					continue
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				outputs[i] = e.processEntity(id, byEntity[id], eventsByEntity[id])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Ceilings: make(map[string]time.Time)}
	for _, out := range outputs {
		res.Records = append(res.Records, out.records...)
		res.Warnings = append(res.Warnings, out.warnings...)
		if out.ceiling != nil {
			res.Ceilings[out.entityID] = *out.ceiling
		}
	}

	// Events for entities that contributed no samples have no projection
	// to land on; surface them instead of dropping them silently.
	for id, evs := range eventsByEntity {
		if _, ok := byEntity[id]; !ok {
			res.Warnings = append(res.Warnings, forecast.ApplyEvents(nil, evs)...)
		}
	}

	unify(res.Records)
	sortWarnings(res.Warnings)

	for _, w := range res.Warnings {
		e.log.Warn().Str("entity", w.EntityID).Str("code", string(w.Code)).Msg(w.Message)
	}
	e.log.Info().
		Int("entities", len(ids)).
		Int("records", len(res.Records)).
		Int("warnings", len(res.Warnings)).
		Dur("elapsed", time.Since(started)).
		Msg("batch complete")

	return res, nil
}

// entityOutput is one worker's result for one entity.
type entityOutput struct {
	entityID string
	records  []series.AggregatedRecord
	warnings []series.Warning
	ceiling  *time.Time
}

func (e *Engine) processEntity(id string, samples []series.Sample, events []series.FutureEvent) entityOutput {
	out := entityOutput{entityID: id}

	daily := resample.Daily(samples, e.cfg.Metric)
	resample.ClassifyDeltas(daily)

	for _, g := range e.cfg.Granularities {
		switch g {
		case series.GranularityDay:
			out.records = append(out.records, daily...)
		case series.GranularityWeek, series.GranularityMonth:
			coarse := resample.Reaggregate(daily, g)
			resample.ClassifyDeltas(coarse)
			out.records = append(out.records, coarse...)
		}
	}

	if e.cfg.HorizonDays > 0 {
		e.project(&out, samples, events)
	} else {
		// No projection window, so any scheduled event is out of range.
		out.warnings = append(out.warnings, forecast.ApplyEvents(nil, events)...)
	}

	e.log.Debug().
		Str("entity", id).
		Int("samples", len(samples)).
		Int("records", len(out.records)).
		Msg("entity processed")

	return out
}

func (e *Engine) project(out *entityOutput, samples []series.Sample, events []series.FutureEvent) {
	proj, err := forecast.Project(samples, e.cfg.Metric, e.cfg.HorizonDays)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientSamples) {
			out.warnings = append(out.warnings, series.Warning{
				EntityID: out.entityID,
				Code:     series.WarnProjectionUnavailable,
				Message:  "not enough samples to fit a trend, historical aggregates only",
			})
			out.warnings = append(out.warnings, forecast.ApplyEvents(nil, events)...)
		}
		return
	}

	out.warnings = append(out.warnings, forecast.ApplyEvents(proj, events)...)

	if e.cfg.Ceiling != nil {
		crossing, cerr := proj.Model.CeilingCrossing(*e.cfg.Ceiling)
		if cerr != nil {
			out.warnings = append(out.warnings, series.Warning{
				EntityID: out.entityID,
				Code:     series.WarnDegenerateTrend,
				Message:  cerr.Error(),
			})
		} else {
			out.ceiling = &crossing
		}
	}

	for _, pt := range proj.Points {
		out.records = append(out.records, series.AggregatedRecord{
			EntityID:     out.entityID,
			PeriodStart:  pt.Day,
			Granularity:  series.GranularityProjection,
			Metrics:      map[string]float64{e.cfg.Metric: pt.Value},
			IsProjection: true,
			Note:         pt.Note,
		})
	}
}
