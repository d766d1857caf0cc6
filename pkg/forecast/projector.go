// Package forecast fits a linear trend per entity and extrapolates a
// capacity metric beyond the last observed day, optionally perturbed by
// scheduled future capacity-change events.
package forecast

import (
	"errors"
	"time"

	"capsight/pkg/resample"
	"capsight/pkg/series"
)

// Fit failure modes. All are recoverable per entity: the caller surfaces
// them as warnings and still produces historical aggregates.
var (
	ErrInsufficientSamples  = errors.New("fewer than two samples, cannot fit a trend")
	ErrNonPositiveSlope     = errors.New("non-positive slope, trend never reaches the ceiling")
	ErrCrossingPrecedesData = errors.New("ceiling crossing precedes the first sample")
)

// Model is an ordinary least-squares fit of a metric against fractional
// days since the entity's first sample. Ephemeral: built and discarded
// within one projection run, never shared across entities.
type Model struct {
	Slope       float64
	Intercept   float64
	FirstSample time.Time
	Metric      string
}

// Fit computes the least-squares line for the metric over the entity's
// normalized samples. The x-axis is continuous days since the first
// sample, so irregular sampling keeps its real spacing.
func Fit(samples []series.Sample, metric string) (Model, error) {
	var xs, ys []float64
	var first time.Time

	for _, s := range samples {
		v, ok := s.Metrics[metric]
		if !ok {
			continue
		}
		if len(xs) == 0 {
			first = s.Timestamp
		}
		xs = append(xs, s.Timestamp.Sub(first).Hours()/24)
		ys = append(ys, v)
	}

	if len(xs) < 2 {
		return Model{}, ErrInsufficientSamples
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var covXY, varX float64
	for i := range xs {
		dx := xs[i] - meanX
		covXY += dx * (ys[i] - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		// All samples share one timestamp; normalization should have
		// collapsed them, but a degenerate x-axis cannot be fitted.
		return Model{}, ErrInsufficientSamples
	}

	slope := covXY / varX
	return Model{
		Slope:       slope,
		Intercept:   meanY - slope*meanX,
		FirstSample: first,
		Metric:      metric,
	}, nil
}

// ValueAt evaluates the fitted line at an instant.
func (m Model) ValueAt(t time.Time) float64 {
	return m.Intercept + m.Slope*t.Sub(m.FirstSample).Hours()/24
}

// CeilingCrossing computes when the fitted trend reaches the ceiling.
// Undefined when the slope is flat or negative, and when the implied
// crossing predates the first sample — the trend would claim the ceiling
// was breached before data collection began, which deserves a warning
// rather than a fabricated date.
func (m Model) CeilingCrossing(ceiling float64) (time.Time, error) {
	if m.Slope <= 0 {
		return time.Time{}, ErrNonPositiveSlope
	}

	days := (ceiling - m.Intercept) / m.Slope
	if days < 0 {
		return time.Time{}, ErrCrossingPrecedesData
	}

	return m.FirstSample.Add(time.Duration(days * 24 * float64(time.Hour))), nil
}

// Point is one projected day.
type Point struct {
	Day   time.Time
	Value float64
	Note  string
}

// Projection is the per-entity trend extrapolation: one value per
// calendar day from the day after the last historical sample through
// the horizon, inclusive.
type Projection struct {
	EntityID          string
	Metric            string
	Model             Model
	LastHistoricalDay time.Time
	Points            []Point
}

// Project fits the entity's trend and extrapolates horizonDays calendar
// days past the last sample. A zero horizon yields an empty projection
// and no error. Values are evaluated at each projected day's midnight.
func Project(samples []series.Sample, metric string, horizonDays int) (*Projection, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientSamples
	}

	entityID := samples[0].EntityID
	model, err := Fit(samples, metric)
	if err != nil {
		return nil, err
	}

	lastDay := resample.DayStart(samples[len(samples)-1].Timestamp)
	p := &Projection{
		EntityID:          entityID,
		Metric:            metric,
		Model:             model,
		LastHistoricalDay: lastDay,
	}

	for i := 1; i <= horizonDays; i++ {
		day := lastDay.AddDate(0, 0, i)
		p.Points = append(p.Points, Point{Day: day, Value: model.ValueAt(day)})
	}

	return p, nil
}
