package forecast

import (
	"fmt"
	"sort"
	"strconv"

	"capsight/pkg/resample"
	"capsight/pkg/series"
)

// ApplyEvents overlays scheduled capacity changes onto the projection as
// step functions: from the event's day (inclusive) onward, a provision
// adds its amount to every projected value and a recovery subtracts it.
// Events apply in chronological order, each on top of the cumulative
// effect of the earlier ones.
//
// Events dated on or before the last historical day, or past the
// projection window, are skipped and surfaced as warnings. The last
// historical day itself is historical, never projected, so an event
// landing exactly on it is out of range.
func ApplyEvents(p *Projection, events []series.FutureEvent) []series.Warning {
	if len(events) == 0 {
		return nil
	}

	ordered := make([]series.FutureEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var warnings []series.Warning

	for _, ev := range ordered {
		day := resample.DayStart(ev.Date)

		if p == nil || len(p.Points) == 0 || !day.After(p.LastHistoricalDay) || day.After(p.Points[len(p.Points)-1].Day) {
			warnings = append(warnings, series.Warning{
				EntityID: ev.EntityID,
				Code:     series.WarnEventOutOfRange,
				Message: fmt.Sprintf("event %q on %s is outside the projection window, ignored",
					describe(ev), day.Format("2006-01-02")),
			})
			continue
		}

		signed := ev.Amount
		if ev.Kind == series.KindRecovery {
			signed = -ev.Amount
		}

		// Points are consecutive calendar days, so the event's day maps
		// straight to an offset from the first projected day.
		start := int(day.Sub(p.Points[0].Day).Hours() / 24)
		for i := start; i < len(p.Points); i++ {
			p.Points[i].Value += signed
		}

		if p.Points[start].Note == "" {
			p.Points[start].Note = describe(ev)
		} else {
			p.Points[start].Note += "; " + describe(ev)
		}
	}

	return warnings
}

// describe renders an event as the human-readable note its day carries.
func describe(ev series.FutureEvent) string {
	return string(ev.Kind) + " " + strconv.FormatFloat(ev.Amount, 'g', -1, 64)
}
