// Package resample turns a normalized per-entity sample stream into
// calendar-aligned aggregates at day, week and month granularity.
//
// Daily aggregates are the canonical view: weekly and monthly records are
// re-aggregations of the daily records, never of the raw samples. This keeps
// net-change reconcilable across granularities — the sum of a week's daily
// deltas telescopes to exactly the weekly delta.
//
// Buckets with no samples are emitted with undefined metrics rather than
// dropped or forward-filled; forward-filling would fabricate trend data.
package resample
