// Package unidash computes admissions and enrollment metrics from a
// university's per-term CSV export and lays them out for a dashboard.
//
// Usage:
//
//	snap, err := helpers.LoadSnapshot("students.csv", logger)
//	eng := metrics.New(metrics.WithLogger(logger))
//
//	terms := eng.AggregateByTerm(snap.Records(), metrics.Chronological)
//	latest, err := eng.LatestTerm(terms.Rows)
//
//	d, err := dashboard.Build(eng, snap, dashboard.Options{Term: "Fall 2023"})
//
// The engine reads immutable snapshots and returns new tables; nothing is
// cached or mutated between calls. Absent values stay absent through every
// aggregation rather than being read as zero.
package unidash
