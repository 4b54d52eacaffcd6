// Package analytics derives time-series metrics from raw monthly budget
// records: per-month totals, investment allocation, growth rates and
// year-over-year comparisons. The engine is stateless; every call reads
// through the store and discards everything it derived once the result
// is returned, so it is safe to share across concurrent requests.
package analytics

import (
	"context"
	"fmt"

	"github.com/veerababu-g/budget-planner/internal/budget"
)

// EntryStore is the read-only view the engine consumes. GetFixedEntry
// returns nil (not an error) when the month has no fixed record.
// GetVariableEntries returns drafts and finalized records alike;
// filtering is the engine's job. Store errors, including unknown-user
// and availability failures, propagate to the caller unmodified.
type EntryStore interface {
	GetFixedEntry(ctx context.Context, userID string, year, month int) (*budget.Entry, error)
	GetVariableEntries(ctx context.Context, userID string, year, month int) ([]budget.VariableExpense, error)
}

type Engine struct {
	store EntryStore
}

func NewEngine(store EntryStore) *Engine {
	return &Engine{store: store}
}

// Aggregate produces the trend series for the closed range [start, end].
// Exactly one snapshot is emitted per calendar month in the range, in
// chronological order, with gap months filled with zero totals so the
// series stays index-aligned to the calendar.
func (e *Engine) Aggregate(ctx context.Context, userID string, start, end Period) (*TrendSeries, error) {
	periods, err := periodRange(start, end)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(periods))
	for _, p := range periods {
		entry, err := e.store.GetFixedEntry(ctx, userID, p.Year, p.Month)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixed entry for %s: %w", p, err)
		}
		variable, err := e.store.GetVariableEntries(ctx, userID, p.Year, p.Month)
		if err != nil {
			return nil, fmt.Errorf("failed to read variable entries for %s: %w", p, err)
		}
		snapshots = append(snapshots, buildSnapshot(p, entry, variable))
	}

	return newTrendSeries(snapshots), nil
}
