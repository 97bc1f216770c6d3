// Package reconcile compares a registry against an act and reports the
// orders whose amounts disagree.
package reconcile

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tanker-tools/fuelrecon/internal/model"
	"github.com/tanker-tools/fuelrecon/internal/normalize"
)

// ErrNotReady is returned when a comparison is requested before both
// tables are loaded.
var ErrNotReady = errors.New("registry and act must both be loaded")

// DefaultTolerance is the largest difference still treated as a match.
var DefaultTolerance = decimal.New(1, -2)

// Compare performs a full outer join of reg and act on order id and
// returns one Discrepancy per id whose rounded difference exceeds
// tolerance, ordered by id. An order missing from one side counts as zero
// on that side. Repeated registry ids are summed; act lines are summed
// per id. A non-positive tolerance means DefaultTolerance.
//
// An empty result means the two sources agree.
func Compare(reg *model.RegistryTable, act *model.ActTable, tolerance decimal.Decimal) ([]model.Discrepancy, error) {
	if reg == nil || act == nil {
		return nil, ErrNotReady
	}
	if !tolerance.IsPositive() {
		tolerance = DefaultTolerance
	}

	registry := make(map[string]decimal.Decimal, len(reg.Rows))
	for _, r := range reg.Rows {
		registry[r.ID] = registry[r.ID].Add(r.Cost)
	}

	aggregate := make(map[string]decimal.Decimal)
	for _, r := range act.Rows {
		aggregate[r.ID] = aggregate[r.ID].Add(r.Net)
	}

	ids := union(registry, aggregate)

	var out []model.Discrepancy
	for _, id := range ids {
		// Absent side is zero.
		regTotal, ok := registry[id]
		if !ok {
			regTotal = decimal.Zero
		}
		actTotal, ok := aggregate[id]
		if !ok {
			actTotal = decimal.Zero
		}

		regTotal = regTotal.Round(normalize.Places)
		actTotal = actTotal.Round(normalize.Places)
		diff := regTotal.Sub(actTotal).Round(normalize.Places)

		if diff.Abs().GreaterThan(tolerance) {
			out = append(out, model.Discrepancy{
				ID:            id,
				RegistryTotal: regTotal,
				ActTotal:      actTotal,
				Diff:          diff,
			})
		}
	}
	return out, nil
}

// Totals sums the registry, act and diff columns of rows.
func Totals(rows []model.Discrepancy) model.Discrepancy {
	t := model.Discrepancy{
		RegistryTotal: decimal.Zero,
		ActTotal:      decimal.Zero,
		Diff:          decimal.Zero,
	}
	for _, r := range rows {
		t.RegistryTotal = t.RegistryTotal.Add(r.RegistryTotal)
		t.ActTotal = t.ActTotal.Add(r.ActTotal)
		t.Diff = t.Diff.Add(r.Diff)
	}
	return t
}

// union returns the keys of a and b, sorted.
func union(a, b map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(a)+len(b))
	for id := range a {
		ids = append(ids, id)
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
