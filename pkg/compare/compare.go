// Package compare expresses strategy metrics relative to the baseline
// strategy. All functions are pure.
package compare

import (
	"fmt"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

const NotAvailable = "N/A"

// Diff returns the relative difference of candidate against baseline. A zero
// baseline yields 1 for any non-zero candidate and 0 otherwise. The boolean
// is false when either side is undefined.
func Diff(candidate, baseline model.Metric) (float64, bool) {
	c, ok := candidate.Value()
	if !ok {
		return 0, false
	}
	b, ok := baseline.Value()
	if !ok {
		return 0, false
	}
	if b == 0 {
		if c != 0 {
			return 1, true
		}
		return 0, true
	}
	return (c - b) / b, true
}

// Percent renders a ratio as a percentage.
func Percent(m model.Metric) string {
	v, ok := m.Value()
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// Number renders a count-like metric.
func Number(m model.Metric) string {
	v, ok := m.Value()
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

// PercentDiff renders candidate as a percentage followed by its signed
// difference to baseline, e.g. "62.50% (+25.00%)".
func PercentDiff(candidate, baseline model.Metric) string {
	if !candidate.IsDefined() {
		return NotAvailable
	}
	return Percent(candidate) + " (" + signedDiff(candidate, baseline) + ")"
}

// NumberDiff is PercentDiff for count-like metrics, e.g. "4.00 (-20.00%)".
func NumberDiff(candidate, baseline model.Metric) string {
	if !candidate.IsDefined() {
		return NotAvailable
	}
	return Number(candidate) + " (" + signedDiff(candidate, baseline) + ")"
}

func signedDiff(candidate, baseline model.Metric) string {
	d, ok := Diff(candidate, baseline)
	if !ok {
		return NotAvailable
	}
	sign := ""
	if d > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, d*100)
}

// Cell formats one report cell. The baseline column carries no diff.
func Cell(unit model.Unit, candidate, baseline model.Metric, isBaseline bool) string {
	switch {
	case unit == model.UnitCount && isBaseline:
		return Number(candidate)
	case unit == model.UnitCount:
		return NumberDiff(candidate, baseline)
	case isBaseline:
		return Percent(candidate)
	default:
		return PercentDiff(candidate, baseline)
	}
}
