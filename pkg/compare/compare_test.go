package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

func TestDiff(t *testing.T) {
	cases := []struct {
		name      string
		candidate model.Metric
		baseline  model.Metric
		want      float64
		ok        bool
	}{
		{"improvement", model.Defined(0.75), model.Defined(0.5), 0.5, true},
		{"regression", model.Defined(0.25), model.Defined(0.5), -0.5, true},
		{"equal", model.Defined(3), model.Defined(3), 0, true},
		{"from zero", model.Defined(0.1), model.Defined(0), 1, true},
		{"zero to zero", model.Defined(0), model.Defined(0), 0, true},
		{"undefined candidate", model.Undefined(), model.Defined(1), 0, false},
		{"undefined baseline", model.Defined(1), model.Undefined(), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Diff(tc.candidate, tc.baseline)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "60.00%", Percent(model.Defined(0.6)))
	assert.Equal(t, "N/A", Percent(model.Undefined()))
	assert.Equal(t, "4.50", Number(model.Defined(4.5)))
	assert.Equal(t, "N/A", Number(model.Undefined()))

	assert.Equal(t, "75.00% (+50.00%)", PercentDiff(model.Defined(0.75), model.Defined(0.5)))
	assert.Equal(t, "25.00% (-50.00%)", PercentDiff(model.Defined(0.25), model.Defined(0.5)))
	assert.Equal(t, "50.00% (0.00%)", PercentDiff(model.Defined(0.5), model.Defined(0.5)))
	assert.Equal(t, "10.00% (+100.00%)", PercentDiff(model.Defined(0.1), model.Defined(0)))
	assert.Equal(t, "0.00% (0.00%)", PercentDiff(model.Defined(0), model.Defined(0)))
	assert.Equal(t, "N/A", PercentDiff(model.Undefined(), model.Defined(0.5)))
	assert.Equal(t, "40.00% (N/A)", PercentDiff(model.Defined(0.4), model.Undefined()))

	assert.Equal(t, "4.00 (-20.00%)", NumberDiff(model.Defined(4), model.Defined(5)))
	assert.Equal(t, "3.00 (+100.00%)", NumberDiff(model.Defined(3), model.Defined(0)))
	assert.Equal(t, "N/A", NumberDiff(model.Undefined(), model.Defined(0)))
}

func TestCell(t *testing.T) {
	base := model.Defined(2)
	assert.Equal(t, "2.00", Cell(model.UnitCount, base, base, true))
	assert.Equal(t, "3.00 (+50.00%)", Cell(model.UnitCount, model.Defined(3), base, false))
	assert.Equal(t, "200.00%", Cell(model.UnitPercent, base, base, true))
	assert.Equal(t, "300.00% (+50.00%)", Cell(model.UnitPercent, model.Defined(3), base, false))
}

func TestUndefinedBaselineKeepsCandidateValue(t *testing.T) {
	na := model.Undefined()
	assert.Equal(t, "25.00% (N/A)", PercentDiff(model.Defined(0.25), na))
	assert.Equal(t, "7.00 (N/A)", NumberDiff(model.Defined(7), na))
	assert.Equal(t, "25.00% (N/A)", Cell(model.UnitPercent, model.Defined(0.25), na, false))
	assert.Equal(t, "7.00 (N/A)", Cell(model.UnitCount, model.Defined(7), na, false))
	assert.Equal(t, "N/A", Cell(model.UnitPercent, na, na, true))
	assert.Equal(t, "N/A", Cell(model.UnitCount, na, na, false))

	_, ok := Diff(model.Defined(0.25), na)
	assert.False(t, ok)
}
