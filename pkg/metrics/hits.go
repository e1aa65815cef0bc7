package metrics

import (
	"errors"
	"fmt"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

var ErrMissingInstructionBreakdown = errors.New("execution has no per-instruction hits")

// DefaultInstructions are the critical instructions reported when none are
// requested explicitly.
var DefaultInstructions = []string{
	"CALL",
	"CALLCODE",
	"DELEGATECALL",
	"STATICCALL",
	"SELFDESTRUCT",
	"TIMESTAMP",
	"NUMBER",
}

func (e *Engine) CriticalInstructionHits(s model.Strategy, contracts []model.Contract) model.Table {
	return e.perContract(s, contracts, func(r model.ExecutionRecord) float64 {
		return float64(r.CriticalInstructionsHits)
	})
}

// DetailedInstructionHits averages the hits of each named instruction over
// every execution of the given contracts. The table is keyed by instruction.
func (e *Engine) DetailedInstructionHits(s model.Strategy, contracts []model.Contract, instructions []string) (model.Table, error) {
	sums := make(map[string]int, len(instructions))
	var n int
	for _, c := range contracts {
		for i, r := range e.runs(s, c.Name) {
			if r.InstructionHits == nil {
				return model.Table{}, fmt.Errorf("%s contract %q execution %d: %w", s, c.Name, i, ErrMissingInstructionBreakdown)
			}
			for _, name := range instructions {
				sums[name] += r.InstructionHits[name]
			}
			n++
		}
	}

	t := model.NewTable()
	for _, name := range instructions {
		if n == 0 {
			t.Set(name, model.Undefined())
			continue
		}
		t.Set(name, model.Defined(float64(sums[name])/float64(n)))
	}
	t.Finish()
	return t, nil
}
