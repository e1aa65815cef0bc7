package metrics

import (
	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

// Engine computes metrics over the result sets of one campaign. Every method
// only looks at the contracts it is given, so cohorts are computed without
// reloading results.
type Engine struct {
	sets map[model.Strategy]model.ResultSet
}

func NewEngine(sets map[model.Strategy]model.ResultSet) *Engine {
	copied := make(map[model.Strategy]model.ResultSet, len(sets))
	for s, rs := range sets {
		copied[s] = rs
	}
	return &Engine{sets: copied}
}

// runs returns the eligible executions of a contract. Unknown strategies and
// contracts yield nothing.
func (e *Engine) runs(s model.Strategy, contract string) []model.ExecutionRecord {
	return e.sets[s].For(contract)
}

// perContract averages value over each contract's executions.
func (e *Engine) perContract(s model.Strategy, contracts []model.Contract, value func(model.ExecutionRecord) float64) model.Table {
	t := model.NewTable()
	for _, c := range contracts {
		runs := e.runs(s, c.Name)
		if len(runs) == 0 {
			t.Set(c.Name, model.Undefined())
			continue
		}
		var sum float64
		for _, r := range runs {
			sum += value(r)
		}
		t.Set(c.Name, model.Defined(sum/float64(len(runs))))
	}
	t.Finish()
	return t
}

// TransactionCount is the number of successful executions across contracts.
func (e *Engine) TransactionCount(s model.Strategy, contracts []model.Contract) int {
	n := 0
	for _, c := range contracts {
		n += len(e.runs(s, c.Name))
	}
	return n
}

// TransactionCounts is TransactionCount per contract.
func (e *Engine) TransactionCounts(s model.Strategy, contracts []model.Contract) model.Table {
	t := model.NewTable()
	for _, c := range contracts {
		t.Set(c.Name, model.Defined(float64(len(e.runs(s, c.Name)))))
	}
	t.Average = model.Defined(float64(e.TransactionCount(s, contracts)))
	return t
}
