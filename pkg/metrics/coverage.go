package metrics

import "github.com/marek-kar/fuzz-aggregator/pkg/model"

// MaxCoverage is, per contract, the mean of maxCoverage/totalInstructions.
func (e *Engine) MaxCoverage(s model.Strategy, contracts []model.Contract) model.Table {
	return e.perContract(s, contracts, func(r model.ExecutionRecord) float64 {
		return r.MaxCoverage / float64(r.TotalInstructions)
	})
}

// AverageCoverage is, per contract, the mean of averageCoverage/totalInstructions.
func (e *Engine) AverageCoverage(s model.Strategy, contracts []model.Contract) model.Table {
	return e.perContract(s, contracts, func(r model.ExecutionRecord) float64 {
		return r.AverageCoverage / float64(r.TotalInstructions)
	})
}
