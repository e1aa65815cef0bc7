package results

import (
	"github.com/sirupsen/logrus"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

// resultFile is one JSON artifact: contract name -> strategy -> executions.
type resultFile map[string]map[string][]rawExecution

type rawExecution struct {
	Status    *string     `json:"status"`
	Execution *rawMetrics `json:"execution"`
}

type rawMetrics struct {
	TotalInstructions        *int           `json:"totalInstructions"`
	Coverage                 float64        `json:"coverage"`
	MaxCoverage              *float64       `json:"maxCoverage"`
	AverageCoverage          *float64       `json:"averageCoverage"`
	CriticalInstructionsHits *int           `json:"criticalInstructionsHits"`
	DetectedWeaknesses       []string       `json:"detectedWeaknesses"`
	InstructionsHits         map[string]int `json:"instructionsHits"`
}

// convert validates one entry and reports whether it is eligible. Entries
// that are not eligible are not validated beyond their status.
func convert(raw rawExecution, log logrus.FieldLogger) (model.ExecutionRecord, bool, string) {
	if raw.Status == nil {
		return model.ExecutionRecord{}, false, "missing status"
	}
	if model.Status(*raw.Status) != model.StatusSuccess {
		return model.ExecutionRecord{Status: model.StatusFailure}, false, ""
	}

	m := raw.Execution
	if m == nil {
		return model.ExecutionRecord{}, false, "successful execution without execution data"
	}
	if m.TotalInstructions == nil {
		return model.ExecutionRecord{}, false, "missing totalInstructions"
	}
	if *m.TotalInstructions <= 0 {
		return model.ExecutionRecord{Status: model.StatusSuccess, TotalInstructions: *m.TotalInstructions}, false, ""
	}

	switch {
	case m.MaxCoverage == nil:
		return model.ExecutionRecord{}, false, "missing maxCoverage"
	case m.AverageCoverage == nil:
		return model.ExecutionRecord{}, false, "missing averageCoverage"
	case m.CriticalInstructionsHits == nil:
		return model.ExecutionRecord{}, false, "missing criticalInstructionsHits"
	}

	detected := model.NewVulnerabilitySet()
	for _, w := range m.DetectedWeaknesses {
		v, err := model.ParseVulnerability(w)
		if err != nil {
			log.WithField("weakness", w).Debug("ignoring unknown weakness")
			continue
		}
		detected[v] = struct{}{}
	}

	return model.ExecutionRecord{
		Status:                   model.StatusSuccess,
		TotalInstructions:        *m.TotalInstructions,
		Coverage:                 m.Coverage,
		MaxCoverage:              *m.MaxCoverage,
		AverageCoverage:          *m.AverageCoverage,
		CriticalInstructionsHits: *m.CriticalInstructionsHits,
		DetectedWeaknesses:       detected,
		InstructionHits:          m.InstructionsHits,
	}, true, ""
}
