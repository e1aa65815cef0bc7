package model

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ExecutionRecord is the outcome of one fuzzing run of a contract.
type ExecutionRecord struct {
	Status                   Status
	TotalInstructions        int
	Coverage                 float64
	MaxCoverage              float64
	AverageCoverage          float64
	CriticalInstructionsHits int
	DetectedWeaknesses       VulnerabilitySet
	// InstructionHits breaks CriticalInstructionsHits down by instruction
	// name. Nil when the fuzzer did not report it.
	InstructionHits map[string]int
}

// Eligible reports whether the record may take part in metric computation.
func (r ExecutionRecord) Eligible() bool {
	return r.Status == StatusSuccess && r.TotalInstructions > 0
}

func (r ExecutionRecord) Detected(v Vulnerability) bool {
	return r.DetectedWeaknesses.Has(v)
}

// ResultSet holds the eligible executions of one strategy keyed by contract
// name. It is not modified after it has been loaded.
type ResultSet struct {
	Strategy   Strategy
	Executions map[string][]ExecutionRecord
}

func NewResultSet(s Strategy) ResultSet {
	return ResultSet{Strategy: s, Executions: make(map[string][]ExecutionRecord)}
}

func (rs ResultSet) For(contract string) []ExecutionRecord {
	return rs.Executions[contract]
}
