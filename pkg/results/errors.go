package results

import (
	"errors"
	"fmt"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

var ErrMissingResults = errors.New("results not found")

// MissingResultsError means the strategy's result directory does not exist,
// usually because the archive has not been extracted yet.
type MissingResultsError struct {
	Strategy model.Strategy
	Dir      string
}

func (e *MissingResultsError) Error() string {
	return fmt.Sprintf("%s results not found at %s: extract the results archive first", e.Strategy, e.Dir)
}

func (e *MissingResultsError) Unwrap() error { return ErrMissingResults }

// MalformedRecordError points at an execution entry the fuzzer wrote without
// a required field. Index is -1 when the problem is with the contract entry
// itself.
type MalformedRecordError struct {
	File     string
	Contract string
	Index    int
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: contract %q: %s", e.File, e.Contract, e.Reason)
	}
	return fmt.Sprintf("%s: contract %q execution %d: %s", e.File, e.Contract, e.Index, e.Reason)
}
