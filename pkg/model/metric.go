package model

import (
	"encoding/json"
	"math"
)

// Metric is a value that may be undefined, e.g. the coverage of a contract
// that has no successful executions.
type Metric struct {
	value   float64
	defined bool
}

func Defined(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Metric{value: v, defined: true}
}

func Undefined() Metric {
	return Metric{}
}

func (m Metric) IsDefined() bool { return m.defined }

// Value returns the metric and whether it is defined.
func (m Metric) Value() (float64, bool) {
	return m.value, m.defined
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Defined(v)
	return nil
}

// Mean averages the defined metrics and ignores the rest. The result is
// undefined when no metric is defined.
func Mean(ms ...Metric) Metric {
	var sum float64
	var n int
	for _, m := range ms {
		if v, ok := m.Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return Undefined()
	}
	return Defined(sum / float64(n))
}

// Table maps keys (contract names, instruction names) to metrics. Keys keeps
// the row order.
type Table struct {
	Keys    []string
	Values  map[string]Metric
	Average Metric
}

func NewTable() Table {
	return Table{Values: make(map[string]Metric)}
}

// Set appends key to the row order on first use.
func (t *Table) Set(key string, m Metric) {
	if _, ok := t.Values[key]; !ok {
		t.Keys = append(t.Keys, key)
	}
	t.Values[key] = m
}

// Get returns Undefined for unknown keys.
func (t Table) Get(key string) Metric {
	return t.Values[key]
}

// Finish computes the average over the defined values.
func (t *Table) Finish() {
	ms := make([]Metric, 0, len(t.Keys))
	for _, k := range t.Keys {
		ms = append(ms, t.Values[k])
	}
	t.Average = Mean(ms...)
}

// Detection is the tally behind a detection rate. Raw is set when nothing in
// the cohort declares the vulnerability and new detections were counted: Rate
// then holds the numerator itself rather than a ratio.
type Detection struct {
	Rate        float64 `json:"rate"`
	Numerator   int     `json:"numerator"`
	Denominator int     `json:"denominator"`
	Raw         bool    `json:"raw,omitempty"`
}
