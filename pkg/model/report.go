package model

import "time"

const SchemaVersion = "v1"

type Unit string

const (
	UnitPercent Unit = "percent"
	UnitCount   Unit = "count"
)

// Row is one line of a section. Raw marks detection rows whose values are
// detection counts rather than rates.
type Row struct {
	Key    string              `json:"key"`
	Values map[Strategy]Metric `json:"values"`
	Raw    bool                `json:"raw,omitempty"`
}

func (r Row) Get(s Strategy) Metric {
	return r.Values[s]
}

type Section struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	KeyHeader string `json:"keyHeader"`
	Unit      Unit   `json:"unit"`
	Rows      []Row  `json:"rows"`
	Footer    Row    `json:"footer"`
	Note      string `json:"note,omitempty"`
}

type Report struct {
	SchemaVersion string    `json:"schemaVersion"`
	RunID         string    `json:"runId"`
	ResultsName   string    `json:"resultsName"`
	Cohort        string    `json:"cohort"`
	Contracts     int       `json:"contracts"`
	GeneratedAt   time.Time `json:"generatedAt"`
	Sections      []Section `json:"sections"`
}

func NewReport(runID, resultsName, cohort string, contracts int, sections []Section) Report {
	return Report{
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		ResultsName:   resultsName,
		Cohort:        cohort,
		Contracts:     contracts,
		GeneratedAt:   time.Now().UTC(),
		Sections:      sections,
	}
}

func (r Report) Section(id string) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
