package report

import (
	"fmt"

	"github.com/marek-kar/fuzz-aggregator/pkg/contracts"
	"github.com/marek-kar/fuzz-aggregator/pkg/metrics"
	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

const (
	SectionMaxCoverage          = "max-coverage"
	SectionAverageCoverage      = "average-coverage"
	SectionCriticalHits         = "critical-hits"
	SectionInstructionHits      = "instruction-hits"
	SectionVulnerabilities      = "vulnerabilities"
	SectionVulnerabilityClasses = "vulnerability-classes"
	SectionExecutions           = "executions"
)

const rawNote = "* no contract in this cohort declares the vulnerability; the value is a detection count, not a rate"

type Options struct {
	IncludeNewDetections bool
	// DetailedHits adds the per-instruction table. It needs result files
	// that carry instructionsHits.
	DetailedHits bool
	Instructions []string
}

func DefaultOptions() Options {
	return Options{Instructions: metrics.DefaultInstructions}
}

type Builder struct {
	engine *metrics.Engine
	opts   Options
}

func NewBuilder(engine *metrics.Engine, opts Options) *Builder {
	return &Builder{engine: engine, opts: opts}
}

// Build computes every section for the cohort.
func (b *Builder) Build(runID, resultsName string, cohort contracts.Cohort) (model.Report, error) {
	list := cohort.Contracts
	sections := []model.Section{
		b.tableSection(SectionMaxCoverage, "MAX COVERAGE RESULTS", "contract_name", model.UnitPercent, "AVERAGE",
			func(s model.Strategy) model.Table { return b.engine.MaxCoverage(s, list) }),
		b.tableSection(SectionAverageCoverage, "AVERAGE COVERAGE RESULTS", "contract_name", model.UnitPercent, "AVERAGE",
			func(s model.Strategy) model.Table { return b.engine.AverageCoverage(s, list) }),
		b.tableSection(SectionCriticalHits, "CRITICAL INSTRUCTIONS HITS RESULTS", "contract_name", model.UnitCount, "AVERAGE",
			func(s model.Strategy) model.Table { return b.engine.CriticalInstructionHits(s, list) }),
	}

	if b.opts.DetailedHits {
		tables := make(map[model.Strategy]model.Table)
		for _, s := range model.Strategies() {
			t, err := b.engine.DetailedInstructionHits(s, list, b.opts.Instructions)
			if err != nil {
				return model.Report{}, fmt.Errorf("detailed instruction hits: %w", err)
			}
			tables[s] = t
		}
		sections = append(sections, b.tableSection(SectionInstructionHits, "DETAILED INSTRUCTION HITS RESULTS", "instruction", model.UnitCount, "AVERAGE",
			func(s model.Strategy) model.Table { return tables[s] }))
	}

	sections = append(sections,
		b.vulnerabilitySection(list),
		b.classSection(list),
		b.tableSection(SectionExecutions, "EXECUTIONS", "contract_name", model.UnitCount, "TOTAL",
			func(s model.Strategy) model.Table { return b.engine.TransactionCounts(s, list) }),
	)

	return model.NewReport(runID, resultsName, cohort.Name, len(list), sections), nil
}

func (b *Builder) tableSection(id, title, header string, unit model.Unit, footer string, table func(model.Strategy) model.Table) model.Section {
	tables := make(map[model.Strategy]model.Table)
	for _, s := range model.Strategies() {
		tables[s] = table(s)
	}

	sec := model.Section{ID: id, Title: title, KeyHeader: header, Unit: unit}
	for _, key := range tables[model.Baseline].Keys {
		row := model.Row{Key: key, Values: make(map[model.Strategy]model.Metric)}
		for s, t := range tables {
			row.Values[s] = t.Get(key)
		}
		sec.Rows = append(sec.Rows, row)
	}

	sec.Footer = model.Row{Key: footer, Values: make(map[model.Strategy]model.Metric)}
	for s, t := range tables {
		sec.Footer.Values[s] = t.Average
	}
	return sec
}

// detectionSection turns per-strategy tallies into rows. The footer averages
// the rates over every row.
func detectionSection(id, title, header string, keys []string, tally func(model.Strategy) func(key string) model.Detection) model.Section {
	sec := model.Section{ID: id, Title: title, KeyHeader: header, Unit: model.UnitPercent}
	rates := make(map[model.Strategy][]model.Metric)

	for _, key := range keys {
		row := model.Row{Key: key, Values: make(map[model.Strategy]model.Metric)}
		raw := false
		for _, s := range model.Strategies() {
			d := tally(s)(key)
			m := model.Defined(d.Rate)
			row.Values[s] = m
			rates[s] = append(rates[s], m)
			raw = raw || d.Raw
		}
		if raw {
			row.Raw = true
			sec.Note = rawNote
		}
		sec.Rows = append(sec.Rows, row)
	}

	sec.Footer = model.Row{Key: "AVERAGE", Values: make(map[model.Strategy]model.Metric)}
	for _, s := range model.Strategies() {
		sec.Footer.Values[s] = model.Mean(rates[s]...)
	}
	return sec
}

func (b *Builder) vulnerabilitySection(list []model.Contract) model.Section {
	vulns := model.Vulnerabilities()
	keys := make([]string, 0, len(vulns))
	for _, v := range vulns {
		keys = append(keys, string(v))
	}

	byStrategy := make(map[model.Strategy]map[model.Vulnerability]model.Detection)
	for _, s := range model.Strategies() {
		byStrategy[s] = b.engine.DetectionRate(s, list, vulns, b.opts.IncludeNewDetections)
	}
	return detectionSection(SectionVulnerabilities, "VULNERABILITIES RESULTS", "vulnerability", keys,
		func(s model.Strategy) func(string) model.Detection {
			return func(key string) model.Detection { return byStrategy[s][model.Vulnerability(key)] }
		})
}

func (b *Builder) classSection(list []model.Contract) model.Section {
	classes := model.VulnerabilityClasses()
	keys := make([]string, 0, len(classes))
	for _, c := range classes {
		keys = append(keys, string(c))
	}

	byStrategy := make(map[model.Strategy]map[model.VulnerabilityClass]model.Detection)
	for _, s := range model.Strategies() {
		byStrategy[s] = b.engine.DetectionRateByClass(s, list, b.opts.IncludeNewDetections)
	}
	return detectionSection(SectionVulnerabilityClasses, "VULNERABILITY CLASS RESULTS", "class", keys,
		func(s model.Strategy) func(string) model.Detection {
			return func(key string) model.Detection { return byStrategy[s][model.VulnerabilityClass(key)] }
		})
}
