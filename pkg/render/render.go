package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/marek-kar/fuzz-aggregator/pkg/compare"
	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (want table or json)", s)
}

// Extension is the file extension used when writing a report to disk.
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".txt"
}

type Renderer interface {
	Render(w io.Writer, report model.Report) error
}

func New(f Format) Renderer {
	switch f {
	case FormatJSON:
		return &jsonRenderer{}
	default:
		return &tableRenderer{}
	}
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, report model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

const (
	keyWidth    = 35
	columnWidth = 20
)

// rule spans a full table line: "| key |" plus " cell |" per strategy.
var rule = strings.Repeat("-", len("| ")+keyWidth+len(" |")+len(model.Strategies())*(len(" ")+columnWidth+len(" |")))

type tableRenderer struct{}

func (r *tableRenderer) Render(w io.Writer, report model.Report) error {
	cohort := report.Cohort
	if cohort == "" {
		cohort = "all"
	}
	if _, err := fmt.Fprintf(w, "CAMPAIGN: %s\nCOHORT: %s (%d contracts)\n", report.ResultsName, cohort, report.Contracts); err != nil {
		return err
	}
	for _, sec := range report.Sections {
		if err := renderSection(w, sec); err != nil {
			return fmt.Errorf("render %s: %w", sec.ID, err)
		}
	}
	return nil
}

func renderSection(w io.Writer, sec model.Section) error {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(sec.Title + "\n")
	b.WriteString(rule + "\n")
	headers := make([]string, 0, len(model.Strategies()))
	for _, s := range model.Strategies() {
		headers = append(headers, string(s))
	}
	writeLine(&b, sec.KeyHeader, headers)
	b.WriteString(rule + "\n")

	for _, row := range sec.Rows {
		key := row.Key
		if row.Raw {
			key += "*"
		}
		writeLine(&b, key, cells(sec.Unit, row))
	}

	b.WriteString(rule + "\n")
	writeLine(&b, sec.Footer.Key, cells(sec.Unit, sec.Footer))
	b.WriteString(rule + "\n")
	if sec.Note != "" {
		b.WriteString(sec.Note + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cells(unit model.Unit, row model.Row) []string {
	baseline := row.Get(model.Baseline)
	out := make([]string, 0, len(model.Strategies()))
	for _, s := range model.Strategies() {
		out = append(out, compare.Cell(unit, row.Get(s), baseline, s == model.Baseline))
	}
	return out
}

func writeLine(b *strings.Builder, key string, columns []string) {
	fmt.Fprintf(b, "| %-*s |", keyWidth, key)
	for _, c := range columns {
		fmt.Fprintf(b, " %-*s |", columnWidth, c)
	}
	b.WriteString("\n")
}
