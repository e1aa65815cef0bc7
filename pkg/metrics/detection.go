package metrics

import (
	"github.com/marek-kar/fuzz-aggregator/pkg/contracts"
	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

// DetectionRate counts, per vulnerability, the executions that detected it
// and divides by the number of contracts declaring it. Unless includeNew is
// set, a detection only counts when the contract declares the vulnerability.
//
// With no declaring contract the rate is 0, or the raw count when includeNew
// is set. The second case mixes counts with ratios and is marked with
// Detection.Raw.
func (e *Engine) DetectionRate(s model.Strategy, list []model.Contract, vulns []model.Vulnerability, includeNew bool) map[model.Vulnerability]model.Detection {
	out := make(map[model.Vulnerability]model.Detection, len(vulns))
	for _, v := range vulns {
		d := model.Detection{Denominator: contracts.Declaring(list, v)}
		for _, c := range list {
			for _, r := range e.runs(s, c.Name) {
				if r.Detected(v) && (includeNew || c.Declares(v)) {
					d.Numerator++
				}
			}
		}
		out[v] = finish(d, includeNew)
	}
	return out
}

// DetectionRateByClass is DetectionRate lifted to vulnerability classes: a
// contract declares a class when it declares any of its members.
func (e *Engine) DetectionRateByClass(s model.Strategy, list []model.Contract, includeNew bool) map[model.VulnerabilityClass]model.Detection {
	out := make(map[model.VulnerabilityClass]model.Detection)
	for _, class := range model.VulnerabilityClasses() {
		var d model.Detection
		for _, c := range list {
			if c.Vulnerabilities.HasClass(class) {
				d.Denominator++
			}
			for _, r := range e.runs(s, c.Name) {
				if detectsClass(r, c, class, includeNew) {
					d.Numerator++
				}
			}
		}
		out[class] = finish(d, includeNew)
	}
	return out
}

func detectsClass(r model.ExecutionRecord, c model.Contract, class model.VulnerabilityClass, includeNew bool) bool {
	for _, v := range class.Members() {
		if r.Detected(v) && (includeNew || c.Declares(v)) {
			return true
		}
	}
	return false
}

func finish(d model.Detection, includeNew bool) model.Detection {
	switch {
	case d.Denominator > 0:
		d.Rate = float64(d.Numerator) / float64(d.Denominator)
	case includeNew:
		d.Rate = float64(d.Numerator)
		d.Raw = true
	default:
		d.Rate = 0
	}
	return d
}
