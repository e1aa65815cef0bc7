package model

import (
	"errors"
	"fmt"
)

var ErrUnknownVulnerability = errors.New("unknown vulnerability tag")

// Vulnerability is a canonical weakness tag, as reported by the fuzzer in
// detectedWeaknesses.
type Vulnerability string

const (
	Delegate            Vulnerability = "delegate"
	ExceptionDisorder   Vulnerability = "exception-disorder"
	GaslessSend         Vulnerability = "gasless-send"
	NumberDependency    Vulnerability = "number-dependency"
	Reentrancy          Vulnerability = "reentrancy"
	TimestampDependency Vulnerability = "timestamp-dependency"
)

// Vulnerabilities returns every canonical tag in report row order.
func Vulnerabilities() []Vulnerability {
	return []Vulnerability{
		Delegate,
		ExceptionDisorder,
		GaslessSend,
		NumberDependency,
		Reentrancy,
		TimestampDependency,
	}
}

// ParseRawTag maps a contract-list tag to its canonical vulnerability.
func ParseRawTag(raw string) (Vulnerability, error) {
	switch raw {
	case "delegatecall_dangerous":
		return Delegate, nil
	case "exception_disorder":
		return ExceptionDisorder, nil
	case "gasless_send":
		return GaslessSend, nil
	case "numberdependency":
		return NumberDependency, nil
	case "reentrancy":
		return Reentrancy, nil
	case "timedependency":
		return TimestampDependency, nil
	default:
		return "", fmt.Errorf("%w: raw tag %q", ErrUnknownVulnerability, raw)
	}
}

// ParseVulnerability accepts a canonical tag.
func ParseVulnerability(tag string) (Vulnerability, error) {
	switch v := Vulnerability(tag); v {
	case Delegate, ExceptionDisorder, GaslessSend, NumberDependency, Reentrancy, TimestampDependency:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVulnerability, tag)
	}
}

// VulnerabilityClass groups vulnerabilities into the coarse categories used
// when comparing against other smart-contract fuzzers.
type VulnerabilityClass string

const (
	ClassMishandledException VulnerabilityClass = "ME"
	ClassBlockDependency     VulnerabilityClass = "BD"
	ClassReentrancy          VulnerabilityClass = "RE"
)

func VulnerabilityClasses() []VulnerabilityClass {
	return []VulnerabilityClass{ClassMishandledException, ClassBlockDependency, ClassReentrancy}
}

func (v Vulnerability) Class() VulnerabilityClass {
	switch v {
	case Delegate, ExceptionDisorder, GaslessSend:
		return ClassMishandledException
	case NumberDependency, TimestampDependency:
		return ClassBlockDependency
	case Reentrancy:
		return ClassReentrancy
	}
	panic(fmt.Sprintf("vulnerability %q has no class", string(v)))
}

// Members returns the vulnerabilities that belong to the class.
func (c VulnerabilityClass) Members() []Vulnerability {
	var out []Vulnerability
	for _, v := range Vulnerabilities() {
		if v.Class() == c {
			out = append(out, v)
		}
	}
	return out
}

// VulnerabilitySet is an unordered set of canonical tags.
type VulnerabilitySet map[Vulnerability]struct{}

func NewVulnerabilitySet(vs ...Vulnerability) VulnerabilitySet {
	s := make(VulnerabilitySet, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

func (s VulnerabilitySet) Has(v Vulnerability) bool {
	_, ok := s[v]
	return ok
}

// HasClass reports whether any member of the set belongs to c.
func (s VulnerabilitySet) HasClass(c VulnerabilityClass) bool {
	for v := range s {
		if v.Class() == c {
			return true
		}
	}
	return false
}
