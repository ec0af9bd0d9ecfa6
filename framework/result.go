package framework

import (
	"fmt"
	"strings"
)

// Exit statuses of a run.
const (
	ExitOK       = 0
	ExitFailures = 1
	ExitError    = 2
)

// FixtureID identifies a fixture, normally by the components of its path.
type FixtureID struct {
	Path []string
}

func NewFixtureID(path string) FixtureID {
	return FixtureID{Path: strings.Split(strings.Trim(path, "/"), "/")}
}

func (f FixtureID) String() string {
	return strings.Join(f.Path, "/")
}

// SectionResult is the final state of one section of a fixture run.
type SectionResult struct {
	Info    SectionInfo
	Header  string
	Summary ReportSummary
	Cases   []*TestCase
}

// FixtureResult is the outcome of running one fixture.
type FixtureResult struct {
	ID         FixtureID
	Sections   []SectionResult
	Skipped    bool
	SkipReason string
	// Fault is the error that escaped the fixture, if any. It is also recorded as a synthetic case.
	Fault error
}

// Cases returns every test case of the fixture, in recording order.
func (r FixtureResult) Cases() []*TestCase {
	var ret []*TestCase
	for _, s := range r.Sections {
		ret = append(ret, s.Cases...)
	}
	return ret
}

// Passed is the number of cases that passed, as last reported.
func (r FixtureResult) Passed() int {
	n := 0
	for _, s := range r.Sections {
		n += s.Summary.Passed
	}
	return n
}

// Failed is the number of cases that failed, as last reported.
func (r FixtureResult) Failed() int {
	n := 0
	for _, s := range r.Sections {
		n += s.Summary.Failed
	}
	return n
}

// OK is true if every registered case passed. A skipped fixture is OK.
func (r FixtureResult) OK() bool {
	return r.Failed() == 0 && r.Fault == nil
}

// ExitStatus returns ExitOK only if every registered case passed.
func (r FixtureResult) ExitStatus() int {
	if r.OK() {
		return ExitOK
	}
	return ExitFailures
}

// Results accumulates the fixture results of a run.
type Results struct {
	Fixtures []FixtureResult
	Failures []FixtureResult
}

func (r *Results) add(result FixtureResult) {
	r.Fixtures = append(r.Fixtures, result)
	if !result.OK() {
		r.Failures = append(r.Failures, result)
	}
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

func (r Results) ExitStatus() int {
	if r.OK() {
		return ExitOK
	}
	return ExitFailures
}

// Totals aggregates counts across all fixtures.
type Totals struct {
	Fixtures int
	Failed   int
	Skipped  int
	Cases    int
	Passed   int
	Failures int
}

func (r Results) Totals() Totals {
	t := Totals{Fixtures: len(r.Fixtures), Failed: len(r.Failures)}
	for _, f := range r.Fixtures {
		if f.Skipped {
			t.Skipped++
		}
		p, x := f.Passed(), f.Failed()
		t.Passed += p
		t.Failures += x
		t.Cases += p + x
	}
	return t
}

func (t Totals) String() string {
	return fmt.Sprintf("fixtures: %d (%d failed, %d skipped); cases: %d total, %d passed, %d failed",
		t.Fixtures, t.Failed, t.Skipped, t.Cases, t.Passed, t.Failures)
}
