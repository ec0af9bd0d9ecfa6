package framework

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	passedMarker = "PASSED!"
	failedMarker = "FAILED!"
)

// ReportSummary is the aggregate outcome of one section.
type ReportSummary struct {
	SectionID       string
	Total           int
	Passed          int
	Failed          int
	RenderingFaults int
}

func (s ReportSummary) OK() bool {
	return s.Failed == 0
}

// Reporter writes section results to a line-oriented log sink.
type Reporter struct {
	out    io.Writer
	passed *color.Color
	failed *color.Color
}

// NewReporter creates a Reporter that writes to out. The colorize setting overrides the global
// color settings, which normally depend on whether stdout is a terminal.
func NewReporter(out io.Writer, colorize bool) *Reporter {
	r := &Reporter{
		out:    out,
		passed: color.New(color.FgGreen),
		failed: color.New(color.FgRed, color.Bold),
	}
	if colorize {
		r.passed.EnableColor()
		r.failed.EnableColor()
	} else {
		r.passed.DisableColor()
		r.failed.DisableColor()
	}
	return r
}

// Report writes the section header (only the first time the section is reported), one line per
// test case in the order they were recorded, and a summary line.
//
// A value that cannot be rendered marks its case as failed in this report; reporting continues
// with the next case. An error from the sink is returned as a *SinkFault and ends the report.
func (r *Reporter) Report(s *Section) (ReportSummary, error) {
	summary := ReportSummary{SectionID: s.info.ID}
	if summary.SectionID == "" {
		summary.SectionID = s.Header()
	}

	if !s.headerLogged {
		if err := r.writeHeader(s); err != nil {
			return summary, err
		}
		s.headerLogged = true
	}

	cases := s.registry.Cases()
	for _, tc := range cases {
		passed, err := r.writeCase(tc)
		if err != nil {
			return summary, err
		}
		summary.Total++
		if passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		if !passed && tc.passed {
			summary.RenderingFaults++
		}
	}

	if err := r.printf("-- %s: %d total, %d passed, %d failed\n",
		summary.SectionID, summary.Total, summary.Passed, summary.Failed); err != nil {
		return summary, err
	}

	s.reported = true
	s.reportedLen = len(cases)
	s.summary = summary
	return summary, nil
}

func (r *Reporter) writeHeader(s *Section) error {
	if err := r.printf("## %s\n", s.Header()); err != nil {
		return err
	}
	for _, field := range []struct{ name, value string }{
		{"file", s.info.File},
		{"bug", s.info.BugNumber},
		{"summary", s.info.Summary},
		{"version", s.info.Version},
	} {
		if field.value == "" {
			continue
		}
		if err := r.printf("#  %s: %s\n", field.name, field.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writeCase(tc *TestCase) (bool, error) {
	passed := tc.passed
	expected, expectedErr := tc.expected.Render()
	if expectedErr != nil {
		expected = "<unrenderable: " + expectedErr.Error() + ">"
		passed = false
	}
	actual, actualErr := tc.actual.Render()
	if actualErr != nil {
		actual = "<unrenderable: " + actualErr.Error() + ">"
		passed = false
	}

	marker := r.passed.Sprint(passedMarker)
	if !passed {
		marker = r.failed.Sprint(failedMarker)
	}
	note := ""
	if expectedErr != nil || actualErr != nil {
		note = " (rendering fault)"
	}
	err := r.printf("%s %s: expected %s, actual %s%s\n", marker, tc.description, expected, actual, note)
	return passed, err
}

func (r *Reporter) printf(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		return &SinkFault{Err: err}
	}
	return nil
}
