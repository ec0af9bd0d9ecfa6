package framework

import (
	"context"
	"fmt"
	"strings"
)

type environment struct {
	reporter    *Reporter
	comparator  Comparator
	debugLogger Logger
}

// Context is the harness state of one fixture run. It owns the sections, and through them the test
// case registries, of that run and nothing else; a new Context is created for every fixture.
//
// A Context is not safe for concurrent use. Fixture code calls it in program order.
type Context struct {
	env         *environment
	id          FixtureID
	ctx         context.Context
	sections    []*Section
	current     *Section
	debugLogger CapturingLogger
	logger      Logger
	skipped     bool
	skipReason  string
	depth       int
}

func newContext(ctx context.Context, env *environment, id FixtureID) *Context {
	c := &Context{env: env, id: id, ctx: ctx}
	c.logger = teeLogger{captured: &c.debugLogger, main: env.debugLogger, prefix: id.String() + ": "}
	return c
}

func (c *Context) ID() FixtureID {
	return c.id
}

// Done is closed when the fixture's deadline passes or the run is cancelled. Engines that can
// interrupt running code watch it; plain Go fixtures may poll Err.
func (c *Context) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Context) Err() error {
	return c.ctx.Err()
}

// StartTest begins a new section. A previous section that has cases which were never reported is
// reported first.
func (c *Context) StartTest(info SectionInfo) error {
	if c.current != nil && c.current.registry.Len() > 0 && c.current.pending() {
		if _, err := c.env.reporter.Report(c.current); err != nil {
			return err
		}
	}
	if info.ID == "" {
		info.ID = c.id.String()
	}
	c.current = newSection(info, c.env.comparator)
	c.sections = append(c.sections, c.current)
	return nil
}

func (c *Context) section() *Section {
	if c.current == nil {
		_ = c.StartTest(SectionInfo{})
	}
	return c.current
}

// Section returns the active section, starting an implicit one if StartTest was never called.
func (c *Context) Section() *Section {
	return c.section()
}

// WriteHeaderToLog sets the header line of the active section. The Reporter writes it once, before
// any of the section's cases.
func (c *Context) WriteHeaderToLog(text string) {
	c.section().header = text
}

// AnnotateSection fills in metadata fields of the active section that are still empty. Fields that
// are already set are never changed.
func (c *Context) AnnotateSection(info SectionInfo) {
	s := c.section()
	fill := func(dest *string, value string) {
		if *dest == "" {
			*dest = value
		}
	}
	fill(&s.info.Title, info.Title)
	fill(&s.info.Version, info.Version)
	fill(&s.info.File, info.File)
	fill(&s.info.BugNumber, info.BugNumber)
	fill(&s.info.Summary, info.Summary)
}

// TestCase records one assertion in the active section.
func (c *Context) TestCase(description string, expected, actual Value) *TestCase {
	tc := c.section().registry.Record(description, expected, actual)
	if !tc.passed {
		c.logger.Printf("FAILED: %s", description)
	}
	return tc
}

// ReportCompare is TestCase with the argument order used by regression fixtures.
func (c *Context) ReportCompare(expected, actual Value, description string) *TestCase {
	return c.TestCase(description, expected, actual)
}

// ExpectOutcome records an assertion about whether some code returned or threw.
func (c *Context) ExpectOutcome(description string, expected, actual Outcome) *TestCase {
	return c.TestCase(description, expected.Value(), actual.Value())
}

// Test reports the active section. It may be called more than once; the header is only written the
// first time.
func (c *Context) Test() (ReportSummary, error) {
	return c.env.reporter.Report(c.section())
}

func (c *Context) Print(args ...interface{}) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	c.logger.Printf("%s", strings.Join(parts, " "))
}

func (c *Context) PrintStatus(message string) {
	c.logger.Printf("STATUS: %s", message)
}

// PrintBugNumber logs the bug number and attaches it to the active section if it has none.
func (c *Context) PrintBugNumber(bug string) {
	c.AnnotateSection(SectionInfo{BugNumber: bug})
	c.logger.Printf("BUGNUMBER: %s", bug)
}

func (c *Context) EnterFunc(name string) {
	c.depth++
	c.logger.Printf("%sentering %s", strings.Repeat("  ", c.depth-1), name)
}

func (c *Context) ExitFunc(name string) {
	if c.depth > 0 {
		c.depth--
	}
	c.logger.Printf("%sexiting %s", strings.Repeat("  ", c.depth), name)
}

// Skip stops the fixture and marks it as skipped. It does not return.
func (c *Context) Skip(reason string) {
	c.skipped = true
	c.skipReason = reason
	panic(c)
}

func (c *Context) DebugLogger() Logger {
	return c.logger
}

// DebugOutput returns the diagnostic output captured so far.
func (c *Context) DebugOutput() CapturedOutput {
	return c.debugLogger.Output()
}

// finalize reports every section that has unreported cases and returns the section results.
func (c *Context) finalize() ([]SectionResult, error) {
	var results []SectionResult
	for _, s := range c.sections {
		if s.registry.Len() == 0 && s != c.current && !s.reported {
			continue
		}
		if s.pending() {
			if _, err := c.env.reporter.Report(s); err != nil {
				return results, err
			}
		}
		results = append(results, SectionResult{
			Info:    s.info,
			Header:  s.Header(),
			Summary: s.summary,
			Cases:   s.registry.Cases(),
		})
	}
	return results, nil
}
