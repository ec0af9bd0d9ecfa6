package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/launchdarkly/js-fixture-harness/framework"
)

// ConsoleTestLogger reports fixture failures, skips, and debug output on the console. Section
// reports are not written here; they go to the Reporter's sink.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
	Progress             *progressbar.ProgressBar

	passed, failed int
}

func (c *ConsoleTestLogger) FixtureStarted(id framework.FixtureID) {}

func (c *ConsoleTestLogger) FixtureError(id framework.FixtureID, err error) {
	c.clearProgress()
	fmt.Fprintf(c.Out, "[%s]\n", id)
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) FixtureFinished(id framework.FixtureID, result framework.FixtureResult,
	debugOutput framework.CapturedOutput) {
	failed := !result.OK()
	if failed {
		c.failed++
		c.clearProgress()
		fmt.Fprintf(c.Out, "  %s %s (%d of %d cases failed)\n", color.RedString("FAILED:"), id,
			result.Failed(), result.Failed()+result.Passed())
	} else {
		c.passed++
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		c.clearProgress()
		fmt.Fprintf(c.Out, "  debug output of %s:\n", id)
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
	c.advance()
}

func (c *ConsoleTestLogger) FixtureSkipped(id framework.FixtureID, reason string) {
	if c.Progress == nil {
		if reason == "" {
			fmt.Fprintf(c.Out, "  %s %s\n", color.YellowString("SKIPPED:"), id)
		} else {
			fmt.Fprintf(c.Out, "  %s %s (%s)\n", color.YellowString("SKIPPED:"), id, reason)
		}
	}
	c.advance()
}

func (c *ConsoleTestLogger) advance() {
	if c.Progress == nil {
		return
	}
	_ = c.Progress.Add(1)
	c.Progress.Describe(progressDescription(c.passed, c.failed))
}

func (c *ConsoleTestLogger) clearProgress() {
	if c.Progress != nil {
		_ = c.Progress.Clear()
	}
}

func newProgressBar(out io.Writer, count int) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(progressDescription(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func progressDescription(passed, failed int) string {
	return color.CyanString("Running fixtures: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}
