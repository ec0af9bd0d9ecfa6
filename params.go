package main

import (
	"strings"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/launchdarkly/js-fixture-harness/config"
	"github.com/launchdarkly/js-fixture-harness/framework"
)

// commandParams are the flags shared by the run and list commands.
type commandParams struct {
	configFile string
	root       string
	skipList   string
	includes   []string
	ignore     []string
	filters    framework.RegexFilters
}

func (c *commandParams) addFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&c.configFile, "config", "", "config file (default "+config.DefaultConfigFile+" if present)")
	fs.StringVar(&c.root, "root", config.DefaultRoot, "directory that fixture IDs are relative to")
	fs.StringVar(&c.skipList, "skip-list", "", "file listing fixtures that must not be run")
	fs.StringArrayVar(&c.includes, "include", nil, "script to run before every fixture (repeatable)")
	fs.StringArrayVar(&c.ignore, "ignore", nil, "directory name to leave out of fixture discovery (repeatable)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select fixtures to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select fixtures not to run")
}

// overrides returns the settings that were given explicitly on the command line.
func (c *commandParams) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	changed := cmd.Flags().Changed
	if changed("root") {
		o.Root = ldvalue.NewOptionalString(c.root)
	}
	if changed("skip-list") {
		o.SkipList = ldvalue.NewOptionalString(c.skipList)
	}
	if changed("include") {
		o.Includes = c.includes
	}
	if changed("ignore") {
		o.Ignore = c.ignore
	}
	return o
}

type runParams struct {
	commandParams
	timeout    string
	tolerance  float64
	jsonOutput string
	failed     bool
	progress   bool
	noColor    bool
	debug      bool
	debugAll   bool
}

func (r *runParams) addFlags(cmd *cobra.Command) {
	r.commandParams.addFlags(cmd)
	fs := cmd.Flags()
	fs.StringVar(&r.timeout, "timeout", config.DefaultTimeout.String(), "time limit for each fixture (0 for none)")
	fs.Float64Var(&r.tolerance, "tolerance", config.DefaultTolerance, "numeric tolerance when comparing numbers")
	fs.StringVar(&r.jsonOutput, "json-output", "", "file to write machine-readable results to")
	fs.BoolVar(&r.failed, "failed", false, "run only the fixtures that failed in the --json-output file of the last run")
	fs.BoolVar(&r.progress, "progress", false, "show a progress bar")
	fs.BoolVar(&r.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&r.debug, "debug", false, "show fixture debug output for failed fixtures")
	fs.BoolVar(&r.debugAll, "debug-all", false, "show fixture debug output for all fixtures")
}

func (r *runParams) overrides(cmd *cobra.Command) config.Overrides {
	o := r.commandParams.overrides(cmd)
	changed := cmd.Flags().Changed
	if changed("timeout") {
		o.Timeout = ldvalue.NewOptionalString(r.timeout)
	}
	if changed("tolerance") {
		o.Tolerance = ldvalue.Float64(r.tolerance)
	}
	if changed("json-output") {
		o.JSONOutput = ldvalue.NewOptionalString(r.jsonOutput)
	}
	if r.noColor {
		o.Color = ldvalue.NewOptionalBool(false)
	}
	return o
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
