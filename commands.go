package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/launchdarkly/js-fixture-harness/config"
	"github.com/launchdarkly/js-fixture-harness/framework"
	"github.com/launchdarkly/js-fixture-harness/jsfixture"
	"github.com/launchdarkly/js-fixture-harness/resultstore"
)

// app holds the process environment that commands use.
type app struct {
	out       io.Writer
	errOut    io.Writer
	lookupEnv func(string) (string, bool)
	dir       string
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           programName,
		Short:         "Run JavaScript conformance fixtures",
		Long:          "Runs Mozilla-style JavaScript conformance fixtures and reports every test case they register.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.AddCommand(newRunCommand(a))
	cmd.AddCommand(newListCommand(a))
	return cmd
}

func newRunCommand(a *app) *cobra.Command {
	params := &runParams{}
	cmd := &cobra.Command{
		Use:   "run [flags] <fixture-glob>...",
		Short: "Run fixtures and report their results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), params, params.overrides(cmd), args)
		},
	}
	params.addFlags(cmd)
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	params := &commandParams{}
	cmd := &cobra.Command{
		Use:   "list [flags] <fixture-glob>...",
		Short: "List the fixtures that would be run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(params, params.overrides(cmd), args)
		},
	}
	params.addFlags(cmd)
	return cmd
}

func (a *app) loadConfig(params *commandParams, overrides config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: params.configFile,
		Dir:        a.dir,
		LookupEnv:  a.lookupEnv,
		Flags:      overrides,
	})
	if err != nil {
		return nil, commandError("configuration error", err)
	}
	return cfg, nil
}

// fixtures discovers the fixtures named by patterns and wraps them for the runner.
func (a *app) fixtures(cfg *config.Config, patterns []string) ([]framework.NamedFixture, *jsfixture.SkipList, error) {
	paths, err := jsfixture.Discover(patterns, cfg.Ignore)
	if err != nil {
		return nil, nil, commandError("", err)
	}
	skipList, err := jsfixture.LoadSkipList(cfg.SkipList)
	if err != nil {
		return nil, nil, commandError("", err)
	}
	engine, err := jsfixture.NewEngine(cfg.Includes...)
	if err != nil {
		return nil, nil, commandError("", err)
	}
	return jsfixture.Fixtures(paths, cfg.Root, engine, skipList), skipList, nil
}

func (a *app) run(ctx context.Context, params *runParams, overrides config.Overrides, patterns []string) error {
	startedAt := time.Now()
	cfg, err := a.loadConfig(&params.commandParams, overrides)
	if err != nil {
		return err
	}
	fixtures, _, err := a.fixtures(cfg, patterns)
	if err != nil {
		return err
	}
	if params.failed {
		if fixtures, err = onlyPreviouslyFailed(cfg, fixtures); err != nil {
			return err
		}
	}

	framework.PrintFilterDescription(a.errOut, params.filters)

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(a.errOut, "", log.LstdFlags)
	}
	testLogger := &ConsoleTestLogger{
		Out:                  a.errOut,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	if params.progress {
		testLogger.Progress = newProgressBar(a.errOut, len(fixtures))
	}

	reporter := framework.NewReporter(a.out, cfg.Color && !color.NoColor)
	runner := framework.NewRunner(reporter,
		framework.WithComparator(framework.Comparator{Tolerance: cfg.Tolerance}),
		framework.WithTimeout(cfg.Timeout),
		framework.WithTestLogger(testLogger),
		framework.WithDebugLogger(mainDebugLogger),
	)

	results, err := runner.RunAll(ctx, fixtures, params.filters.AsFilter)
	if err != nil {
		if framework.IsSinkFault(err) {
			return commandError("run aborted", err)
		}
		return commandError("run interrupted", err)
	}

	if cfg.JSONOutput != "" {
		if err := resultstore.WriteJSON(cfg.JSONOutput, resultstore.NewRunID(), startedAt, results); err != nil {
			return commandError("", err)
		}
	}

	if err := a.printResults(cfg, params, results, fixtureSources(fixtures)); err != nil {
		return commandError("run aborted", &framework.SinkFault{Err: err})
	}
	if !results.OK() {
		return &exitError{code: framework.ExitFailures}
	}
	return nil
}

func (a *app) printResults(cfg *config.Config, params *runParams, results framework.Results,
	sources map[string]string) error {
	if _, err := fmt.Fprintf(a.out, "\n%s\n", results.Totals()); err != nil {
		return err
	}
	if results.OK() {
		return nil
	}
	if _, err := fmt.Fprintln(a.out, "\nTo rerun the failed fixtures:"); err != nil {
		return err
	}
	for _, f := range results.Failures {
		var cmd commandBuilder
		cmd.add(programName, "run")
		if params.configFile != "" {
			cmd.add("--config", params.configFile)
		}
		if cfg.Root != config.DefaultRoot {
			cmd.add("--root", cfg.Root)
		}
		for _, include := range cfg.Includes {
			cmd.add("--include", include)
		}
		source, ok := sources[f.ID.String()]
		if !ok {
			source = filepath.Join(cfg.Root, filepath.FromSlash(f.ID.String()))
		}
		cmd.add(source)
		if _, err := fmt.Fprintf(a.out, "  %s\n", cmd); err != nil {
			return err
		}
	}
	return nil
}

// fixtureSources maps fixture IDs to the paths the fixtures were loaded from.
func fixtureSources(fixtures []framework.NamedFixture) map[string]string {
	ret := make(map[string]string, len(fixtures))
	for _, f := range fixtures {
		if f.Source != "" {
			ret[f.ID.String()] = f.Source
		}
	}
	return ret
}

// onlyPreviouslyFailed keeps the fixtures recorded as failed in the last results file.
func onlyPreviouslyFailed(cfg *config.Config, fixtures []framework.NamedFixture) ([]framework.NamedFixture, error) {
	if cfg.JSONOutput == "" {
		return nil, commandError("--failed requires --json-output", nil)
	}
	doc, err := resultstore.Load(cfg.JSONOutput)
	if err != nil {
		return nil, commandError("", err)
	}
	failed := make(map[string]bool)
	for _, id := range resultstore.FailedFixtureIDs(doc) {
		failed[id] = true
	}
	var ret []framework.NamedFixture
	for _, f := range fixtures {
		if failed[f.ID.String()] {
			ret = append(ret, f)
		}
	}
	return ret, nil
}

func (a *app) list(params *commandParams, overrides config.Overrides, patterns []string) error {
	cfg, err := a.loadConfig(params, overrides)
	if err != nil {
		return err
	}
	fixtures, skipList, err := a.fixtures(cfg, patterns)
	if err != nil {
		return err
	}
	for _, f := range fixtures {
		id := f.ID.String()
		if _, skipped := skipList.Reason(id); skipped || !params.filters.AsFilter(f.ID) {
			continue
		}
		if _, err := fmt.Fprintln(a.out, id); err != nil {
			return commandError("", err)
		}
	}
	return nil
}
