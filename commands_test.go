package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/js-fixture-harness/framework"
	"github.com/launchdarkly/js-fixture-harness/resultstore"
)

const testFixtureRoot = "jsfixture/testdata/fixtures"

type commandResult struct {
	code   int
	err    error
	out    string
	errOut string
}

func execute(t *testing.T, env map[string]string, args ...string) commandResult {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{
		out:    &out,
		errOut: &errOut,
		lookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
		dir: t.TempDir(),
	}
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return commandResult{code: exitCode(err), err: err, out: out.String(), errOut: errOut.String()}
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand(&app{})
	for _, name := range []string{"run", "list"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	run, _, _ := cmd.Find([]string{"run"})
	for _, flag := range []string{"config", "root", "timeout", "tolerance", "skip-list", "include", "ignore",
		"run", "skip", "json-output", "failed", "progress", "no-color", "debug", "debug-all"} {
		assert.NotNil(t, run.Flags().Lookup(flag), flag)
	}
	assert.Equal(t, "regex", run.Flags().Lookup("run").Value.Type())
}

func TestRunPassingFixture(t *testing.T) {
	r := execute(t, nil, "run", "--root", testFixtureRoot, testFixtureRoot+"/ecma/**/*.js")
	require.NoError(t, r.err)
	assert.Equal(t, framework.ExitOK, r.code)
	assert.Contains(t, r.out, "## 12.6.2-3 The for statement\n")
	assert.Contains(t, r.out, "PASSED! for statement: expected 100, actual 100\n")
	assert.True(t, strings.HasSuffix(r.out,
		"\nfixtures: 1 (0 failed, 0 skipped); cases: 1 total, 1 passed, 0 failed\n"), r.out)
	assert.NotContains(t, r.out, "rerun")
}

func TestRunWithFailures(t *testing.T) {
	r := execute(t, nil, "run", "--root", testFixtureRoot, testFixtureRoot)
	assert.Equal(t, framework.ExitFailures, r.code)
	assert.Equal(t, "", r.err.Error())
	assert.Contains(t, r.out, "fixtures: 4 (1 failed, 0 skipped); cases: 4 total, 3 passed, 1 failed\n")
	assert.Contains(t, r.out, "To rerun the failed fixtures:\n")
	assert.Contains(t, r.out, "  js-fixture-harness run --root jsfixture/testdata/fixtures "+
		filepath.Join(testFixtureRoot, "lc3/JavaClass/ToClass-001.js")+"\n")
	assert.Contains(t, r.errOut, "FAILED: lc3/JavaClass/ToClass-001.js")
	assert.Contains(t, r.errOut, "ReferenceError")
}

func TestRerunCommandForFixtureOutsideRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outside.js")
	require.NoError(t, os.WriteFile(path, []byte(`throw new Error("boom");`), 0o644))

	r := execute(t, nil, "run", path)
	assert.Equal(t, framework.ExitFailures, r.code)
	assert.Contains(t, r.out, "To rerun the failed fixtures:\n  js-fixture-harness run "+path+"\n")
}

func TestRunWithSkipList(t *testing.T) {
	r := execute(t, nil, "run", "--root", testFixtureRoot, "--skip-list", "jsfixture/testdata/skip.txt",
		testFixtureRoot)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "fixtures: 4 (0 failed, 1 skipped); cases: 3 total, 3 passed, 0 failed\n")
	assert.Contains(t, r.errOut, "SKIPPED: lc3/JavaClass/ToClass-001.js (LiveConnect is not available)")
}

func TestRunWithFilters(t *testing.T) {
	r := execute(t, nil, "run", "--root", testFixtureRoot, "--run", "^ecma", "--skip", "ecma_2", testFixtureRoot)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "fixtures: 4 (0 failed, 3 skipped); cases: 1 total, 1 passed, 0 failed\n")
	assert.Contains(t, r.errOut, "skip any not matching \"^ecma\"")
}

func TestRunSettingsFromEnvironment(t *testing.T) {
	r := execute(t, map[string]string{
		"FIXTURE_HARNESS_ROOT":      testFixtureRoot,
		"FIXTURE_HARNESS_SKIP_LIST": "jsfixture/testdata/skip.txt",
	}, "run", testFixtureRoot)
	require.NoError(t, r.err)
	assert.Contains(t, r.errOut, "SKIPPED: lc3/JavaClass/ToClass-001.js")
}

func TestRunWritesJSONAndRerunsFailures(t *testing.T) {
	output := filepath.Join(t.TempDir(), "results", "last.json")
	r := execute(t, nil, "run", "--root", testFixtureRoot, "--json-output", output, testFixtureRoot)
	assert.Equal(t, framework.ExitFailures, r.code)

	doc, err := resultstore.Load(output)
	require.NoError(t, err)
	assert.Equal(t, []string{"lc3/JavaClass/ToClass-001.js"}, resultstore.FailedFixtureIDs(doc))

	r = execute(t, nil, "run", "--root", testFixtureRoot, "--json-output", output, "--failed", testFixtureRoot)
	assert.Equal(t, framework.ExitFailures, r.code)
	assert.Contains(t, r.out, "fixtures: 1 (1 failed, 0 skipped)")
	assert.NotContains(t, r.out, "12.6.2-3")
}

func TestFailedRequiresJSONOutput(t *testing.T) {
	r := execute(t, nil, "run", "--failed", testFixtureRoot)
	assert.Equal(t, framework.ExitError, r.code)
	assert.Contains(t, r.err.Error(), "--json-output")
}

func TestRunDebugOutput(t *testing.T) {
	r := execute(t, nil, "run", "--root", testFixtureRoot, "--debug-all", testFixtureRoot+"/js1_5")
	require.NoError(t, r.err)
	assert.Contains(t, r.errOut, "debug output of js1_5/Regress/regress-416737-02.js:")
	assert.Contains(t, r.errOut, "DEBUG ")
	assert.Contains(t, r.errOut, "BUGNUMBER: 416737")
}

func TestRunWithProgressBar(t *testing.T) {
	r := execute(t, nil, "run", "--root", testFixtureRoot, "--progress", testFixtureRoot+"/ecma")
	require.NoError(t, r.err)
	assert.Contains(t, r.errOut, "Running fixtures")
}

func TestRunCommandErrors(t *testing.T) {
	for name, args := range map[string][]string{
		"no patterns":      {"run"},
		"no matches":       {"run", testFixtureRoot + "/**/nothing-*.js"},
		"bad timeout":      {"run", "--timeout", "soon", testFixtureRoot},
		"bad regex":        {"run", "--run", "(", testFixtureRoot},
		"missing config":   {"run", "--config", "no-such-config.yaml", testFixtureRoot},
		"missing include":  {"run", "--include", "no-such-include.js", testFixtureRoot},
		"missing skiplist": {"run", "--skip-list", "no-such-list.txt", testFixtureRoot},
	} {
		t.Run(name, func(t *testing.T) {
			r := execute(t, nil, args...)
			assert.Equal(t, framework.ExitError, r.code)
		})
	}
}

func TestRunReportSinkFailure(t *testing.T) {
	a := &app{
		out:       failingWriter{},
		errOut:    &bytes.Buffer{},
		lookupEnv: func(string) (string, bool) { return "", false },
		dir:       t.TempDir(),
	}
	cmd := newRootCommand(a)
	cmd.SetArgs([]string{"run", testFixtureRoot + "/ecma"})
	err := cmd.Execute()
	assert.Equal(t, framework.ExitError, exitCode(err))
	assert.True(t, framework.IsSinkFault(err))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "harness.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(
		"root: "+testFixtureRoot+"\nskipList: jsfixture/testdata/skip.txt\n"), 0o644))

	r := execute(t, nil, "run", "--config", configFile, testFixtureRoot)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "1 skipped")
}

func TestList(t *testing.T) {
	r := execute(t, nil, "list", "--root", testFixtureRoot, "--skip-list", "jsfixture/testdata/skip.txt",
		"--skip", "lexical", testFixtureRoot)
	require.NoError(t, r.err)
	assert.Equal(t, "ecma/Statements/12.6.2-3.js\njs1_5/Regress/regress-416737-02.js\n", r.out)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, framework.ExitOK, exitCode(nil))
	assert.Equal(t, framework.ExitError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, framework.ExitFailures, exitCode(&exitError{code: framework.ExitFailures}))
	assert.Equal(t, "configuration error: bad", commandError("configuration error", errors.New("bad")).Error())
}

func TestCommandBuilderQuotes(t *testing.T) {
	var cmd commandBuilder
	cmd.add(programName, "run", "dir with space/a.js")
	assert.Equal(t, "js-fixture-harness run 'dir with space/a.js'", cmd.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("stdout closed")
}
