// Package resultstore writes the results of a run to a JSON file, and reads them back so that a
// later run can select the fixtures that failed.
package resultstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/launchdarkly/js-fixture-harness/framework"
)

// NewRunID returns a unique ID for a run.
func NewRunID() string {
	return uuid.New().String()
}

// Document converts run results into the JSON document that WriteJSON writes.
func Document(runID string, startedAt time.Time, results framework.Results) ldvalue.Value {
	totals := results.Totals()
	fixtures := ldvalue.ArrayBuildWithCapacity(len(results.Fixtures))
	for _, f := range results.Fixtures {
		fixtures.Add(fixtureDocument(f))
	}
	return ldvalue.ObjectBuild().
		Set("runId", ldvalue.String(runID)).
		Set("startedAt", ldvalue.String(startedAt.UTC().Format(time.RFC3339))).
		Set("ok", ldvalue.Bool(results.OK())).
		Set("totals", ldvalue.ObjectBuild().
			Set("fixtures", ldvalue.Int(totals.Fixtures)).
			Set("failed", ldvalue.Int(totals.Failed)).
			Set("skipped", ldvalue.Int(totals.Skipped)).
			Set("cases", ldvalue.Int(totals.Cases)).
			Set("passed", ldvalue.Int(totals.Passed)).
			Set("failures", ldvalue.Int(totals.Failures)).
			Build()).
		Set("fixtures", fixtures.Build()).
		Build()
}

func fixtureDocument(f framework.FixtureResult) ldvalue.Value {
	b := ldvalue.ObjectBuild().
		Set("id", ldvalue.String(f.ID.String())).
		Set("ok", ldvalue.Bool(f.OK())).
		Set("skipped", ldvalue.Bool(f.Skipped))
	if f.SkipReason != "" {
		b.Set("skipReason", ldvalue.String(f.SkipReason))
	}
	if f.Fault != nil {
		b.Set("fault", ldvalue.String(f.Fault.Error()))
	}
	sections := ldvalue.ArrayBuildWithCapacity(len(f.Sections))
	for _, s := range f.Sections {
		cases := ldvalue.ArrayBuildWithCapacity(len(s.Cases))
		for _, tc := range s.Cases {
			renderingFault := tc.RenderingFault()
			c := ldvalue.ObjectBuild().
				Set("description", ldvalue.String(tc.Description())).
				Set("passed", ldvalue.Bool(tc.Passed() && !renderingFault)).
				Set("expected", ldvalue.String(tc.Expected().String())).
				Set("actual", ldvalue.String(tc.Actual().String()))
			if renderingFault {
				c.Set("renderingFault", ldvalue.Bool(true))
			}
			cases.Add(c.Build())
		}
		sections.Add(ldvalue.ObjectBuild().
			Set("id", ldvalue.String(s.Info.ID)).
			Set("header", ldvalue.String(s.Header)).
			Set("summary", ldvalue.ObjectBuild().
				Set("total", ldvalue.Int(s.Summary.Total)).
				Set("passed", ldvalue.Int(s.Summary.Passed)).
				Set("failed", ldvalue.Int(s.Summary.Failed)).
				Set("renderingFaults", ldvalue.Int(s.Summary.RenderingFaults)).
				Build()).
			Set("cases", cases.Build()).
			Build())
	}
	b.Set("sections", sections.Build())
	return b.Build()
}

// WriteJSON writes the results document to path, creating its directory if necessary.
func WriteJSON(path string, runID string, startedAt time.Time, results framework.Results) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create results directory: %w", err)
		}
	}
	data, err := Document(runID, startedAt, results).MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("could not write results: %w", err)
	}
	return nil
}

// Load reads a document written by WriteJSON.
func Load(path string) (ldvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ldvalue.Null(), fmt.Errorf("could not read results: %w", err)
	}
	doc := ldvalue.Parse(data)
	if doc.Type() != ldvalue.ObjectType || doc.GetByKey("fixtures").Type() != ldvalue.ArrayType {
		return ldvalue.Null(), fmt.Errorf("%s is not a results file", path)
	}
	return doc, nil
}

// FailedFixtureIDs returns the IDs of the fixtures that did not pass in a results document.
func FailedFixtureIDs(doc ldvalue.Value) []string {
	var ids []string
	fixtures := doc.GetByKey("fixtures")
	for i := 0; i < fixtures.Count(); i++ {
		f := fixtures.GetByIndex(i)
		if !f.GetByKey("ok").BoolValue() {
			ids = append(ids, f.GetByKey("id").StringValue())
		}
	}
	return ids
}
