package framework

// FaultKind distinguishes synthetic test cases from ordinary assertions.
type FaultKind string

const (
	// FaultNone is an ordinary assertion recorded by the fixture.
	FaultNone FaultKind = ""
	// FaultFixture is the synthetic case recorded for an error that escaped the fixture.
	FaultFixture FaultKind = "fixture"
)

// TestCase is one recorded assertion. Its outcome is computed when it is created and never changes.
type TestCase struct {
	description string
	expected    Value
	actual      Value
	passed      bool
	fault       FaultKind
	faultErr    error
}

func (tc *TestCase) Description() string { return tc.description }

func (tc *TestCase) Expected() Value { return tc.expected }

func (tc *TestCase) Actual() Value { return tc.actual }

func (tc *TestCase) Passed() bool { return tc.passed }

func (tc *TestCase) Fault() FaultKind { return tc.fault }

// RenderingFault reports whether the expected or actual value cannot be rendered. The Reporter
// counts such a case as failed even if its values matched.
func (tc *TestCase) RenderingFault() bool {
	_, expectedErr := tc.expected.Render()
	_, actualErr := tc.actual.Render()
	return expectedErr != nil || actualErr != nil
}

// Err returns nil for a passing case, the fault for a synthetic case, and ErrAssertionMismatch
// otherwise.
func (tc *TestCase) Err() error {
	switch {
	case tc.passed:
		return nil
	case tc.faultErr != nil:
		return tc.faultErr
	default:
		return ErrAssertionMismatch
	}
}

// Registry is the ordered, append-only list of test cases for one section.
type Registry struct {
	comparator Comparator
	cases      []*TestCase
}

func NewRegistry(comparator Comparator) *Registry {
	return &Registry{comparator: comparator}
}

// Record compares actual against expected and appends the resulting test case.
func (r *Registry) Record(description string, expected, actual Value) *TestCase {
	tc := &TestCase{
		description: description,
		expected:    expected,
		actual:      actual,
		passed:      r.comparator.Compare(expected, actual),
	}
	r.cases = append(r.cases, tc)
	return tc
}

func (r *Registry) recordFault(description string, fault *FixtureFault) *TestCase {
	tc := &TestCase{
		description: description,
		expected:    String("no uncaught error"),
		actual:      ErrorValue(fault.Err),
		fault:       FaultFixture,
		faultErr:    fault,
	}
	r.cases = append(r.cases, tc)
	return tc
}

func (r *Registry) Len() int { return len(r.cases) }

// Cases returns the recorded test cases in the order they were recorded.
func (r *Registry) Cases() []*TestCase {
	return append([]*TestCase(nil), r.cases...)
}
