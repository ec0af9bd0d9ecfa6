package framework

// TestLogger receives progress notifications from the Runner, one fixture at a time. Section
// reports themselves go to the Reporter's sink, not here.
type TestLogger interface {
	FixtureStarted(id FixtureID)
	FixtureError(id FixtureID, err error)
	FixtureFinished(id FixtureID, result FixtureResult, debugOutput CapturedOutput)
	FixtureSkipped(id FixtureID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) FixtureStarted(FixtureID) {}
func (n nullTestLogger) FixtureError(FixtureID, error) {}
func (n nullTestLogger) FixtureFinished(FixtureID, FixtureResult, CapturedOutput) {}
func (n nullTestLogger) FixtureSkipped(FixtureID, string) {}

// NullTestLogger returns a TestLogger that discards everything.
func NullTestLogger() TestLogger { return nullTestLogger{} }
