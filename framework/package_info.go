// Package framework contains the harness core that conformance fixtures run against. It knows
// nothing about any particular fixture language.
//
// The general model is:
//
// 1. A Runner runs one fixture at a time, giving it a fresh Context. Nothing recorded by one
// fixture is visible to another.
//
// 2. The fixture calls StartTest to begin a section, then records test cases. Each test case is
// compared by the Comparator when it is recorded, and never changes afterward.
//
// 3. The fixture calls Test to have the active section reported. The Runner finalizes every
// fixture the same way, so cases are reported even if the fixture never calls Test or fails
// partway through; an error that escapes the fixture becomes one synthetic failing case.
//
// 4. The Reporter writes a header, one line per case, and a summary line to a log sink. Only a
// failure to write to the sink ends a run early.
package framework
