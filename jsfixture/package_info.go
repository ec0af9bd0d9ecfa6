// Package jsfixture runs Mozilla-style JavaScript conformance fixtures against the framework
// package.
//
// A fixture is a standalone .js file that calls the classic shell API: startTest, TestCase (or
// reportCompare), and test. Each fixture runs in its own ECMAScript runtime, and every shell
// function is bound to the framework.Context of that run, so fixtures share no state.
package jsfixture
