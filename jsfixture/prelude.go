package jsfixture

import "github.com/dop251/goja"

// The parts of the fixture shell API that have to be written in script: TestCase is called with
// "new", and fixtures read and sometimes replace these globals. Everything else is bound to Go
// functions on the __harness object.
const preludeSource = `
var GLOBAL = this;
var PASSED = " PASSED! ";
var FAILED = " FAILED! ";

function TestCase(n, d, e, a) {
  if (arguments.length < 4) {
    a = e;
    e = d;
    d = n;
    n = (typeof SECTION == "undefined") ? undefined : SECTION;
  }
  this.name = n;
  this.description = d;
  this.expect = e;
  this.actual = a;
  this.passed = __harness.record(d, e, a);
  this.reason = "";
  this.bugnumber = (typeof BUGNUMBER == "undefined") ? "" : BUGNUMBER;
}

function startTest() {
  __harness.startTest();
}

function test() {
  __harness.test();
}

function reportCompare(expected, actual, description) {
  return __harness.record(description, expected, actual);
}

function reportFailure(msg) {
  __harness.record(msg, "no failure reported", "failure reported: " + msg);
}

function writeHeaderToLog(string) {
  __harness.writeHeaderToLog(string);
}

function printBugNumber(num) {
  __harness.printBugNumber(num);
}

function printStatus(msg) {
  __harness.printStatus(msg);
}

function inSection(x) {
  return "Section " + x + " of test - ";
}

function enterFunc(funcName) {
  __harness.enterFunc(funcName);
}

function exitFunc(funcName) {
  __harness.exitFunc(funcName);
}

function expectExitCode(n) {
}

function print() {
  __harness.print.apply(null, arguments);
}
`

var prelude = goja.MustCompile("prelude.js", preludeSource, false)
