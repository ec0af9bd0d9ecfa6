package jsfixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	"github.com/launchdarkly/js-fixture-harness/framework"
)

// Engine runs fixture scripts. It holds only compiled shared scripts; every Run uses a new runtime,
// so an Engine can be reused for any number of fixtures.
type Engine struct {
	includes []*goja.Program
}

// NewEngine compiles the include files, which are run in order before every fixture. They
// typically hold per-suite shell.js helpers.
func NewEngine(includes ...string) (*Engine, error) {
	e := &Engine{}
	for _, path := range includes {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read include file: %w", err)
		}
		prg, err := goja.Compile(filepath.Base(path), string(data), false)
		if err != nil {
			return nil, fmt.Errorf("could not compile include file %s: %w", path, err)
		}
		e.includes = append(e.includes, prg)
	}
	return e, nil
}

// RunFile reads and runs a fixture file.
func (e *Engine) RunFile(c *framework.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return e.Run(c, filepath.Base(path), string(data))
}

// Run executes one fixture script against c.
//
// An exception that escapes the script is returned as a *ScriptError. If c's deadline passes, the
// script is interrupted and c.Err() is returned. If the report sink fails during test(), the script
// is stopped and the *framework.SinkFault is returned.
func (e *Engine) Run(c *framework.Context, name, source string) error {
	prg, err := goja.Compile(name, source, false)
	if err != nil {
		return scriptError(nil, err)
	}

	vm := goja.New()
	b := &bindings{vm: vm, c: c, file: name}
	if err := vm.Set("__harness", b.object()); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-c.Done():
			vm.Interrupt(c.Err())
		case <-stop:
		}
	}()

	for _, p := range append(append([]*goja.Program{prelude}, e.includes...), prg) {
		if _, err := vm.RunProgram(p); err != nil {
			return b.runError(err)
		}
	}
	b.annotate()
	return nil
}

// bindings connects the Go side of the shell API to one Context.
type bindings struct {
	vm       *goja.Runtime
	c        *framework.Context
	file     string
	abortErr error
}

func (b *bindings) object() *goja.Object {
	obj := b.vm.NewObject()
	set := func(name string, fn func(goja.FunctionCall) goja.Value) {
		_ = obj.Set(name, fn)
	}
	set("record", b.record)
	set("startTest", b.startTest)
	set("test", b.test)
	set("writeHeaderToLog", func(call goja.FunctionCall) goja.Value {
		b.c.WriteHeaderToLog(toString(call.Argument(0)))
		return goja.Undefined()
	})
	set("printBugNumber", func(call goja.FunctionCall) goja.Value {
		b.c.PrintBugNumber(toString(call.Argument(0)))
		return goja.Undefined()
	})
	set("printStatus", func(call goja.FunctionCall) goja.Value {
		for _, line := range strings.Split(toString(call.Argument(0)), "\n") {
			b.c.PrintStatus(line)
		}
		return goja.Undefined()
	})
	set("enterFunc", func(call goja.FunctionCall) goja.Value {
		b.c.EnterFunc(toString(call.Argument(0)))
		return goja.Undefined()
	})
	set("exitFunc", func(call goja.FunctionCall) goja.Value {
		b.c.ExitFunc(toString(call.Argument(0)))
		return goja.Undefined()
	})
	set("print", func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			args = append(args, a.String())
		}
		b.c.Print(args...)
		return goja.Undefined()
	})
	return obj
}

func (b *bindings) record(call goja.FunctionCall) goja.Value {
	description := toString(call.Argument(0))
	tc := b.c.TestCase(description, toValue(b.vm, call.Argument(1)), toValue(b.vm, call.Argument(2)))
	return b.vm.ToValue(tc.Passed())
}

func (b *bindings) startTest(goja.FunctionCall) goja.Value {
	if err := b.c.StartTest(b.sectionInfo()); err != nil {
		b.abort(err)
	}
	return goja.Undefined()
}

func (b *bindings) test(goja.FunctionCall) goja.Value {
	b.annotate()
	if _, err := b.c.Test(); err != nil {
		b.abort(err)
	}
	return goja.Undefined()
}

// sectionInfo reads the section globals. They are read when needed rather than once, because
// fixtures commonly assign them after calling startTest.
func (b *bindings) sectionInfo() framework.SectionInfo {
	info := framework.SectionInfo{
		ID:        b.global("SECTION"),
		Title:     b.global("TITLE"),
		Version:   b.global("VERSION"),
		File:      b.global("gTestfile"),
		BugNumber: b.global("BUGNUMBER"),
		Summary:   b.global("summary"),
	}
	if info.File == "" {
		info.File = b.file
	}
	return info
}

func (b *bindings) annotate() {
	b.c.AnnotateSection(b.sectionInfo())
}

func (b *bindings) global(name string) string {
	var s string
	if ex := b.vm.Try(func() { s = toString(b.vm.Get(name)) }); ex != nil {
		return ""
	}
	return s
}

// abort stops the script with an error that script code cannot catch.
func (b *bindings) abort(err error) {
	b.abortErr = err
	b.vm.Interrupt(err)
}

func (b *bindings) runError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		b.vm.ClearInterrupt()
		if b.abortErr != nil {
			return b.abortErr
		}
		if ctxErr := b.c.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return scriptError(b.vm, err)
}
