package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

const programName = "js-fixture-harness"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		out:       os.Stdout,
		errOut:    os.Stderr,
		lookupEnv: os.LookupEnv,
	}
	err := newRootCommand(a).ExecuteContext(ctx)
	code := exitCode(err)
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	}
	stop()
	os.Exit(code)
}
