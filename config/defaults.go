package config

import (
	"time"

	"github.com/launchdarkly/js-fixture-harness/framework"
)

const (
	// DefaultRoot is the directory fixture IDs are relative to
	DefaultRoot = "."
	// DefaultTimeout is the per-fixture time limit
	DefaultTimeout = 10 * time.Second
	// DefaultTolerance is the numeric tolerance used when comparing numbers
	DefaultTolerance = framework.DefaultTolerance
	// DefaultConfigFile is read from the working directory if it exists
	DefaultConfigFile = ".fixture-harness.yaml"
	// DefaultEnvFile is read from the working directory if it exists
	DefaultEnvFile = ".env"
	// EnvPrefix is the prefix of every environment variable the harness reads
	EnvPrefix = "FIXTURE_HARNESS_"
)

// DefaultIgnore are the directory names never searched for fixtures
var DefaultIgnore = []string{
	"node_modules",
}
