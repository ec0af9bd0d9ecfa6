package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a harness run.
type Config struct {
	Root       string        `yaml:"root"`
	Timeout    time.Duration `yaml:"timeout"`
	Tolerance  float64       `yaml:"tolerance"`
	SkipList   string        `yaml:"skipList"`
	Includes   []string      `yaml:"includes"`
	Ignore     []string      `yaml:"ignore"`
	JSONOutput string        `yaml:"jsonOutput"`
	Color      bool          `yaml:"color"`
}

// Overrides are settings given explicitly, by environment variables or on the command line. Fields
// that are not defined leave the configured value alone.
type Overrides struct {
	Root       ldvalue.OptionalString
	Timeout    ldvalue.OptionalString
	Tolerance  ldvalue.Value
	SkipList   ldvalue.OptionalString
	JSONOutput ldvalue.OptionalString
	Color      ldvalue.OptionalBool
	Includes   []string
	Ignore     []string
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an explicit config file path, which must exist. If empty, DefaultConfigFile
	// in Dir is used if it exists.
	ConfigFile string
	// Dir is the directory searched for DefaultConfigFile and DefaultEnvFile.
	Dir string
	// LookupEnv reads an environment variable; nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
	Flags     Overrides
}

// New creates a Config with defaults
func New() *Config {
	cfg := &Config{
		Root:      DefaultRoot,
		Timeout:   DefaultTimeout,
		Tolerance: DefaultTolerance,
		Color:     true,
	}
	cfg.Ignore = make([]string, len(DefaultIgnore))
	copy(cfg.Ignore, DefaultIgnore)
	return cfg
}

// Load builds the configuration. Later sources override earlier ones: defaults, the YAML config
// file, the .env file, environment variables, then flags.
func Load(opts LoadOptions) (*Config, error) {
	cfg := New()
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	configFile, required := opts.ConfigFile, true
	if configFile == "" {
		configFile, required = filepath.Join(dir, DefaultConfigFile), false
	}
	if err := cfg.readFile(configFile, required); err != nil {
		return nil, err
	}

	dotenv, err := readEnvFile(filepath.Join(dir, DefaultEnvFile))
	if err != nil {
		return nil, err
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envOverrides, err := overridesFromEnv(func(name string) (string, bool) {
		if value, ok := lookup(name); ok {
			return value, true
		}
		value, ok := dotenv[name]
		return value, ok
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(envOverrides); err != nil {
		return nil, fmt.Errorf("invalid environment setting: %w", err)
	}
	if err := cfg.Apply(opts.Flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return values, nil
}

func overridesFromEnv(lookup func(string) (string, bool)) (Overrides, error) {
	var o Overrides
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(value), ok && strings.TrimSpace(value) != ""
	}
	if v, ok := get("ROOT"); ok {
		o.Root = ldvalue.NewOptionalString(v)
	}
	if v, ok := get("TIMEOUT"); ok {
		o.Timeout = ldvalue.NewOptionalString(v)
	}
	if v, ok := get("TOLERANCE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return o, fmt.Errorf("%sTOLERANCE: %w", EnvPrefix, err)
		}
		o.Tolerance = ldvalue.Float64(f)
	}
	if v, ok := get("SKIP_LIST"); ok {
		o.SkipList = ldvalue.NewOptionalString(v)
	}
	if v, ok := get("JSON_OUTPUT"); ok {
		o.JSONOutput = ldvalue.NewOptionalString(v)
	}
	if v, ok := get("COLOR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("%sCOLOR: %w", EnvPrefix, err)
		}
		o.Color = ldvalue.NewOptionalBool(b)
	}
	if v, ok := get("INCLUDES"); ok {
		o.Includes = splitList(v)
	}
	if v, ok := get("IGNORE"); ok {
		o.Ignore = splitList(v)
	}
	return o, nil
}

func splitList(s string) []string {
	var ret []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			ret = append(ret, item)
		}
	}
	return ret
}

// Apply sets every field that is defined in o. Lists replace the configured list.
func (c *Config) Apply(o Overrides) error {
	if o.Root.IsDefined() {
		c.Root = o.Root.StringValue()
	}
	if o.Timeout.IsDefined() {
		d, err := time.ParseDuration(o.Timeout.StringValue())
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		c.Timeout = d
	}
	if o.Tolerance.IsNumber() {
		c.Tolerance = o.Tolerance.Float64Value()
	}
	if o.SkipList.IsDefined() {
		c.SkipList = o.SkipList.StringValue()
	}
	if o.JSONOutput.IsDefined() {
		c.JSONOutput = o.JSONOutput.StringValue()
	}
	if o.Color.IsDefined() {
		c.Color = o.Color.BoolValue()
	}
	if o.Includes != nil {
		c.Includes = o.Includes
	}
	if o.Ignore != nil {
		c.Ignore = o.Ignore
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative: %g", c.Tolerance)
	}
	if c.Root == "" {
		return errors.New("root must not be empty")
	}
	return nil
}
