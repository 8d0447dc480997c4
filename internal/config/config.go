// Package config loads the description of a simulation run: the disk, the
// processes, the operations to apply and the logging and metrics settings.
package config

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	alloc "github.com/lance6716/file-allocation-demo"
)

// EnvPrefix prefixes the environment variables overriding the configuration
// file, e.g. ALLOCSIM_LOGGING_LEVEL=DEBUG.
const EnvPrefix = "ALLOCSIM"

// Config is a complete simulation run.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (ALLOCSIM_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values
type Config struct {
	Logging    LoggingConfig     `mapstructure:"logging"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Disk       DiskConfig        `mapstructure:"disk"`
	Processes  []ProcessConfig   `mapstructure:"processes" validate:"dive"`
	Operations []OperationConfig `mapstructure:"operations" validate:"dive"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	// Format is text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
	// Output is stdout, stderr or a file path.
	Output string `mapstructure:"output" validate:"required"`
}

// MetricsConfig controls the Prometheus metrics of the run.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Textfile is where the metrics are written when the run ends, in the
	// node_exporter textfile format. Empty means they are not written.
	Textfile string `mapstructure:"textfile"`
}

// DiskConfig describes the disk before the first operation.
type DiskConfig struct {
	// Strategy accepts contiguous, linked, indexed or their codes 1, 2, 3.
	Strategy   alloc.AllocationStrategy `mapstructure:"strategy"`
	BlockCount int                      `mapstructure:"block_count" validate:"gt=0"`
	Preload    []PreloadConfig          `mapstructure:"preload" validate:"dive"`
}

type PreloadConfig struct {
	Name  string `mapstructure:"name" validate:"required,ne=0"`
	Start int    `mapstructure:"start" validate:"gte=0"`
	Size  int    `mapstructure:"size" validate:"gt=0"`
}

type ProcessConfig struct {
	ID       int `mapstructure:"id" validate:"gte=0"`
	Priority int `mapstructure:"priority" validate:"gte=0"`
	Quota    int `mapstructure:"quota" validate:"gte=0"`
}

// OperationConfig is left mostly unvalidated: a bad operation fails on its own
// when it is applied and does not prevent the run.
type OperationConfig struct {
	Process int `mapstructure:"process"`
	// Kind accepts create, delete or their codes 0, 1.
	Kind alloc.OperationKind `mapstructure:"kind"`
	File string              `mapstructure:"file"`
	Size int                 `mapstructure:"size"`
}

// Load loads the configuration file at configPath, applies environment
// overrides and defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := Decode(v.AllSettings())
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults make the keys known to viper, so that environment variables
	// override them even when the file does not mention them
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)
	v.SetDefault("logging.output", defaultLogOutput)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "")

	v.SetConfigFile(configPath)
}

// Decode turns generic settings, as read by viper, into a Config.
func Decode(settings map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			strategyHook,
			operationKindHook,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return &cfg, nil
}

var (
	strategyType      = reflect.TypeOf(alloc.AllocationStrategy(0))
	operationKindType = reflect.TypeOf(alloc.OperationKind(0))
)

func strategyHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != strategyType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseStrategy(data.(string))
}

func operationKindHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != operationKindType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseOperationKind(data.(string))
}

// ParseStrategy accepts a strategy name or its numeric code. Unknown codes are
// kept so that the simulator reports them.
func ParseStrategy(s string) (alloc.AllocationStrategy, error) {
	s = strings.TrimSpace(s)
	for _, st := range []alloc.AllocationStrategy{alloc.Contiguous, alloc.Linked, alloc.Indexed} {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("invalid allocation strategy: %q", s)
	}
	return alloc.AllocationStrategy(n), nil
}

// ParseOperationKind accepts create, delete or a numeric code. Unknown codes
// are kept so that the simulator reports them.
func ParseOperationKind(s string) (alloc.OperationKind, error) {
	s = strings.TrimSpace(s)
	for _, k := range []alloc.OperationKind{alloc.OpCreate, alloc.OpDelete} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("invalid operation kind: %q", s)
	}
	return alloc.OperationKind(n), nil
}

// DiskConfig converts the disk section for the simulator.
func (c *Config) DiskConfig() alloc.DiskConfig {
	preload := make([]alloc.PreloadedFile, 0, len(c.Disk.Preload))
	for _, p := range c.Disk.Preload {
		preload = append(preload, alloc.PreloadedFile{Name: p.Name, Start: p.Start, Size: p.Size})
	}
	return alloc.DiskConfig{
		Strategy:   c.Disk.Strategy,
		BlockCount: c.Disk.BlockCount,
		Preload:    preload,
	}
}

func (c *Config) ProcessSpecs() []alloc.ProcessSpec {
	specs := make([]alloc.ProcessSpec, 0, len(c.Processes))
	for _, p := range c.Processes {
		specs = append(specs, alloc.ProcessSpec{
			ID:       alloc.ProcessID(p.ID),
			Priority: p.Priority,
			Quota:    p.Quota,
		})
	}
	return specs
}

func (c *Config) OperationList() []alloc.Operation {
	ops := make([]alloc.Operation, 0, len(c.Operations))
	for _, o := range c.Operations {
		ops = append(ops, alloc.Operation{
			ProcessID: alloc.ProcessID(o.Process),
			Kind:      o.Kind,
			FileName:  o.File,
			Size:      o.Size,
		})
	}
	return ops
}
