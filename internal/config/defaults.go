package config

import "strings"

const (
	defaultLogLevel  = "INFO"
	defaultLogFormat = "text"
	defaultLogOutput = "stdout"
)

// ApplyDefaults fills the unspecified logging settings and normalizes the log
// level to upper case. Workload sections have no defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = defaultLogOutput
	}
}
